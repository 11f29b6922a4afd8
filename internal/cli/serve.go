package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/infas01/Bookfair-Reservation-Management-System/server"
	"github.com/infas01/Bookfair-Reservation-Management-System/server/loginsession"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the staff portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			displayAppname(cmd, cfg.GetAppName())

			tabs := loginsession.NewInMemoryTabRepo(cfg.GetMaxSessionAge())
			portal := server.New(cfg, tabs)
			go portal.SweepTabs(ctx, sweepInterval)

			srv := &http.Server{Addr: cfg.GetPort(), Handler: portal}
			log.Info().
				Str("addr", srv.Addr).
				Str("iam", cfg.GetIAMServiceURL()).
				Str("stalls", cfg.GetStallServiceURL()).
				Str("reservations", cfg.GetReservationServiceURL()).
				Msg("Portal listening")
			return serveUntilDone(ctx, srv)
		},
	}
}

// serveUntilDone runs every server until ctx is cancelled or one of them
// fails, then shuts them all down.
func serveUntilDone(ctx context.Context, servers ...*http.Server) error {
	errc := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			errc <- listenAndServe(srv)
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
	}

	for _, srv := range servers {
		if err := shutdown(srv); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func listenAndServe(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %s: %w", srv.Addr, err)
	}
	return nil
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown %s: %w", srv.Addr, err)
	}
	return nil
}

func displayAppname(cmd *cobra.Command, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(cmd.OutOrStdout(), myFigure.String())
}

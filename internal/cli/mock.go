package cli

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/infas01/Bookfair-Reservation-Management-System/internal/fakeservices"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMockCmd() *cobra.Command {
	var (
		iamAddr         string
		stallAddr       string
		reservationAddr string
		rotate          bool
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run seeded stand-ins for the identity, stall and reservation services",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			backends, err := fakeservices.New(fakeservices.WithRefreshRotation(rotate))
			if err != nil {
				return err
			}
			if err := backends.Seed(); err != nil {
				return err
			}

			log.Info().
				Str("iam", iamAddr).
				Str("stalls", stallAddr).
				Str("reservations", reservationAddr).
				Str("password", fakeservices.DemoPassword).
				Strs("accounts", []string{fakeservices.DemoAdminEmail, fakeservices.DemoEmployeeEmail, fakeservices.DemoVendorEmail}).
				Msg("Mock backends listening")

			return serveUntilDone(ctx,
				&http.Server{Addr: iamAddr, Handler: backends.IdentityHandler()},
				&http.Server{Addr: stallAddr, Handler: backends.StallHandler()},
				&http.Server{Addr: reservationAddr, Handler: backends.ReservationHandler()},
			)
		},
	}

	cmd.Flags().StringVar(&iamAddr, "iam-addr", ":8081", "identity, admin and profile service address")
	cmd.Flags().StringVar(&stallAddr, "stall-addr", ":5001", "stall inventory service address")
	cmd.Flags().StringVar(&reservationAddr, "reservation-addr", ":5000", "reservation service address")
	cmd.Flags().BoolVar(&rotate, "rotate-refresh", false, "issue a new refresh token on every refresh")
	return cmd
}

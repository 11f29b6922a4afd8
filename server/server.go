package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/auth"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/config"
	"github.com/infas01/Bookfair-Reservation-Management-System/server/loginsession"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server is the staff portal's HTTP surface. Each browser gets its own tab
// with its own session; nothing is shared between tabs.
type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	tabs       loginsession.Repo
	httpClient *http.Client
	validator  *auth.Validator
	logger     zerolog.Logger
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHTTPClient sets the client used for every backend call.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Server) {
		s.httpClient = hc
	}
}

func New(config config.Config, tabs loginsession.Repo, opts ...Option) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		config:     config,
		tabs:       tabs,
		httpClient: http.DefaultClient,
		validator:  auth.NewValidator(),
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.env = config.GetEnv()
	s.logger = s.logger.With().Str("component", "server").Logger()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// SweepTabs drops idle tabs every interval until ctx is done.
func (s *Server) SweepTabs(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.tabs.Sweep(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("Dropped idle tabs")
			}
		}
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + colorReset
	} else {
		displayMethod = colorGray + paddedMethod + colorReset
	}
	s.logger.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

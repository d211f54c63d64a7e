package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const gracefulShutdownTimeout = 10 * time.Second

// Logger is the small logging surface this server needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Server is a minimal HTTP server exposing a read-only device listing,
// useful for a quick curl/browser check independent of Home Assistant.
// It follows the same New/Start/Close lifecycle as the teacher's API
// server, stripped down to one route and no auth.
type Server struct {
	addr    string
	devices DeviceLister
	logger  Logger

	server *http.Server
	cancel context.CancelFunc
}

// New builds a Server listening on addr (e.g. ":8080"), serving devices
// from the given lister.
func New(addr string, devices DeviceLister) *Server {
	return &Server{addr: addr, devices: devices, logger: noopLogger{}}
}

// SetLogger sets the logger used for the server's start message and for
// listen errors.
func (s *Server) SetLogger(logger Logger) {
	s.logger = logger
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/devices", s.handleListDevices)
	return r
}

// Start begins listening in the background. It returns once the listener
// is configured; listen errors after that point are logged, not returned.
func (s *Server) Start(ctx context.Context) error {
	_, s.cancel = context.WithCancel(ctx)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.buildRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http api server stopped", "error", err)
		}
	}()

	s.logger.Info("http api server listening", "addr", s.addr)
	return nil
}

// Close gracefully shuts the server down, waiting up to
// gracefulShutdownTimeout for in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("httpapi: shutting down: %w", err)
	}
	return nil
}

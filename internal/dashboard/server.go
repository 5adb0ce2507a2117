package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
)

const shutdownTimeout = 5 * time.Second

// Server runs the dashboard HTTP server.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer wraps router with access logging and panic recovery.
func NewServer(addr string, router http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	access := logWriter{logger: logger}
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true), handlers.RecoveryLogger(access))(
		handlers.LoggingHandler(access, router),
	)
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run listens until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("dashboard listening", "url", "http://"+ln.Addr().String())
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// logWriter feeds gorilla/handlers access and recovery logs into slog.
type logWriter struct {
	logger *slog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Debug("http", "access", strings.TrimSpace(string(p)))
	return len(p), nil
}

func (w logWriter) Println(v ...any) {
	w.logger.Error("http handler panic", "detail", v)
}

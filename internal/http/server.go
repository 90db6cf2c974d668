package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server owns the HTTP listener of gmao-data.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer sets conservative timeouts; the write timeout leaves room for .xlsx exports.
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      2 * time.Minute,
			IdleTimeout:       2 * time.Minute,
			ErrorLog:          zap.NewStdLog(logger.Named("http")),
		},
		logger: logger,
	}
}

// Start blocks until the listener fails or Stop is called (http.ErrServerClosed).
func (s *Server) Start() error {
	s.logger.Info("gmao-data listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("gmao-data shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("Graceful shutdown incomplete", zap.Error(err))
		return err
	}
	return nil
}

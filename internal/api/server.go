package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{httpServer: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	utils.Zlog.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	utils.Zlog.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/nutriplan/backend/config"
)

// Server represents the HTTP server
type Server struct {
	http *http.Server
}

// New creates a server listening on the configured host and port
func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			// Assistant replies wait on two model calls and the tools
			WriteTimeout: 2 * time.Minute,
		},
	}
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start blocks serving requests until Shutdown is called
func (s *Server) Start() error {
	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

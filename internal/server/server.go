package server

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Tuning for the control API listener.
const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server owns the daemon's *http.Server lifecycle.
type Server struct {
	httpServer *http.Server
}

// Run blocks serving the handler on the given port ("8080" and ":8080" are
// both accepted).
func (s *Server) Run(port string, handler http.Handler) error {
	addr := port
	if addr != "" && !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

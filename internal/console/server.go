package console

import (
	"context"
	"net"
	"sync"

	"pumpbank/internal/logger"
	"pumpbank/internal/service"
)

// Server accepts operator connections and runs one Session per connection.
// The transport is a plain TCP line console; anything that can open a
// socket and send newline-terminated text can drive it.
type Server struct {
	services *service.Service
	senseOn  bool
	log      *logger.Logger
}

func NewServer(services *service.Service, senseOn bool, log *logger.Logger) *Server {
	return &Server{services: services, senseOn: senseOn, log: log}
}

// Run listens on addr and serves until ctx ends.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.log.Infow("console listening", "addr", addr)
	return s.Serve(ctx, ln)
}

// Serve accepts connections on the given listener. Split from Run so tests
// can supply their own listener. It returns after the listener and all
// sessions are closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()

			if err := NewSession(s.services, conn, conn, s.senseOn, s.log).Run(ctx); err != nil {
				s.log.Debugw("console session ended", "err", err)
			}
		}()
	}
}

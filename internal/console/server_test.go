package console

import (
	"context"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"pumpbank"
	"pumpbank/internal/logger"
	"pumpbank/internal/models"
)

func TestServer_ServeAnswersAndStopsOnCancel(t *testing.T) {
	svc, _, _ := newConsoleService(models.ConfigRecord{CycleTimeMs: 1200})
	srv := NewServer(svc, true, logger.Get(logger.ErrorLevel))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("V;\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := fmt.Sprintf("PUMPBANK %s SENSE:ON\n\n", pumpbank.Version)
	buf := make([]byte, len(want))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != want {
		t.Fatalf("reply = %q; want %q", string(buf), want)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not stop")
	}
}

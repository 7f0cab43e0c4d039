package server

import (
	"context"
	"testing"
	"time"

	"github.com/gliderlabs/ssh"

	"github.com/stridekit/strider/internal/console"
)

func TestStartRequiresConsoleFactory(t *testing.T) {
	s := NewSSHServer("127.0.0.1:0", "", nil)
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing console factory")
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	s := NewSSHServer("127.0.0.1:0", "", func(in, out ssh.Session) *console.Console {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

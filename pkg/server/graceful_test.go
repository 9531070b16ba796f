package server

import (
	"net/http"
	"syscall"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGracefulServerSIGHUPDoesNotShutDown(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler())

	go func() {
		if err := gs.Start(); err != nil {
			t.Logf("server stopped: %v", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("send SIGHUP: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if gs.IsShuttingDown() {
		t.Error("server should not be shutting down after SIGHUP")
	}

	if err := gs.Shutdown(1 * time.Second); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestGracefulServerReload(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler())

	called := false
	gs.SetReloadFunc(func() error {
		called = true
		return nil
	})

	if err := gs.Reload(); err != nil {
		t.Errorf("Reload() error = %v", err)
	}
	if !called {
		t.Error("reload function was not called")
	}
}

func TestGracefulServerReloadError(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler())
	gs.SetReloadFunc(func() error {
		return http.ErrServerClosed
	})

	if err := gs.Reload(); err != http.ErrServerClosed {
		t.Errorf("Reload() error = %v, want %v", err, http.ErrServerClosed)
	}
}

func TestGracefulServerShutdownIdempotent(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler())

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("first shutdown: %v", err)
	}
	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("second shutdown: %v", err)
	}
	select {
	case <-gs.ShutdownChannel():
	default:
		t.Error("shutdown channel should be closed")
	}
}

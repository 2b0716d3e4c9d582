package supervise

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubServer struct {
	listenErr     error
	shutdownErr   error
	listenCalls   atomic.Int32
	shutdownCalls atomic.Int32
	started       chan struct{}
	stop          chan struct{}
}

func newStubServer() *stubServer {
	return &stubServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (s *stubServer) ListenAndServe() error {
	s.listenCalls.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdownCalls.Add(1)
	close(s.stop)
	return s.shutdownErr
}

func TestHTTPService_GracefulShutdown(t *testing.T) {
	srv := newStubServer()
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if srv.shutdownCalls.Load() != 1 {
		t.Errorf("expected 1 shutdown call, got %d", srv.shutdownCalls.Load())
	}
}

func TestHTTPService_ListenFailure(t *testing.T) {
	srv := newStubServer()
	srv.listenErr = errors.New("address in use")
	svc := NewHTTPService(srv, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "address in use") {
		t.Fatalf("expected listen error, got %v", err)
	}
	if srv.shutdownCalls.Load() != 0 {
		t.Error("shutdown must not be called after a listen failure")
	}
}

func TestHTTPService_ShutdownError(t *testing.T) {
	srv := newStubServer()
	srv.shutdownErr = errors.New("timeout")
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	<-srv.started
	cancel()

	if err := <-done; err == nil || !strings.Contains(err.Error(), "shutdown failed") {
		t.Fatalf("expected shutdown error, got %v", err)
	}
}

func TestTree_RunsAndStopsServices(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTree(zerolog.New(&buf), TreeConfig{ShutdownTimeout: time.Second})

	started := make(chan struct{})
	stopped := make(chan struct{})
	tree.AddTrackingService(Func{Name: "probe", Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("service was not started")
	}
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("service was not stopped")
	}
	<-errCh
}

func TestTree_RestartsFailedService(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTree(zerolog.New(&buf), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	var runs atomic.Int32
	restarted := make(chan struct{})
	tree.AddTrackingService(Func{Name: "flaky", Run: func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("boom")
		}
		close(restarted)
		<-ctx.Done()
		return ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	select {
	case <-restarted:
	case <-time.After(2 * time.Second):
		t.Fatal("failed service was not restarted")
	}
}

func TestTreeConfig_Defaults(t *testing.T) {
	got := TreeConfig{}.withDefaults()
	if got != DefaultTreeConfig() {
		t.Errorf("withDefaults() = %+v, want %+v", got, DefaultTreeConfig())
	}
}

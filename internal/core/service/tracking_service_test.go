package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type emission struct {
	Channel string
	Coord   domain.Coordinate
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	emitted  []emission
	failNext int // number of upcoming Emit calls that fail
}

func (b *recordingBroadcaster) Emit(_ context.Context, channel string, c domain.Coordinate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failNext > 0 {
		b.failNext--
		return domain.ErrEmissionFailed
	}
	b.emitted = append(b.emitted, emission{Channel: channel, Coord: c})
	return nil
}

func (b *recordingBroadcaster) snapshot() []emission {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]emission, len(b.emitted))
	copy(out, b.emitted)
	return out
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.emitted)
}

type stubSessions struct {
	mu       sync.Mutex
	sessions []domain.TrackingSession
	err      error
}

func (r *stubSessions) InsertSession(_ context.Context, s *domain.TrackingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sessions = append(r.sessions, *s)
	return nil
}

func mustRoute(t *testing.T, points ...domain.Coordinate) *domain.RouteSample {
	t.Helper()
	r, err := domain.NewRouteSample(points)
	if err != nil {
		t.Fatalf("build route: %v", err)
	}
	return r
}

type trackingFixture struct {
	sup      *TrackingSupervisor
	repo     *stubMotorcycleRepo
	bc       *recordingBroadcaster
	sessions *stubSessions
}

func newTrackingFixture(t *testing.T, interval time.Duration, route *domain.RouteSample, plates ...string) *trackingFixture {
	t.Helper()
	repo := newStubMotorcycleRepo()
	for _, p := range plates {
		repo.seed(p)
	}
	bc := &recordingBroadcaster{}
	sessions := &stubSessions{}
	sup := NewTrackingSupervisor(
		route,
		NewMotorcycleService(repo, zerolog.Nop()),
		bc,
		sessions,
		TrackingConfig{Interval: interval, ThresholdMeters: DefaultSignificanceMeters},
		zerolog.Nop(),
	)
	t.Cleanup(sup.Shutdown)
	return &trackingFixture{sup: sup, repo: repo, bc: bc, sessions: sessions}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

// ---------------------------------------------------------------------------
// Control operations
// ---------------------------------------------------------------------------

func TestTrackingSupervisor_EndToEnd(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	if route.Size() != 2 {
		t.Fatalf("expected deduplicated route of size 2, got %d", route.Size())
	}
	f := newTrackingFixture(t, 5*time.Millisecond, route, "ABC-123")

	res, err := f.sup.Start(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.ResultOK {
		t.Fatalf("expected ok, got %+v", res)
	}

	waitFor(t, time.Second, func() bool { return f.bc.count() >= 3 })

	want := []emission{
		{Channel: "ABC-123", Coord: domain.Coordinate{Lat: 0, Lng: 0}},
		{Channel: "ABC-123", Coord: domain.Coordinate{Lat: 0, Lng: 1}},
		{Channel: "ABC-123", Coord: domain.Coordinate{Lat: 0, Lng: 0}},
	}
	if diff := cmp.Diff(want, f.bc.snapshot()[:3]); diff != "" {
		t.Errorf("unexpected emissions (-want +got):\n%s", diff)
	}
}

func TestTrackingSupervisor_Start_UnknownPlate(t *testing.T) {
	f := newTrackingFixture(t, time.Hour, mustRoute(t, domain.Coordinate{Lat: 1, Lng: 1}))

	res, err := f.sup.Start(context.Background(), "UNKNOWN")
	if !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Errorf("expected ErrVehicleNotFound, got: %v", err)
	}
	if res.Status != domain.ResultError {
		t.Errorf("expected error status, got %q", res.Status)
	}
	if !strings.Contains(res.Message, "no encontrada") {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if plates := f.sup.ActivePlates(); len(plates) != 0 {
		t.Errorf("expected no active plates, got %v", plates)
	}
}

func TestTrackingSupervisor_Start_LookupError(t *testing.T) {
	f := newTrackingFixture(t, time.Hour, mustRoute(t, domain.Coordinate{Lat: 1, Lng: 1}), "ABC-123")
	f.repo.findErr = errors.New("connection refused")

	res, err := f.sup.Start(context.Background(), "ABC-123")
	if err == nil || errors.Is(err, domain.ErrVehicleNotFound) {
		t.Errorf("expected a non-sentinel lookup error, got: %v", err)
	}
	if res.Status != domain.ResultError {
		t.Errorf("expected error status, got %q", res.Status)
	}
	if len(f.sup.ActivePlates()) != 0 {
		t.Error("no task should be registered on lookup failure")
	}
}

func TestTrackingSupervisor_Start_Idempotent(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	f := newTrackingFixture(t, time.Hour, route, "ABC-123")

	if _, err := f.sup.Start(context.Background(), "ABC-123"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	waitFor(t, time.Second, func() bool { return f.bc.count() == 1 })

	res, err := f.sup.Start(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if res.Status != domain.ResultOK || !strings.Contains(res.Message, "ya activa") {
		t.Errorf("expected already-active result, got %+v", res)
	}

	time.Sleep(20 * time.Millisecond)
	if n := f.bc.count(); n != 1 {
		t.Errorf("expected exactly one running loop (1 emission), got %d emissions", n)
	}

	snap, ok := f.sup.Status("ABC-123")
	if !ok {
		t.Fatal("expected active status")
	}
	if snap.Cursor != 1 {
		t.Errorf("cursor should not be reset by a repeated start, got %d", snap.Cursor)
	}
	if plates := f.sup.ActivePlates(); len(plates) != 1 {
		t.Errorf("expected one active plate, got %v", plates)
	}
}

func TestTrackingSupervisor_Stop_NoActiveTask(t *testing.T) {
	f := newTrackingFixture(t, time.Hour, mustRoute(t, domain.Coordinate{Lat: 1, Lng: 1}), "ABC-123")

	res, err := f.sup.Stop(context.Background(), "ABC-123")
	if !errors.Is(err, domain.ErrNoActiveTracking) {
		t.Errorf("expected ErrNoActiveTracking, got: %v", err)
	}
	if res.Status != domain.ResultError {
		t.Errorf("expected error status, got %q", res.Status)
	}
}

func TestTrackingSupervisor_Stop_HaltsEmission(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	f := newTrackingFixture(t, 5*time.Millisecond, route, "ABC-123")

	if _, err := f.sup.Start(context.Background(), "ABC-123"); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, time.Second, func() bool { return f.bc.count() >= 2 })

	res, err := f.sup.Stop(context.Background(), "ABC-123")
	if err != nil || res.Status != domain.ResultOK {
		t.Fatalf("stop: %+v %v", res, err)
	}
	if _, ok := f.sup.Status("ABC-123"); ok {
		t.Error("plate should be removed from the active set")
	}

	time.Sleep(20 * time.Millisecond)
	settled := f.bc.count()
	time.Sleep(40 * time.Millisecond)
	if n := f.bc.count(); n != settled {
		t.Errorf("emissions continued after stop: %d -> %d", settled, n)
	}
}

func TestTrackingSupervisor_RestartAfterStop(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	f := newTrackingFixture(t, time.Hour, route, "ABC-123")
	ctx := context.Background()

	if _, err := f.sup.Start(ctx, "ABC-123"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.sup.Stop(ctx, "ABC-123"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	res, err := f.sup.Start(ctx, "ABC-123")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if !strings.Contains(res.Message, "iniciada") {
		t.Errorf("expected a fresh start, got %q", res.Message)
	}
	if plates := f.sup.ActivePlates(); len(plates) != 1 {
		t.Errorf("expected one active plate, got %v", plates)
	}
}

func TestTrackingSupervisor_ConcurrentStartStop(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	f := newTrackingFixture(t, time.Millisecond, route, "ABC-123")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.sup.Start(ctx, "ABC-123")
		}()
		go func() {
			defer wg.Done()
			_, _ = f.sup.Stop(ctx, "ABC-123")
		}()
	}
	wg.Wait()

	if plates := f.sup.ActivePlates(); len(plates) > 1 {
		t.Errorf("active set holds duplicates: %v", plates)
	}
}

func TestTrackingSupervisor_Shutdown(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	f := newTrackingFixture(t, 5*time.Millisecond, route, "ABC-123", "XYZ-789")
	ctx := context.Background()

	for _, p := range []string{"ABC-123", "XYZ-789"} {
		if _, err := f.sup.Start(ctx, p); err != nil {
			t.Fatalf("start %s: %v", p, err)
		}
	}
	if diff := cmp.Diff([]string{"ABC-123", "XYZ-789"}, f.sup.ActivePlates()); diff != "" {
		t.Errorf("unexpected active plates (-want +got):\n%s", diff)
	}

	f.sup.Shutdown()

	if plates := f.sup.ActivePlates(); len(plates) != 0 {
		t.Errorf("expected all loops released after shutdown, got %v", plates)
	}
	res, err := f.sup.Start(ctx, "ABC-123")
	if err == nil || res.Status != domain.ResultError {
		t.Errorf("start after shutdown should fail, got %+v %v", res, err)
	}
}

func TestTrackingSupervisor_Serve_StopsOnCancel(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	f := newTrackingFixture(t, 5*time.Millisecond, route, "ABC-123")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.sup.Serve(ctx) }()

	if _, err := f.sup.Start(context.Background(), "ABC-123"); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if len(f.sup.ActivePlates()) != 0 {
		t.Error("loops should be gone after Serve returns")
	}
}

func TestTrackingSupervisor_AuditsLifecycle(t *testing.T) {
	f := newTrackingFixture(t, time.Hour, mustRoute(t, domain.Coordinate{Lat: 1, Lng: 1}), "ABC-123")
	ctx := context.Background()

	_, _ = f.sup.Start(ctx, "ABC-123")
	_, _ = f.sup.Stop(ctx, "ABC-123")

	f.sessions.mu.Lock()
	defer f.sessions.mu.Unlock()
	if len(f.sessions.sessions) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(f.sessions.sessions))
	}
	if f.sessions.sessions[0].Action != domain.TrackingActionStarted || f.sessions.sessions[1].Action != domain.TrackingActionStopped {
		t.Errorf("unexpected audit actions: %+v", f.sessions.sessions)
	}
}

func TestTrackingSupervisor_AuditFailureIsNonFatal(t *testing.T) {
	f := newTrackingFixture(t, time.Hour, mustRoute(t, domain.Coordinate{Lat: 1, Lng: 1}), "ABC-123")
	f.sessions.err = errors.New("write concern failed")

	res, err := f.sup.Start(context.Background(), "ABC-123")
	if err != nil || res.Status != domain.ResultOK {
		t.Errorf("audit failure must not affect start, got %+v %v", res, err)
	}
}

// ---------------------------------------------------------------------------
// Replay step
// ---------------------------------------------------------------------------

func newTestTask(plate string) *trackingTask {
	task := &trackingTask{plate: plate, stop: make(chan struct{})}
	task.active.Store(true)
	return task
}

func TestTrackingSupervisor_Tick_SignificanceFilter(t *testing.T) {
	route := mustRoute(t,
		domain.Coordinate{Lat: 0, Lng: 0},
		domain.Coordinate{Lat: 0, Lng: 0.00004}, // ~4.4 m from origin
		domain.Coordinate{Lat: 0, Lng: 0.00006}, // ~6.7 m from origin
	)
	f := newTrackingFixture(t, time.Hour, route)
	task := newTestTask("ABC-123")

	f.sup.tick(task)
	f.sup.tick(task)
	if n := f.bc.count(); n != 1 {
		t.Fatalf("sample below threshold should be skipped, got %d emissions", n)
	}
	if snap := task.snapshot(); snap.Cursor != 2 || snap.Skipped != 1 {
		t.Errorf("cursor must advance on skip, got cursor=%d skipped=%d", snap.Cursor, snap.Skipped)
	}

	f.sup.tick(task)
	got := f.bc.snapshot()
	if len(got) != 2 || !got[1].Coord.Equal(domain.Coordinate{Lat: 0, Lng: 0.00006}) {
		t.Fatalf("expected sample above threshold to be emitted, got %+v", got)
	}
	if snap := task.snapshot(); snap.Cursor != 0 {
		t.Errorf("cursor should wrap to 0, got %d", snap.Cursor)
	}
}

func TestTrackingSupervisor_Tick_EmissionFailureContinues(t *testing.T) {
	route := mustRoute(t, domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 1})
	f := newTrackingFixture(t, time.Hour, route)
	f.bc.failNext = 1
	task := newTestTask("ABC-123")

	f.sup.tick(task)
	snap := task.snapshot()
	if snap.LastEmitted != nil {
		t.Errorf("failed emission must not update last emitted, got %+v", snap.LastEmitted)
	}
	if snap.Cursor != 1 {
		t.Errorf("cursor must advance after a failed emission, got %d", snap.Cursor)
	}

	f.sup.tick(task)
	if got := f.bc.snapshot(); len(got) != 1 || !got[0].Coord.Equal(domain.Coordinate{Lat: 0, Lng: 1}) {
		t.Errorf("expected next sample to be emitted, got %+v", got)
	}
}

func TestSignificant(t *testing.T) {
	origin := domain.Coordinate{Lat: 0, Lng: 0}
	tests := []struct {
		name    string
		last    *domain.Coordinate
		current domain.Coordinate
		want    bool
	}{
		{"first sample", nil, origin, true},
		{"same point", &origin, origin, false},
		{"below threshold", &origin, domain.Coordinate{Lat: 0, Lng: 0.00004}, false},
		{"above threshold", &origin, domain.Coordinate{Lat: 0, Lng: 0.00006}, true},
		{"far away", &origin, domain.Coordinate{Lat: 0, Lng: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := significant(tt.last, tt.current, DefaultSignificanceMeters); got != tt.want {
				t.Errorf("significant() = %v, want %v", got, tt.want)
			}
		})
	}
}

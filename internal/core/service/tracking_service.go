package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
	"github.com/delivery-system/ms-delivery/internal/pkg/metrics"
)

const (
	DefaultTrackingInterval   = 3 * time.Second
	DefaultSignificanceMeters = 5.0
)

// TrackingConfig holds the replay cadence and the significance threshold.
type TrackingConfig struct {
	Interval        time.Duration
	ThresholdMeters float64
}

func (c TrackingConfig) withDefaults() TrackingConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultTrackingInterval
	}
	if c.ThresholdMeters <= 0 {
		c.ThresholdMeters = DefaultSignificanceMeters
	}
	return c
}

// trackingTask is the state of one simulated feed. The active flag and stop
// channel are the only fields touched from outside the task's own goroutine;
// cursor and counters are guarded by mu so Status can read them.
type trackingTask struct {
	plate     string
	startedAt time.Time
	active    atomic.Bool
	stop      chan struct{}

	mu          sync.Mutex
	cursor      int
	lastEmitted *domain.Coordinate
	emitted     int64
	skipped     int64
}

func (t *trackingTask) snapshot() domain.TrackingSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := domain.TrackingSnapshot{
		Plate:     t.plate,
		Active:    t.active.Load(),
		Cursor:    t.cursor,
		Emitted:   t.emitted,
		Skipped:   t.skipped,
		StartedAt: t.startedAt,
	}
	if t.lastEmitted != nil {
		last := *t.lastEmitted
		snap.LastEmitted = &last
	}
	return snap
}

// TrackingSupervisor owns the per-plate replay loops. Every loop replays the
// same shared route.
type TrackingSupervisor struct {
	route       *domain.RouteSample
	vehicles    ports.VehicleLookup
	broadcaster ports.Broadcaster
	sessions    ports.TrackingSessionRepository
	cfg         TrackingConfig
	log         zerolog.Logger

	mu    sync.Mutex
	tasks map[string]*trackingTask

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTrackingSupervisor returns a supervisor with no active tasks. sessions
// may be nil, in which case lifecycle transitions are not audited.
func NewTrackingSupervisor(
	route *domain.RouteSample,
	vehicles ports.VehicleLookup,
	broadcaster ports.Broadcaster,
	sessions ports.TrackingSessionRepository,
	cfg TrackingConfig,
	log zerolog.Logger,
) *TrackingSupervisor {
	ctx, cancel := context.WithCancel(context.Background())
	return &TrackingSupervisor{
		route:       route,
		vehicles:    vehicles,
		broadcaster: broadcaster,
		sessions:    sessions,
		cfg:         cfg.withDefaults(),
		log:         log.With().Str("component", "tracking").Logger(),
		tasks:       make(map[string]*trackingTask),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins the simulated feed for plate. A second Start for a plate that
// is already active reports success without spawning another loop.
func (s *TrackingSupervisor) Start(ctx context.Context, plate string) (domain.TrackingResult, error) {
	plate = strings.TrimSpace(plate)

	vehicle, err := s.vehicles.VehicleByPlate(ctx, plate)
	if err != nil {
		metrics.TrackingRequestsTotal.WithLabelValues("start", "lookup_failed").Inc()
		s.log.Error().Err(err).Str("plate", plate).Msg("vehicle lookup failed")
		return domain.TrackingResult{
			Status:  domain.ResultError,
			Message: fmt.Sprintf("No se pudo verificar la motocicleta %s", plate),
		}, fmt.Errorf("start tracking: %w", err)
	}
	if vehicle == nil {
		metrics.TrackingRequestsTotal.WithLabelValues("start", "vehicle_not_found").Inc()
		return domain.VehicleNotFound(), domain.ErrVehicleNotFound
	}

	s.mu.Lock()
	if err := s.ctx.Err(); err != nil {
		s.mu.Unlock()
		return domain.TrackingResult{
			Status:  domain.ResultError,
			Message: "El servicio de rastreo se está deteniendo",
		}, fmt.Errorf("start tracking: %w", err)
	}
	if _, ok := s.tasks[plate]; ok {
		s.mu.Unlock()
		metrics.TrackingRequestsTotal.WithLabelValues("start", "already_active").Inc()
		return domain.TrackingAlreadyActive(plate), nil
	}

	task := &trackingTask{
		plate:     plate,
		startedAt: time.Now().UTC(),
		stop:      make(chan struct{}),
	}
	task.active.Store(true)
	s.tasks[plate] = task
	s.wg.Add(1)
	go s.run(task)
	s.mu.Unlock()

	metrics.TrackingActive.Inc()
	metrics.TrackingRequestsTotal.WithLabelValues("start", "started").Inc()
	s.log.Info().Str("plate", plate).Int("route_size", s.route.Size()).Msg("tracking started")
	s.audit(ctx, plate, domain.TrackingActionStarted)

	return domain.TrackingStarted(plate), nil
}

// Stop signals the loop for plate to exit and removes it from the active set.
// The loop observes the signal before its next tick.
func (s *TrackingSupervisor) Stop(ctx context.Context, plate string) (domain.TrackingResult, error) {
	plate = strings.TrimSpace(plate)

	s.mu.Lock()
	task, ok := s.tasks[plate]
	if !ok {
		s.mu.Unlock()
		metrics.TrackingRequestsTotal.WithLabelValues("stop", "not_active").Inc()
		return domain.NoActiveTracking(plate), domain.ErrNoActiveTracking
	}
	task.active.Store(false)
	close(task.stop)
	delete(s.tasks, plate)
	s.mu.Unlock()

	metrics.TrackingActive.Dec()
	metrics.TrackingRequestsTotal.WithLabelValues("stop", "stopped").Inc()
	s.log.Info().Str("plate", plate).Msg("tracking stopped")
	s.audit(ctx, plate, domain.TrackingActionStopped)

	return domain.TrackingStopped(plate), nil
}

// Status returns a snapshot of the task for plate, if one is active.
func (s *TrackingSupervisor) Status(plate string) (domain.TrackingSnapshot, bool) {
	s.mu.Lock()
	task, ok := s.tasks[strings.TrimSpace(plate)]
	s.mu.Unlock()
	if !ok {
		return domain.TrackingSnapshot{}, false
	}
	return task.snapshot(), true
}

// ActivePlates returns the plates with an active task, sorted.
func (s *TrackingSupervisor) ActivePlates() []string {
	s.mu.Lock()
	plates := make([]string, 0, len(s.tasks))
	for p := range s.tasks {
		plates = append(plates, p)
	}
	s.mu.Unlock()

	sort.Strings(plates)
	return plates
}

// Serve blocks until ctx is cancelled and then terminates every loop. It lets
// the supervisor run under a suture tree.
func (s *TrackingSupervisor) Serve(ctx context.Context) error {
	<-ctx.Done()
	s.Shutdown()
	return ctx.Err()
}

// Shutdown cancels all loops and waits for them to exit.
func (s *TrackingSupervisor) Shutdown() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *TrackingSupervisor) run(task *trackingTask) {
	defer s.wg.Done()
	defer s.release(task)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if !task.active.Load() || s.ctx.Err() != nil {
			return
		}

		s.tick(task)

		select {
		case <-s.ctx.Done():
			return
		case <-task.stop:
			return
		case <-ticker.C:
		}
	}
}

// release drops task from the active set when the loop exits on its own
// (shutdown) rather than through Stop.
func (s *TrackingSupervisor) release(task *trackingTask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tasks[task.plate] == task {
		delete(s.tasks, task.plate)
		metrics.TrackingActive.Dec()
	}
}

// tick performs one replay step: read the sample under the cursor, emit it if
// it moved far enough from the last emitted one, advance the cursor.
func (s *TrackingSupervisor) tick(task *trackingTask) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("plate", task.plate).Msg("tracking tick panicked")
		}
	}()

	task.mu.Lock()
	index := task.cursor
	current := s.route.At(index)
	emit := significant(task.lastEmitted, current, s.cfg.ThresholdMeters)
	task.cursor = (index + 1) % s.route.Size()
	if !emit {
		task.skipped++
	}
	task.mu.Unlock()

	if !emit {
		metrics.TrackingTicksTotal.WithLabelValues("skipped").Inc()
		s.log.Trace().Str("plate", task.plate).Int("index", index).Msg("sample below threshold")
		return
	}

	if err := s.broadcaster.Emit(s.ctx, task.plate, current); err != nil {
		metrics.TrackingTicksTotal.WithLabelValues("failed").Inc()
		s.log.Warn().Err(err).Str("plate", task.plate).Int("index", index).Msg("position emission failed")
		return
	}

	task.mu.Lock()
	task.lastEmitted = &current
	task.emitted++
	task.mu.Unlock()

	metrics.TrackingTicksTotal.WithLabelValues("emitted").Inc()
	s.log.Debug().
		Str("plate", task.plate).
		Int("index", index).
		Float64("lat", current.Lat).
		Float64("lng", current.Lng).
		Msg("position emitted")
}

// significant reports whether current should be emitted given the last
// emitted coordinate.
func significant(last *domain.Coordinate, current domain.Coordinate, thresholdMeters float64) bool {
	if last == nil {
		return true
	}
	return domain.DistanceMeters(*last, current) >= thresholdMeters
}

// audit records a lifecycle transition. Failures never affect the control
// result.
func (s *TrackingSupervisor) audit(ctx context.Context, plate string, action domain.TrackingAction) {
	if s.sessions == nil {
		return
	}
	err := s.sessions.InsertSession(context.WithoutCancel(ctx), &domain.TrackingSession{
		Plate:  plate,
		Action: action,
		At:     time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("plate", plate).Str("action", string(action)).Msg("failed to record tracking session")
	}
}

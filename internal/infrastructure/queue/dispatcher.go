package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
	"github.com/delivery-system/ms-delivery/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	publishTimeout = 2 * time.Second
)

type position struct {
	channel    string
	coordinate domain.Coordinate
}

// Dispatcher decouples the replay loops from the broadcaster. Positions are
// routed to a fixed set of workers by hashing the channel, so updates for one
// plate are published in the order they were emitted.
type Dispatcher struct {
	workers []chan position
	target  ports.Broadcaster
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer positions. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, target ports.Broadcaster, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan position, numWorkers),
		target:  target,
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan position, buffer)
	}
	return d
}

// Emit queues the coordinate for its channel's worker and returns immediately.
// A full shard yields domain.ErrEmissionFailed.
func (d *Dispatcher) Emit(_ context.Context, channel string, c domain.Coordinate) error {
	idx := d.shardIndex(channel)
	select {
	case d.workers[idx] <- position{channel: channel, coordinate: c}:
		metrics.BroadcastQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.BroadcastDroppedTotal.WithLabelValues("queue_full").Inc()
		return fmt.Errorf("%w: dispatcher shard %d is full", domain.ErrEmissionFailed, idx)
	}
}

// Serve runs every worker until ctx is cancelled. Positions still queued at
// that point are discarded.
func (d *Dispatcher) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	for i, ch := range d.workers {
		i, ch := i, ch
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runWorker(ctx, i, ch)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// shardIndex maps a channel deterministically to a worker index.
func (d *Dispatcher) shardIndex(channel string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(channel))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan position) {
	depth := metrics.BroadcastQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-ch:
			depth.Set(float64(len(ch)))
			d.publish(ctx, id, p)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, id int, p position) {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	start := time.Now()
	err := d.target.Emit(pubCtx, p.channel, p.coordinate)
	metrics.BroadcastPublishDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BroadcastDroppedTotal.WithLabelValues("publish_failed").Inc()
		d.log.Error().Err(err).
			Str("plate", p.channel).
			Int("worker_id", id).
			Msg("position publish failed")
	}
}

package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
	drainTimeout   = 2 * time.Second
)

// AuditDispatcher routes audit events to a fixed set of workers using consistent
// hashing on the event subject, so events for one subject are persisted in order.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	onDrop  func(domain.AuditEvent)
	dropped atomic.Uint64
	wg      sync.WaitGroup
}

// DispatcherOption customises an AuditDispatcher.
type DispatcherOption func(*AuditDispatcher)

// WithDropHook registers fn to be called for every event dropped on a full queue.
func WithDropHook(fn func(domain.AuditEvent)) DispatcherOption {
	return func(d *AuditDispatcher) { d.onDrop = fn }
}

// WithBuffer sets the per-worker queue capacity.
func WithBuffer(n int) DispatcherOption {
	return func(d *AuditDispatcher) {
		if n < 0 {
			n = 0
		}
		for i := range d.workers {
			d.workers[i] = make(chan domain.AuditEvent, n)
		}
	}
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger, opts ...DispatcherOption) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
		onDrop:  func(domain.AuditEvent) {},
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// persists what is already queued, bounded by drainTimeout, and then returns.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has returned.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record hands the event to the worker responsible for its subject. It never
// blocks: when that worker's queue is full the event is dropped and counted.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	select {
	case d.workers[d.shardIndex(event.Subject)] <- event:
	default:
		d.dropped.Add(1)
		d.onDrop(event)
		d.log.Warn().
			Str("type", string(event.Type)).
			Msg("audit queue full, event dropped")
	}
}

// Dropped returns the number of events discarded because a queue was full.
func (d *AuditDispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// shardIndex maps a subject deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	base := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			d.drain(base, id, ch)
			return
		case event := <-ch:
			insertCtx, cancel := context.WithTimeout(base, insertTimeout)
			d.persist(insertCtx, id, event)
			cancel()
		}
	}
}

// drain persists the events left in ch under one shared deadline. Whatever is
// still queued when the deadline passes is counted as dropped.
func (d *AuditDispatcher) drain(base context.Context, id int, ch <-chan domain.AuditEvent) {
	drainCtx, cancel := context.WithTimeout(base, drainTimeout)
	defer cancel()

	drained := 0
	for {
		select {
		case event := <-ch:
			if drainCtx.Err() != nil {
				d.dropped.Add(1)
				d.onDrop(event)
				continue
			}
			d.persist(drainCtx, id, event)
			drained++
		default:
			if drained > 0 {
				d.log.Debug().Int("worker_id", id).Int("events", drained).Msg("audit queue drained")
			}
			return
		}
	}
}

func (d *AuditDispatcher) persist(ctx context.Context, id int, event domain.AuditEvent) {
	if err := d.repo.Insert(ctx, &event); err != nil {
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Int("worker_id", id).
			Msg("audit event persistence failed")
	}
}

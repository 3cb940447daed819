package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes login events to a fixed set of workers using consistent
// hashing on the email, so events for one account are recorded in order.
type Dispatcher struct {
	workers []chan domain.LoginEvent
	service ports.AuditService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.LoginEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LoginEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or, after Stop, once their shard is drained. ctx is also the context the
// events are processed with.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go func(id int, ch <-chan domain.LoginEvent) {
			defer d.wg.Done()
			d.runWorker(ctx, id, ch)
		}(i, ch)
	}
}

// Stop refuses new events and waits until the workers have processed what
// is already queued, or until ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue hands event to its shard without blocking. When the shard is full
// the event is dropped; the login itself has already been decided.
func (d *Dispatcher) Enqueue(event domain.LoginEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.shardIndex(event.Email)
	if d.closed {
		d.log.Warn().
			Str("email", event.Email).
			Str("outcome", string(event.Outcome)).
			Msg("audit dispatcher stopped, login event dropped")
		return
	}
	select {
	case d.workers[idx] <- event:
	default:
		d.log.Warn().
			Str("email", event.Email).
			Str("outcome", string(event.Outcome)).
			Int("worker_id", idx).
			Msg("audit queue full, login event dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.LoginEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("email", event.Email).
					Int("worker_id", id).
					Msg("login event processing failed")
			}
		}
	}
}

var _ ports.AuditSink = (*Dispatcher)(nil)

package operator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

var ErrStopped = errors.New("operator: delegator stopped")

const queueSize = 1000

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	store      storage.Store
	queue      chan ActionItem
	numWorkers int
	maxRetries int
	newBackOff func() backoff.BackOff
	wg         sync.WaitGroup
	stopOnce   sync.Once

	mu      sync.RWMutex
	stopped bool
}

type Option func(*OperatorDelegator)

// WithMaxRetries bounds how often a conflicting unit is re-run.
func WithMaxRetries(n int) Option {
	return func(d *OperatorDelegator) {
		if n >= 0 {
			d.maxRetries = n
		}
	}
}

// WithBackOff replaces the delay policy between retries.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(d *OperatorDelegator) {
		d.newBackOff = newBackOff
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Second
	return b
}

func NewOperatorDelegator(s storage.Store, numWorkers int, opts ...Option) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	d := &OperatorDelegator{
		store:      s,
		queue:      make(chan ActionItem, queueSize),
		numWorkers: numWorkers,
		maxRetries: 3,
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *OperatorDelegator) Start() {
	logrus.WithField("workers", d.numWorkers).Info("OperatorDelegator.Start")
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.store, d.queue, d.maxRetries, d.newBackOff)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop drains the queue and waits for every worker to finish.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()
		d.wg.Wait()
		logrus.Info("OperatorDelegator.Stop")
	})
}

// Process runs action in its own unit of work and waits for the outcome.
// Once a worker has picked the item up, Process always waits for its result,
// so a nil error means the unit committed even if ctx ended meanwhile. When
// ctx ends while the item is still queued, the unit never starts.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		started:  make(chan struct{}),
		response: respCh,
	}

	if err := d.enqueue(ctx, item); err != nil {
		return err
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-item.started:
	case <-ctx.Done():
		select {
		case <-item.started:
		default:
			// The worker checks ctx before its first attempt and skips the item.
			return ctx.Err()
		}
	}
	resp := <-respCh
	return resp.err
}

func (d *OperatorDelegator) enqueue(ctx context.Context, item ActionItem) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package queue runs background jobs on an in-memory or Redis driver.
//
// A job is any JSON-serializable value with a Handle method. Its registered
// name travels with the payload, so a worker in another process (or a
// failed_jobs row written last week) can rebuild it:
//
//	queue.Register("order.publish_event", func() queue.Job { return &jobs.PublishOrderEvent{} })
//	queue.Dispatch(&jobs.PublishOrderEvent{Event: ev})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"github.com/shashiranjanraj/shirtshop/pkg/metrics"
)

type Job interface {
	Handle(ctx context.Context) error
}

// Named jobs choose their registry name; others are registered under %T.
type Named interface {
	JobName() string
}

// Driver stores encoded jobs. Pop returns (nil, nil) when nothing arrived
// before its own poll timeout.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// Options configures the process-wide queue. Zero fields keep their
// current value.
type Options struct {
	Driver      Driver
	MaxAttempts int
	// Backoff is the base delay between attempts; attempt n waits n×Backoff.
	Backoff time.Duration
}

type manager struct {
	mu        sync.RWMutex
	driver    Driver
	factories map[string]func() Job
	attempts  int
	backoff   time.Duration
}

var std = &manager{
	driver:    NewMemoryDriver(),
	factories: map[string]func() Job{},
	attempts:  3,
	backoff:   time.Second,
}

func Configure(o Options) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if o.Driver != nil {
		std.driver = o.Driver
	}
	if o.MaxAttempts > 0 {
		std.attempts = o.MaxAttempts
	}
	if o.Backoff > 0 {
		std.backoff = o.Backoff
	}
}

// Register makes a job type decodable under name.
func Register(name string, factory func() Job) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.factories[name] = factory
}

// NameOf returns the name job is dispatched under.
func NameOf(job Job) string {
	if n, ok := job.(Named); ok {
		return n.JobName()
	}
	return fmt.Sprintf("%T", job)
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch encodes job and pushes it onto the driver.
func Dispatch(job Job) error {
	name := NameOf(job)
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: encode %s: %w", name, err)
	}
	raw, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: encode envelope: %w", err)
	}
	return std.current().Push(raw)
}

// decode rebuilds a job from its registered name and JSON payload.
func (m *manager) decode(name string, payload []byte) (Job, error) {
	m.mu.RLock()
	factory, ok := m.factories[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("queue: unregistered job %q", name)
	}
	job := factory()
	if err := json.Unmarshal(payload, job); err != nil {
		return nil, fmt.Errorf("queue: decode %s: %w", name, err)
	}
	return job, nil
}

func (m *manager) current() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// StartWorkers launches n workers that run until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go std.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.current().Pop(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return
		case err != nil:
			logger.Warn("queue: pop failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(500 * time.Millisecond):
			}
		case raw != nil:
			m.process(ctx, raw)
		}
	}
}

func (m *manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}
	job, err := m.decode(env.Type, env.Payload)
	if err != nil {
		logger.Error("queue: job dropped", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	attempts, err := m.attempt(ctx, job, env.Type)
	if err == nil {
		metrics.RecordQueueJob(env.Type, "success", start)
		return
	}
	metrics.RecordQueueJob(env.Type, "failed", start)
	logger.Error("queue: job exhausted retries", "type", env.Type, "attempts", attempts, "error", err)
	persistFailed(job, env.Type, err, attempts)
}

// attempt runs job until it succeeds, runs out of attempts, or ctx ends.
// It returns how many times Handle was called and the last error.
func (m *manager) attempt(ctx context.Context, job Job, name string) (int, error) {
	m.mu.RLock()
	limit, backoff := m.attempts, m.backoff
	m.mu.RUnlock()

	var err error
	n := 0
	for n < limit {
		n++
		if err = job.Handle(ctx); err == nil {
			return n, nil
		}
		logger.Warn("queue: job failed", "type", name, "attempt", n, "error", err)
		if n == limit {
			break
		}
		select {
		case <-ctx.Done():
			return n, err
		case <-time.After(time.Duration(n) * backoff):
		}
	}
	return n, err
}

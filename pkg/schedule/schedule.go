// Package schedule runs periodic maintenance tasks inside a long-lived
// process (the HTTP server or a queue worker).
//
//	schedule.Every(5 * time.Minute).Name("queue:retry-failed").WithoutOverlapping().Run(retry)
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/shirtshop/pkg/logger"
)

// Task is a unit of scheduled work. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context)

type entry struct {
	id        string
	interval  time.Duration
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Schedule is a fluent builder for a single entry before it is registered.
type Schedule struct {
	e *entry
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// tick is how often the loop checks for due tasks.
var tick = time.Second

// Every starts a builder for a task that runs once per interval, the first
// time on the first tick after Start.
func Every(interval time.Duration) *Schedule {
	return &Schedule{e: &entry{interval: interval}}
}

// WithoutOverlapping skips a run while the previous one is still going.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task.
func (s *Schedule) Run(fn Task) {
	regMu.Lock()
	defer regMu.Unlock()
	s.e.task = fn
	if s.e.id == "" {
		s.e.id = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries = append(entries, s.e)
}

// Start runs the scheduler loop in the background until ctx is cancelled.
func Start(ctx context.Context) {
	go run(ctx, tick)
	logger.Info("schedule: scheduler started", "tasks", len(List()))
}

func run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: scheduler stopped")
			return
		case now := <-ticker.C:
			regMu.Lock()
			current := make([]*entry, len(entries))
			copy(current, entries)
			regMu.Unlock()

			for _, e := range current {
				dispatch(ctx, e, now)
			}
		}
	}
}

func dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if !e.lastRun.IsZero() && now.Sub(e.lastRun) < e.interval {
		e.mu.Unlock()
		return
	}
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()
		logger.Debug("schedule: running task", "id", e.id)
		e.task(ctx)
	}()
}

// List returns the registered task ids with their intervals.
func List() []string {
	regMu.Lock()
	defer regMu.Unlock()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s (every %s)", e.id, e.interval))
	}
	return out
}

// Reset drops every registered task. Tests use it between cases.
func Reset() {
	regMu.Lock()
	entries = nil
	regMu.Unlock()
}

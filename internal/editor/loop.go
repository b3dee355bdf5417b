package editor

import (
	"context"
	"sync"
)

// maxSettleTicks bounds Settle so a task that keeps requeueing itself
// cannot spin forever.
const maxSettleTicks = 1000

// Loop is a task queue standing in for the host's event loop. Deferred tasks
// run on a later tick, never inside the call that queued them.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Defer queues task for the next tick. Safe for concurrent use.
func (l *Loop) Defer(task func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending reports the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Tick runs the tasks queued before the call and returns how many ran.
// Tasks queued while ticking wait for the next tick.
func (l *Loop) Tick() int {
	l.mu.Lock()
	batch := l.tasks
	l.tasks = nil
	l.mu.Unlock()
	for _, task := range batch {
		task()
	}
	return len(batch)
}

// Settle ticks until the queue is empty and returns the number of ticks.
func (l *Loop) Settle() int {
	ticks := 0
	for ticks < maxSettleTicks && l.Tick() > 0 {
		ticks++
	}
	return ticks
}

// Run ticks whenever tasks are queued until ctx is done. Everything touching
// an editor driven by this loop must then be queued through Defer.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			for l.Tick() > 0 {
			}
		}
	}
}

package editor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopTickRunsOnlyQueuedBatch(t *testing.T) {
	l := NewLoop()
	var order []string
	l.Defer(func() {
		order = append(order, "first")
		l.Defer(func() { order = append(order, "nested") })
	})
	l.Defer(func() { order = append(order, "second") })

	if n := l.Tick(); n != 2 {
		t.Errorf("Tick() ran %d tasks, want 2", n)
	}
	if len(order) != 2 || l.Pending() != 1 {
		t.Fatalf("nested task should wait for the next tick, order=%v pending=%d", order, l.Pending())
	}
	if ticks := l.Settle(); ticks != 1 {
		t.Errorf("Settle() = %d ticks, want 1", ticks)
	}
	if order[2] != "nested" {
		t.Errorf("order = %v", order)
	}
}

func TestLoopSettleIsBounded(t *testing.T) {
	l := NewLoop()
	var requeue func()
	requeue = func() { l.Defer(requeue) }
	l.Defer(requeue)
	if ticks := l.Settle(); ticks != maxSettleTicks {
		t.Errorf("Settle() = %d, want %d", ticks, maxSettleTicks)
	}
}

func TestLoopRun(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- l.Run(ctx) }()

	done := make(chan struct{})
	l.Defer(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not execute the deferred task")
	}

	cancel()
	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

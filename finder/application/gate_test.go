package application

import (
	"context"
	"testing"
	"time"
)

func TestGate_Acquire_AllowsWhenNoPool(t *testing.T) {
	g := Gate{}
	release, ok := g.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected ok")
	}
	release()
}

func TestGate_Acquire_UsesTimeout(t *testing.T) {
	g := Gate{Pool: &blockingPool{}, AcquireTimeout: 10 * time.Millisecond}

	_, ok := g.Acquire(context.Background())
	if ok {
		t.Fatalf("expected timeout and ok=false")
	}
}

func TestGate_Acquire_NoTimeoutDelegatesToPool(t *testing.T) {
	pool := &immediatePool{}
	g := Gate{Pool: pool, AcquireTimeout: 0}

	_, ok := g.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected ok")
	}
	if pool.acquired.Load() != 1 {
		t.Fatalf("expected pool Acquire to be called once, got %d", pool.acquired.Load())
	}
}

func TestGate_Acquire_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := Gate{Pool: make(semPool)}.Acquire(ctx)
	if ok {
		t.Fatalf("expected ok=false for cancelled context")
	}
}

func TestGate_Acquire_ObservesWaits(t *testing.T) {
	var (
		calls    int
		lastOK   bool
		lastWait time.Duration
	)
	observe := func(wait time.Duration, acquired bool) {
		calls++
		lastOK = acquired
		lastWait = wait
	}

	g := Gate{Pool: &immediatePool{}, Observe: observe}
	if _, ok := g.Acquire(context.Background()); !ok {
		t.Fatalf("expected ok")
	}
	if calls != 1 || !lastOK {
		t.Fatalf("expected one acquired observation, got calls=%d ok=%v", calls, lastOK)
	}

	g = Gate{Pool: &blockingPool{}, AcquireTimeout: 10 * time.Millisecond, Observe: observe}
	if _, ok := g.Acquire(context.Background()); ok {
		t.Fatalf("expected ok=false")
	}
	if calls != 2 || lastOK {
		t.Fatalf("expected an unavailable observation, got calls=%d ok=%v", calls, lastOK)
	}
	if lastWait < 10*time.Millisecond {
		t.Fatalf("expected wait >= acquire timeout, got %v", lastWait)
	}
}

func TestGate_Acquire_NoObservationWithoutPool(t *testing.T) {
	called := false
	g := Gate{Observe: func(time.Duration, bool) { called = true }}

	if _, ok := g.Acquire(context.Background()); !ok {
		t.Fatalf("expected ok")
	}
	if called {
		t.Fatalf("expected no observation for an unlimited gate")
	}
}

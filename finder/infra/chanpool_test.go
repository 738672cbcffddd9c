package infra

import (
	"context"
	"testing"
	"time"
)

func TestNewChanPool_NonPositiveIsUnlimited(t *testing.T) {
	if NewChanPool(0) != nil {
		t.Fatalf("expected nil pool for max=0")
	}
	if NewChanPool(-1) != nil {
		t.Fatalf("expected nil pool for max<0")
	}
}

func TestChanPool_AcquireRelease(t *testing.T) {
	p := NewChanPool(1)

	release, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := p.Acquire(ctx); ok {
		t.Fatalf("expected second acquire to time out while slot is held")
	}

	release()

	release2, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire after release to succeed")
	}
	release2()
}

func TestChanPool_InUseAndCap(t *testing.T) {
	p := NewChanPool(3).(*ChanPool)
	if p.Cap() != 3 || p.InUse() != 0 {
		t.Fatalf("expected cap=3 inUse=0, got cap=%d inUse=%d", p.Cap(), p.InUse())
	}

	r1, _ := p.Acquire(context.Background())
	r2, _ := p.Acquire(context.Background())
	if p.InUse() != 2 {
		t.Fatalf("expected 2 slots in use, got %d", p.InUse())
	}
	r1()
	r2()
	if p.InUse() != 0 {
		t.Fatalf("expected 0 slots in use after release, got %d", p.InUse())
	}
}

func TestChanPool_FreeSlotIgnoresCancelledContext(t *testing.T) {
	p := NewChanPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release, ok := p.Acquire(ctx)
	if !ok {
		t.Fatalf("expected a free slot to be taken even with a cancelled ctx")
	}
	release()
}

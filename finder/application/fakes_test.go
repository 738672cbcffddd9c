package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"domain-finder/finder/domain"
)

// fakeProber responde a partir de um mapa "name.label" -> outcome.
// Pares ausentes são Unregistered.
type fakeProber struct {
	mu       sync.Mutex
	outcomes map[string]domain.ProbeOutcome
	calls    []domain.DomainQuery
	delay    time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeProber(outcomes map[string]domain.ProbeOutcome) *fakeProber {
	if outcomes == nil {
		outcomes = map[string]domain.ProbeOutcome{}
	}
	return &fakeProber{outcomes: outcomes}
}

func (p *fakeProber) Probe(ctx context.Context, q domain.DomainQuery) domain.ProbeOutcome {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		cur := p.maxInFlight.Load()
		if n <= cur || p.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	p.mu.Lock()
	p.calls = append(p.calls, q)
	out, ok := p.outcomes[q.String()]
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return domain.Failed(ctx.Err().Error())
		}
	}

	if !ok {
		return domain.Unregistered()
	}
	return out
}

func (p *fakeProber) Calls() []domain.DomainQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DomainQuery(nil), p.calls...)
}

type panicProber struct{}

func (panicProber) Probe(context.Context, domain.DomainQuery) domain.ProbeOutcome {
	panic("boom")
}

type fakeSuggester struct {
	words []string
	calls atomic.Int32
}

func (s *fakeSuggester) Suggest(context.Context, string) []string {
	s.calls.Add(1)
	return s.words
}

type blockingPool struct{}

func (p *blockingPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-time.After(5 * time.Second):
		// não deve chegar aqui nos testes
		return nil, false
	}
}

type immediatePool struct {
	acquired atomic.Int32
}

func (p *immediatePool) Acquire(ctx context.Context) (func(), bool) {
	p.acquired.Add(1)
	return func() {}, true
}

// semPool é um semáforo de canal, como infra.NewChanPool.
type semPool chan struct{}

func (p semPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p <- struct{}{}:
		return func() { <-p }, true
	case <-ctx.Done():
		return nil, false
	}
}

type failingHistory struct{}

func (failingHistory) Append(context.Context, domain.HistoryEntry) error {
	return context.DeadlineExceeded
}

func (failingHistory) List(context.Context, string, int) ([]domain.HistoryEntry, error) {
	return nil, context.DeadlineExceeded
}

type recordingHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

func (h *recordingHistory) Append(_ context.Context, e domain.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

func (h *recordingHistory) List(_ context.Context, user string, _ int) ([]domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []domain.HistoryEntry
	for _, e := range h.entries {
		if e.User == user {
			out = append(out, e)
		}
	}
	return out, nil
}

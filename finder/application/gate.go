package application

import (
	"context"
	"time"

	"domain-finder/finder/domain"
)

// SlotObserver recebe quanto tempo um probe esperou por vaga e se conseguiu.
type SlotObserver func(wait time.Duration, acquired bool)

// Gate controla a entrada dos probes no SlotPool.
//
// Pool nil é ilimitado. AcquireTimeout <= 0 espera até o ctx encerrar.
// Observe, se definido, é chamado em toda tentativa contra um Pool real.
type Gate struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
	Observe        SlotObserver
}

// Acquire devolve (release, ok). Com ok=false nenhuma vaga foi ocupada.
func (g Gate) Acquire(ctx context.Context) (func(), bool) {
	if g.Pool == nil {
		return func() {}, true
	}

	start := time.Now()
	release, ok := g.acquire(ctx)
	if g.Observe != nil {
		g.Observe(time.Since(start), ok)
	}
	return release, ok
}

func (g Gate) acquire(ctx context.Context) (func(), bool) {
	if g.AcquireTimeout <= 0 {
		return g.Pool.Acquire(ctx)
	}
	acqCtx, cancel := context.WithTimeout(ctx, g.AcquireTimeout)
	defer cancel()
	return g.Pool.Acquire(acqCtx)
}

package infra

import (
	"context"

	"domain-finder/finder/domain"
)

// ChanPool é um semáforo de canal: cada vaga é um elemento no buffer.
type ChanPool struct {
	sem chan struct{}
}

// NewChanPool devolve nil com max <= 0; o Gate trata nil como ilimitado.
// O retorno é a interface para que o nil não vire um ponteiro tipado.
func NewChanPool(max int) domain.SlotPool {
	if max <= 0 {
		return nil
	}
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	// vaga livre não depende do estado do ctx
	select {
	case p.sem <- struct{}{}:
		return p.release, true
	default:
	}

	select {
	case p.sem <- struct{}{}:
		return p.release, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *ChanPool) release() { <-p.sem }

// InUse é o número de vagas ocupadas agora.
func (p *ChanPool) InUse() int { return len(p.sem) }

func (p *ChanPool) Cap() int { return cap(p.sem) }

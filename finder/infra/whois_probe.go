package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"domain-finder/finder/domain"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

const DefaultProbeTimeout = 10 * time.Second

// WhoisClient é o mínimo usado de *whois.Client; permite fakes nos testes.
type WhoisClient interface {
	Whois(domain string, servers ...string) (string, error)
}

// ParseFunc interpreta a resposta bruta do whois.
type ParseFunc func(text string) (whoisparser.WhoisInfo, error)

// WhoisProbe implementa domain.Prober sobre o protocolo whois.
//
// Resposta "not found" do registro vira Unregistered; erro de transporte,
// de parse ou deadline vira Failed.
type WhoisProbe struct {
	client  WhoisClient
	parse   ParseFunc
	timeout time.Duration
}

type WhoisOption func(*WhoisProbe)

func WithWhoisClient(c WhoisClient) WhoisOption {
	return func(p *WhoisProbe) { p.client = c }
}

func WithWhoisParser(fn ParseFunc) WhoisOption {
	return func(p *WhoisProbe) { p.parse = fn }
}

func WithProbeTimeout(d time.Duration) WhoisOption {
	return func(p *WhoisProbe) { p.timeout = d }
}

func NewWhoisProbe(opts ...WhoisOption) *WhoisProbe {
	p := &WhoisProbe{
		parse:   whoisparser.Parse,
		timeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = whois.NewClient().SetTimeout(p.timeout)
	}
	return p
}

func (p *WhoisProbe) Probe(ctx context.Context, q domain.DomainQuery) domain.ProbeOutcome {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	type result struct {
		raw string
		err error
	}
	// buffer 1: a goroutine não vaza se o ctx expirar antes da resposta
	ch := make(chan result, 1)
	go func() {
		// panic aqui não chega ao recover do Coordinator (outra goroutine)
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("whois client panic: %v", r)}
			}
		}()
		raw, err := p.client.Whois(q.String())
		ch <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.Failed("whois " + q.String() + ": " + ctx.Err().Error())
	case res := <-ch:
		if res.err != nil {
			return domain.Failed("whois " + q.String() + ": " + res.err.Error())
		}
		return p.classify(res.raw)
	}
}

func (p *WhoisProbe) classify(raw string) domain.ProbeOutcome {
	_, err := p.parse(raw)
	switch {
	case err == nil:
		return domain.Registered()
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		return domain.Unregistered()
	case errors.Is(err, whoisparser.ErrReservedDomain),
		errors.Is(err, whoisparser.ErrPremiumDomain),
		errors.Is(err, whoisparser.ErrBlockedDomain):
		// existe registro que impede o cadastro
		return domain.Registered()
	default:
		return domain.Failed("whois parse: " + err.Error())
	}
}

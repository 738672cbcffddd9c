package infra

import (
	"context"
	"time"

	"domain-finder/finder/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedProbe decora um Prober com métricas e um span por probe.
type InstrumentedProbe struct {
	Next    domain.Prober
	Metrics *Metrics
	Tracer  trace.Tracer
}

func (p InstrumentedProbe) Probe(ctx context.Context, q domain.DomainQuery) domain.ProbeOutcome {
	tracer := p.Tracer
	if tracer == nil {
		tracer = otel.Tracer("domain-finder/finder/infra")
	}

	ctx, span := tracer.Start(ctx, "finder.probe", trace.WithAttributes(
		attribute.String("domain.name", q.Name),
		attribute.String("domain.label", q.Label),
	))
	defer span.End()

	start := time.Now()
	out := p.Next.Probe(ctx, q)
	p.Metrics.ObserveProbe(q, out, time.Since(start))

	span.SetAttributes(attribute.String("probe.outcome", out.Outcome().String()))
	if out.IsFailed() {
		span.SetStatus(codes.Error, out.Reason())
	}
	return out
}

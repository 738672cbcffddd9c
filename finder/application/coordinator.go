package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"domain-finder/finder/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "domain-finder/finder"

// ReasonNoSlot é o motivo de falha quando não foi possível adquirir vaga no Gate.
const ReasonNoSlot = "probe slot unavailable"

// Coordinator dispara um probe por par (nome, label) e espera todos terminarem.
//
// Não há cancelamento entre irmãos: a falha de um probe vira Failed no
// resultado e os demais seguem normalmente.
type Coordinator struct {
	Prober domain.Prober
	Gate   Gate
	Logger *slog.Logger
	Tracer trace.Tracer
}

// BuildTasks monta o produto cartesiano completo names × labels.
func BuildTasks(names domain.CandidateSet, labels domain.LabelList) []domain.DomainQuery {
	ls := labels.Labels()
	ns := names.Names()

	tasks := make([]domain.DomainQuery, 0, len(ns)*len(ls))
	for _, n := range ns {
		for _, l := range ls {
			tasks = append(tasks, domain.DomainQuery{Name: n, Label: l})
		}
	}
	return tasks
}

// FanOut devolve exatamente |names| × |labels| resultados, em ordem de término.
func (c Coordinator) FanOut(ctx context.Context, names domain.CandidateSet, labels domain.LabelList) []domain.ProbeResult {
	tasks := BuildTasks(names, labels)
	if len(tasks) == 0 {
		return nil
	}

	ctx, span := c.tracer().Start(ctx, "finder.fanout", trace.WithAttributes(
		attribute.Int("finder.names", names.Len()),
		attribute.Int("finder.labels", labels.Len()),
		attribute.Int("finder.tasks", len(tasks)),
	))
	defer span.End()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]domain.ProbeResult, 0, len(tasks))
	)

	wg.Add(len(tasks))
	for _, q := range tasks {
		go func() {
			defer wg.Done()
			out := c.ProbeOne(ctx, q)

			mu.Lock()
			results = append(results, domain.ProbeResult{Query: q, Outcome: out})
			mu.Unlock()
		}()
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Outcome.IsFailed() {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("finder.failed", failed))
	c.logger().Debug("fanout.done", "tasks", len(tasks), "failed", failed)

	return results
}

// ProbeOne executa um único probe passando pelo Gate. Panics do prober
// viram Failed.
func (c Coordinator) ProbeOne(ctx context.Context, q domain.DomainQuery) (out domain.ProbeOutcome) {
	if c.Prober == nil {
		return domain.Failed("no prober configured")
	}

	release, ok := c.Gate.Acquire(ctx)
	if !ok {
		return domain.Failed(ReasonNoSlot)
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("probe.panic", "domain", q.String(), "panic", fmt.Sprint(r))
			out = domain.Failed(fmt.Sprintf("probe panic: %v", r))
		}
	}()

	return c.Prober.Probe(ctx, q)
}

func (c Coordinator) tracer() trace.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}
	return otel.Tracer(tracerName)
}

func (c Coordinator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

package infra

import (
	"strconv"
	"time"

	"domain-finder/finder/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa os coletores prometheus do serviço.
// Todos os métodos aceitam receiver nil (métricas desligadas).
type Metrics struct {
	probes        *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	suggestions   *prometheus.CounterVec
	requests      *prometheus.CounterVec
	slotWait      *prometheus.HistogramVec

	reg prometheus.Registerer
}

// NewMetrics registra os coletores em reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "domain_finder",
			Name:      "probes_total",
			Help:      "Registration probes by label and outcome.",
		}, []string{"label", "outcome"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "domain_finder",
			Name:      "probe_duration_seconds",
			Help:      "Registration probe latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "domain_finder",
			Name:      "suggestion_requests_total",
			Help:      "Suggestion strategy calls by result.",
		}, []string{"strategy", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "domain_finder",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route and status code.",
		}, []string{"route", "code"}),
		slotWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "domain_finder",
			Name:      "probe_slot_wait_seconds",
			Help:      "Time a probe waited for a concurrency slot, by result.",
			Buckets:   []float64{.001, .01, .05, .1, .5, 1, 5, 10},
		}, []string{"result"}),
		reg: reg,
	}
	reg.MustRegister(m.probes, m.probeDuration, m.suggestions, m.requests, m.slotWait)
	return m
}

func (m *Metrics) ObserveProbe(q domain.DomainQuery, out domain.ProbeOutcome, d time.Duration) {
	if m == nil {
		return
	}
	outcome := out.Outcome().String()
	m.probes.WithLabelValues(q.Label, outcome).Inc()
	m.probeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) ObserveSuggestion(strategy, result string) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(strategy, result).Inc()
}

func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveSlotWait tem a assinatura de application.SlotObserver.
func (m *Metrics) ObserveSlotWait(wait time.Duration, acquired bool) {
	if m == nil {
		return
	}
	result := "acquired"
	if !acquired {
		result = "unavailable"
	}
	m.slotWait.WithLabelValues(result).Observe(wait.Seconds())
}

// TrackSlots publica a ocupação do pool quando ele sabe informá-la (ChanPool).
func (m *Metrics) TrackSlots(pool domain.SlotPool) {
	if m == nil {
		return
	}
	p, ok := pool.(interface {
		InUse() int
		Cap() int
	})
	if !ok {
		return
	}
	m.reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "domain_finder",
			Name:      "probe_slots_in_use",
			Help:      "Probe concurrency slots currently held.",
		}, func() float64 { return float64(p.InUse()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "domain_finder",
			Name:      "probe_slots_capacity",
			Help:      "Configured probe concurrency slots.",
		}, func() float64 { return float64(p.Cap()) }),
	)
}

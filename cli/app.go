package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"domain-finder/config"
	"domain-finder/finder"
	"domain-finder/finder/application"
	"domain-finder/finder/domain"
	"domain-finder/finder/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// app agrupa os componentes montados a partir da Config.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	service  application.Service
	metrics  *infra.Metrics
	registry *prometheus.Registry
	tracing  *infra.Tracing
	rdb      *redis.Client
	closers  []func() error
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, deps Deps) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	tracing, err := infra.NewTracing(ctx, infra.TracingConfig{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  "domain-finder",
	})
	if err != nil {
		return nil, err
	}
	a.tracing = tracing
	a.closers = append(a.closers, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return tracing.Shutdown(shutdownCtx)
	})

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.metrics = infra.NewMetrics(a.registry)
	}

	if cfg.NeedsRedis() {
		if err := a.connectRedis(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	history, err := a.historyStore()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	prober := deps.Prober
	if prober == nil {
		prober = infra.NewWhoisProbe(infra.WithProbeTimeout(cfg.Probe.Timeout))
	}
	prober = infra.InstrumentedProbe{Next: prober, Metrics: a.metrics, Tracer: tracing.Tracer()}

	suggester := deps.Suggester
	if suggester == nil && cfg.Suggest.Enabled {
		suggester = infra.NewDatamuseSource(
			infra.WithDatamuseHTTPClient(&http.Client{Timeout: cfg.Suggest.Timeout}),
			infra.WithDatamuseBaseURL(cfg.Suggest.BaseURL),
			infra.WithStrategies(cfg.Suggest.Strategies...),
			infra.WithMaxPerStrategy(cfg.Suggest.MaxPerStrategy),
			infra.WithDatamuseLogger(logger),
			infra.WithDatamuseMetrics(a.metrics),
		)
	}

	probePool := infra.NewChanPool(cfg.Probe.MaxConcurrency)
	a.metrics.TrackSlots(probePool)

	a.service = application.Service{
		Coordinator: application.Coordinator{
			Prober: prober,
			Gate: application.Gate{
				Pool:           probePool,
				AcquireTimeout: cfg.Probe.AcquireTimeout,
				Observe:        a.metrics.ObserveSlotWait,
			},
			Logger: logger,
			Tracer: tracing.Tracer(),
		},
		Suggester:           suggester,
		History:             history,
		Labels:              domain.NewLabelList(cfg.Lookup.Labels...),
		DefaultLabel:        cfg.Lookup.DefaultLabel,
		KnownLabels:         cfg.Lookup.KnownLabels,
		IncludeSeed:         cfg.Lookup.IncludeSeed,
		ExcludeQueryLabel:   cfg.Lookup.ExcludeQueryLabel,
		ValidateSuggestions: cfg.Lookup.ValidateSuggestions,
		OnlyUnregistered:    cfg.Lookup.OnlyUnregistered,
		Logger:              logger,
	}
	return a, nil
}

func (a *app) connectRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	_, err := rdb.Ping(pingCtx).Result()
	cancel()
	if err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping error: %w", err)
	}

	a.rdb = rdb
	a.closers = append(a.closers, rdb.Close)
	return nil
}

func (a *app) historyStore() (domain.HistoryStore, error) {
	switch a.cfg.History.Backend {
	case "none":
		return nil, nil
	case "memory":
		return infra.NewMemoryHistoryStore(a.cfg.History.MaxEntries), nil
	case "redis":
		return infra.NewRedisHistoryStore(a.rdb,
			infra.WithHistoryPrefix(a.cfg.History.Prefix),
			infra.WithHistoryTTL(a.cfg.History.TTL),
			infra.WithHistoryMax(a.cfg.History.MaxEntries),
		), nil
	case "sqlite":
		db, err := infra.OpenSQLite(a.cfg.History.SQLitePath)
		if err != nil {
			return nil, err
		}
		store := infra.NewSQLiteHistoryStore(db)
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported history backend %q", a.cfg.History.Backend)
	}
}

// handler devolve a API HTTP sem os middlewares de borda.
func (a *app) handler() http.Handler {
	var metricsHandler http.Handler
	if a.registry != nil {
		metricsHandler = promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
	}

	return finder.NewHandler(finder.HandlerOptions{
		Lookup:         a.service,
		UserHeader:     a.cfg.Auth.UserHeader,
		HistoryLimit:   a.cfg.History.DefaultLimit,
		Metrics:        a.metrics,
		MetricsHandler: metricsHandler,
		Logger:         a.logger,
	})
}

// Close fecha os recursos na ordem inversa de abertura.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

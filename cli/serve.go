package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"domain-finder/middleware/ratelimit"

	"github.com/spf13/cobra"
)

func newServeCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(ctx, st.cfg, st.logger, st.deps)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					st.logger.Warn("shutdown.close", "error", err)
				}
			}()

			srv := &http.Server{
				Addr:              st.cfg.ListenAddr,
				Handler:           a.edge(a.handler()),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				// o fan-out de similarDomains pode levar vários timeouts de probe
				WriteTimeout: 2*st.cfg.Probe.Timeout + 30*time.Second,
				IdleTimeout:  90 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			cfg := st.cfg
			st.logger.Info("server.listening", "addr", cfg.ListenAddr, "labels", cfg.Lookup.Labels)
			st.logger.Info("server.rate",
				"enabled", cfg.RateLimit.Enabled,
				"rps", cfg.RateLimit.RPS,
				"burst", cfg.RateLimit.Burst,
				"key_header", cfg.RateLimit.KeyHeader,
				"trust_xff", cfg.RateLimit.TrustXFF,
			)
			st.logger.Info("server.concurrency",
				"http_max", cfg.Concurrency.Max,
				"http_acquire_timeout", cfg.Concurrency.Timeout,
				"probe_max", cfg.Probe.MaxConcurrency,
				"probe_timeout", cfg.Probe.Timeout,
			)
			st.logger.Info("server.history", "backend", cfg.History.Backend, "stats", cfg.Stats.Enabled)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("listen", ":8080", "listen address")
	_ = st.v.BindPFlag("listen_addr", cmd.Flags().Lookup("listen"))
	return cmd
}

// edge aplica os middlewares de borda: concorrência e rate limit por cliente.
func (a *app) edge(h http.Handler) http.Handler {
	cfg := a.cfg

	h = ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            cfg.Concurrency.Max,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.Concurrency.Timeout,
	})(h)

	if !cfg.RateLimit.Enabled {
		return h
	}

	var (
		stats    ratelimit.StatsStore
		memStats *ratelimit.MemoryStatsStore
	)
	switch {
	case !cfg.Stats.Enabled:
	case a.rdb != nil:
		stats = ratelimit.NewRedisStatsStore(a.rdb,
			ratelimit.WithStatsPrefix(cfg.Stats.Prefix),
			ratelimit.WithStatsTTL(cfg.Stats.TTL),
		)
	default:
		memStats = ratelimit.NewMemoryStatsStore()
		stats = memStats
	}

	store := ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst,
		ratelimit.WithIdleTTL(cfg.RateLimit.IdleTTL),
	)
	limited := ratelimit.Middleware(ratelimit.Options{
		Store:               store,
		Stats:               stats,
		KeyHeader:           cfg.RateLimit.KeyHeader,
		TrustXForwardedFor:  cfg.RateLimit.TrustXFF,
		RejectStatus:        http.StatusTooManyRequests,
		RetryAfter:          cfg.RateLimit.RetryAfter,
		AddRateLimitHeaders: cfg.RateLimit.AddHeaders,
		Logger:              a.logger,
	})(h)

	if memStats == nil {
		return limited
	}
	// sem redis os contadores só existem neste processo; a rota fica fora do limite
	mux := http.NewServeMux()
	mux.Handle("GET /debug/ratelimit", ratelimit.StatsHandler(memStats))
	mux.Handle("/", limited)
	return mux
}

package finder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"domain-finder/finder/application"
	"domain-finder/finder/domain"
	"domain-finder/finder/infra"
)

const DefaultUserHeader = "X-User"

// Lookup é o que o handler precisa do application.Service.
type Lookup interface {
	LookupSingle(ctx context.Context, raw string) (domain.DomainResult, error)
	LookupSimilar(ctx context.Context, raw string, opts application.SimilarOptions) (domain.SimilarResult, error)
	ListHistory(ctx context.Context, user string, limit int) ([]domain.HistoryEntry, error)
}

type HandlerOptions struct {
	Lookup     Lookup
	UserHeader string
	// HistoryLimit é o padrão de /history quando ?limit não vem na query.
	HistoryLimit int
	Metrics      *infra.Metrics
	// MetricsHandler nil desliga /metrics.
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

type errorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

type historyBody struct {
	User    string                `json:"user"`
	History []domain.HistoryEntry `json:"history"`
}

type api struct {
	opts HandlerOptions
}

// NewHandler monta o mux com as rotas da API e os middlewares de request id,
// access log e identificação do usuário.
func NewHandler(opts HandlerOptions) http.Handler {
	if opts.UserHeader == "" {
		opts.UserHeader = DefaultUserHeader
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	a := &api{opts: opts}

	mux := http.NewServeMux()
	mux.Handle("GET /api/v1/registrationStatus", a.route("registrationStatus", a.registrationStatus))
	mux.Handle("GET /api/v1/similarDomains", a.route("similarDomains", a.similarDomains))
	mux.Handle("GET /api/v1/history", a.route("history", a.history))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	h := http.Handler(mux)
	h = withUser(opts.UserHeader)(h)
	h = accessLog(opts.Logger)(h)
	h = requestID(h)
	return h
}

func (a *api) route(name string, fn func(w http.ResponseWriter, r *http.Request) int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := fn(w, r)
		a.opts.Metrics.ObserveRequest(name, code)
	})
}

func (a *api) registrationStatus(w http.ResponseWriter, r *http.Request) int {
	res, err := a.opts.Lookup.LookupSingle(r.Context(), r.URL.Query().Get("domain"))
	if err != nil {
		return a.writeError(w, r, err)
	}
	return writeJSON(w, http.StatusOK, res)
}

func (a *api) similarDomains(w http.ResponseWriter, r *http.Request) int {
	var opts application.SimilarOptions
	if v := strings.TrimSpace(r.URL.Query().Get("onlyUnregistered")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return writeJSON(w, http.StatusBadRequest, errorBody{Message: "onlyUnregistered must be a boolean"})
		}
		opts.OnlyUnregistered = &b
	}

	res, err := a.opts.Lookup.LookupSimilar(r.Context(), r.URL.Query().Get("domain"), opts)
	if err != nil {
		return a.writeError(w, r, err)
	}
	if res.Similar == nil {
		res.Similar = []domain.DomainResult{}
	}
	return writeJSON(w, http.StatusOK, res)
}

func (a *api) history(w http.ResponseWriter, r *http.Request) int {
	user, ok := application.UserFrom(r.Context())
	if !ok {
		return writeJSON(w, http.StatusUnauthorized, errorBody{Message: "missing " + a.opts.UserHeader + " header"})
	}

	limit := a.opts.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return writeJSON(w, http.StatusBadRequest, errorBody{Message: "limit must be a positive integer"})
		}
		limit = n
	}

	entries, err := a.opts.Lookup.ListHistory(r.Context(), user, limit)
	if err != nil {
		return a.writeError(w, r, err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return writeJSON(w, http.StatusOK, historyBody{User: user, History: entries})
}

// writeError traduz os erros da camada application para status HTTP.
func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) int {
	if ve, ok := domain.AsValidation(err); ok {
		return writeJSON(w, http.StatusUnprocessableEntity, errorBody{Message: ve.Reason, Kind: string(ve.Kind)})
	}
	if errors.Is(err, application.ErrProbeFailed) {
		return writeJSON(w, http.StatusBadGateway, errorBody{Message: err.Error()})
	}

	a.opts.Logger.Error("request.failed", "path", r.URL.Path, "error", err)
	return writeJSON(w, http.StatusInternalServerError, errorBody{Message: http.StatusText(http.StatusInternalServerError)})
}

func writeJSON(w http.ResponseWriter, code int, v any) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
	return code
}

package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const DefaultDatamuseURL = "https://api.datamuse.com"

// Estratégias de relação de palavras da API datamuse.
const (
	StrategySoundsLike  = "sl"
	StrategySpelledLike = "sp"
	StrategyMeansLike   = "ml"
	StrategyTriggers    = "rel_trg"
)

func DefaultStrategies() []string {
	return []string{StrategySoundsLike, StrategySpelledLike, StrategyMeansLike, StrategyTriggers}
}

// DatamuseSource implementa domain.Suggester.
//
// Cada estratégia faz uma requisição; status != 200, corpo inválido ou lista
// vazia apenas faz a estratégia não contribuir. Suggest nunca falha.
type DatamuseSource struct {
	client         *http.Client
	baseURL        string
	strategies     []string
	maxPerStrategy int
	logger         *slog.Logger
	metrics        *Metrics
}

type DatamuseOption func(*DatamuseSource)

func WithDatamuseHTTPClient(c *http.Client) DatamuseOption {
	return func(s *DatamuseSource) { s.client = c }
}

func WithDatamuseBaseURL(u string) DatamuseOption {
	return func(s *DatamuseSource) { s.baseURL = strings.TrimRight(u, "/") }
}

func WithStrategies(strategies ...string) DatamuseOption {
	return func(s *DatamuseSource) {
		if len(strategies) > 0 {
			s.strategies = append([]string(nil), strategies...)
		}
	}
}

func WithMaxPerStrategy(n int) DatamuseOption {
	return func(s *DatamuseSource) { s.maxPerStrategy = n }
}

func WithDatamuseLogger(l *slog.Logger) DatamuseOption {
	return func(s *DatamuseSource) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithDatamuseMetrics(m *Metrics) DatamuseOption {
	return func(s *DatamuseSource) { s.metrics = m }
}

func NewDatamuseSource(opts ...DatamuseOption) *DatamuseSource {
	s := &DatamuseSource{
		client:         &http.Client{Timeout: 5 * time.Second},
		baseURL:        DefaultDatamuseURL,
		strategies:     DefaultStrategies(),
		maxPerStrategy: 3,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type datamuseWord struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// Suggest consulta todas as estratégias em paralelo e devolve a união sem
// repetições, na ordem das estratégias configuradas.
func (s *DatamuseSource) Suggest(ctx context.Context, name string) []string {
	if strings.TrimSpace(name) == "" || len(s.strategies) == 0 {
		return nil
	}

	perStrategy := make([][]string, len(s.strategies))
	var wg sync.WaitGroup
	for i, strategy := range s.strategies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			perStrategy[i] = s.fetch(ctx, strategy, name)
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{})
	var out []string
	for _, words := range perStrategy {
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

func (s *DatamuseSource) fetch(ctx context.Context, strategy, name string) []string {
	u := s.baseURL + "/words?" + url.Values{strategy: {name}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		s.skip(strategy, "request", err)
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.skip(strategy, "transport", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.skip(strategy, "status", nil, "status", resp.StatusCode)
		return nil
	}

	var words []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		s.skip(strategy, "decode", err)
		return nil
	}
	if len(words) == 0 {
		s.metrics.ObserveSuggestion(strategy, "empty")
		return nil
	}

	out := make([]string, 0, s.maxPerStrategy)
	for _, w := range words {
		if s.maxPerStrategy > 0 && len(out) >= s.maxPerStrategy {
			break
		}
		if w.Word == "" || strings.EqualFold(w.Word, name) {
			continue
		}
		out = append(out, w.Word)
	}
	s.metrics.ObserveSuggestion(strategy, "ok")
	return out
}

func (s *DatamuseSource) skip(strategy, stage string, err error, attrs ...any) {
	s.metrics.ObserveSuggestion(strategy, "error")
	args := append([]any{"strategy", strategy, "stage", stage}, attrs...)
	if err != nil {
		args = append(args, "error", err)
	}
	s.logger.Debug("suggest.strategy.skipped", args...)
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"domain-finder/finder/domain"
)

const (
	OpRegistrationStatus = "registrationStatus"
	OpSimilarDomains     = "similarDomains"
)

// Service expõe as duas operações de busca.
//
// Labels é configuração imutável: ExcludeQueryLabel gera uma nova lista por
// chamada, sem tocar na compartilhada.
type Service struct {
	Coordinator Coordinator
	Suggester   domain.Suggester
	History     domain.HistoryStore

	Labels       domain.LabelList
	DefaultLabel string
	// KnownLabels vazio desliga a checagem de UnsupportedLabel.
	KnownLabels []string

	IncludeSeed         bool
	ExcludeQueryLabel   bool
	ValidateSuggestions bool
	OnlyUnregistered    bool

	Logger *slog.Logger
	Now    func() time.Time
}

type SimilarOptions struct {
	// OnlyUnregistered, se não nil, sobrescreve Service.OnlyUnregistered.
	OnlyUnregistered *bool
}

// Parse aplica Split + validação. Nenhum probe é disparado aqui.
func (s Service) Parse(raw string) (domain.DomainQuery, error) {
	q := domain.Split(raw, s.DefaultLabel)
	if err := domain.ValidateQuery(raw, q, s.KnownLabels); err != nil {
		return domain.DomainQuery{}, err
	}
	q.Name = strings.ToLower(q.Name)
	q.Label = strings.ToLower(q.Label)
	return q, nil
}

func (s Service) LookupSingle(ctx context.Context, raw string) (domain.DomainResult, error) {
	q, err := s.Parse(raw)
	if err != nil {
		return domain.DomainResult{}, err
	}

	out := s.Coordinator.ProbeOne(ctx, q)
	if out.IsFailed() {
		s.logger().Warn("lookup.single.failed", "domain", q.String(), "reason", out.Reason())
		return domain.DomainResult{}, fmt.Errorf("%w: %s: %s", ErrProbeFailed, q, out.Reason())
	}

	s.record(ctx, raw, OpRegistrationStatus)
	return domain.DomainResult{Name: q.Name, Label: q.Label, Registered: out.Registered()}, nil
}

func (s Service) LookupSimilar(ctx context.Context, raw string, opts SimilarOptions) (domain.SimilarResult, error) {
	q, err := s.Parse(raw)
	if err != nil {
		return domain.SimilarResult{}, err
	}

	// o probe do domínio original roda junto com as sugestões
	var primary domain.ProbeOutcome
	done := make(chan struct{})
	go func() {
		defer close(done)
		primary = s.Coordinator.ProbeOne(ctx, q)
	}()

	var suggestions []string
	if s.Suggester != nil {
		suggestions = s.Suggester.Suggest(ctx, q.Name)
	}
	<-done

	names := BuildCandidates(q.Name, suggestions, CandidateOptions{
		IncludeSeed:         s.IncludeSeed,
		ValidateSuggestions: s.ValidateSuggestions,
	})

	labels := s.Labels
	if s.ExcludeQueryLabel {
		labels = labels.Without(q.Label)
	}

	only := s.OnlyUnregistered
	if opts.OnlyUnregistered != nil {
		only = *opts.OnlyUnregistered
	}

	results := s.Coordinator.FanOut(ctx, names, labels)
	red := Reduce(results, ReduceOptions{OnlyUnregistered: only})
	if len(red.Dropped) > 0 {
		s.logger().Debug("lookup.similar.dropped",
			"domain", q.String(),
			"dropped", len(red.Dropped),
			"first_reason", red.Dropped[0].Outcome.Reason(),
		)
	}

	s.logger().Info("lookup.similar",
		"domain", q.String(),
		"candidates", names.Len(),
		"labels", labels.Len(),
		"probes", len(results),
		"results", len(red.Results),
	)

	res := domain.SimilarResult{Similar: red.Results}
	if primary.IsFailed() {
		// falha do primário não aborta a operação, só fica registrada
		s.logger().Warn("lookup.similar.primary_failed", "domain", q.String(), "reason", primary.Reason())
		res.PrimaryError = primary.Reason()
	} else {
		res.Primary = &domain.DomainResult{Name: q.Name, Label: q.Label, Registered: primary.Registered()}
	}

	s.record(ctx, raw, OpSimilarDomains)
	return res, nil
}

// ListHistory lista as buscas recentes de user.
func (s Service) ListHistory(ctx context.Context, user string, limit int) ([]domain.HistoryEntry, error) {
	if s.History == nil {
		return nil, nil
	}
	return s.History.List(ctx, user, limit)
}

// record é best-effort: erro no armazenamento não derruba a busca.
func (s Service) record(ctx context.Context, raw, op string) {
	if s.History == nil {
		return
	}
	user, ok := UserFrom(ctx)
	if !ok {
		return
	}

	err := s.History.Append(ctx, domain.HistoryEntry{
		User:      user,
		Domain:    strings.TrimSpace(raw),
		Operation: op,
		At:        s.now(),
	})
	if err != nil {
		s.logger().Warn("history.append.failed", "user", user, "error", err)
	}
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

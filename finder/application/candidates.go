package application

import (
	"strings"

	"domain-finder/finder/domain"
)

type CandidateOptions struct {
	// IncludeSeed inclui o próprio nome consultado no conjunto.
	IncludeSeed bool
	// ValidateSuggestions descarta sugestões que não passam em IsValidName
	// (ex: "ice cream").
	ValidateSuggestions bool
}

// BuildCandidates monta o CandidateSet a partir do nome original e das sugestões.
func BuildCandidates(seed string, suggestions []string, opts CandidateOptions) domain.CandidateSet {
	seed = strings.ToLower(strings.TrimSpace(seed))
	set := domain.NewCandidateSet(seed, opts.IncludeSeed)

	for _, s := range suggestions {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || (!opts.IncludeSeed && s == seed) {
			continue
		}
		if opts.ValidateSuggestions && !domain.IsValidName(s) {
			continue
		}
		set.Add(s)
	}
	return set
}

package domain

import (
	"sort"
	"strings"
)

// CandidateSet é um conjunto de nomes únicos. A ordem de inserção não importa.
type CandidateSet struct {
	names map[string]struct{}
}

// NewCandidateSet cria o conjunto e, se includeSeed, já inclui o nome original.
func NewCandidateSet(seed string, includeSeed bool) CandidateSet {
	s := CandidateSet{names: make(map[string]struct{})}
	if includeSeed {
		s.Add(seed)
	}
	return s
}

// Add insere name e retorna false se vazio ou já presente.
func (s *CandidateSet) Add(name string) bool {
	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	if name == "" {
		return false
	}
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

func (s CandidateSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s CandidateSet) Len() int { return len(s.names) }

// Names devolve uma cópia ordenada (a ordem é só para saída determinística).
func (s CandidateSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// LabelList é uma lista ordenada e imutável de labels usada no fan-out.
// Remover um label gera uma nova lista; a original nunca é alterada.
type LabelList struct {
	labels []string
}

// NewLabelList copia labels, normaliza para minúsculas e ignora vazios e repetidos.
func NewLabelList(labels ...string) LabelList {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return LabelList{labels: out}
}

func (l LabelList) Len() int { return len(l.labels) }

func (l LabelList) Labels() []string {
	out := make([]string, len(l.labels))
	copy(out, l.labels)
	return out
}

// Without devolve uma nova lista sem label.
func (l LabelList) Without(label string) LabelList {
	out := make([]string, 0, len(l.labels))
	for _, x := range l.labels {
		if strings.EqualFold(x, label) {
			continue
		}
		out = append(out, x)
	}
	return LabelList{labels: out}
}

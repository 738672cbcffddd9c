package domain

import (
	"context"
	"time"
)

// Prober faz uma consulta de disponibilidade para um único par.
//
// Implementações devem limitar cada chamada com um deadline próprio e
// reportar a expiração como Failed, nunca bloquear indefinidamente.
type Prober interface {
	Probe(ctx context.Context, q DomainQuery) ProbeOutcome
}

// Suggester devolve palavras parecidas com name. É best-effort: falhas
// resultam em menos sugestões, nunca em erro.
type Suggester interface {
	Suggest(ctx context.Context, name string) []string
}

// SlotPool representa uma capacidade finita de probes simultâneos.
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}

// HistoryEntry é uma busca feita por um usuário.
type HistoryEntry struct {
	ID        string    `json:"id" yaml:"id" db:"id"`
	User      string    `json:"user" yaml:"user" db:"user_key"`
	Domain    string    `json:"domain" yaml:"domain" db:"domain"`
	Operation string    `json:"operation" yaml:"operation" db:"operation"`
	At        time.Time `json:"at" yaml:"at" db:"created_at"`
}

// HistoryStore persiste o histórico de buscas por usuário.
//
// Quem chama trata erro como best-effort (não derruba a busca).
type HistoryStore interface {
	Append(ctx context.Context, e HistoryEntry) error
	List(ctx context.Context, user string, limit int) ([]HistoryEntry, error)
}

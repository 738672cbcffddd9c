package infra

import (
	"context"
	"sync"

	"domain-finder/finder/domain"

	"github.com/google/uuid"
)

// MemoryHistoryStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento; perde tudo ao reiniciar.
type MemoryHistoryStore struct {
	mu         sync.Mutex
	byUser     map[string][]domain.HistoryEntry
	maxPerUser int
}

func NewMemoryHistoryStore(maxPerUser int) *MemoryHistoryStore {
	return &MemoryHistoryStore{
		byUser:     make(map[string][]domain.HistoryEntry),
		maxPerUser: maxPerUser,
	}
}

func (s *MemoryHistoryStore) Append(_ context.Context, e domain.HistoryEntry) error {
	if e.ID == "" {
		e.ID = newEntryID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.byUser[e.User], e)
	if s.maxPerUser > 0 && len(list) > s.maxPerUser {
		list = list[len(list)-s.maxPerUser:]
	}
	s.byUser[e.User] = list
	return nil
}

// List devolve as entradas mais recentes primeiro.
func (s *MemoryHistoryStore) List(_ context.Context, user string, limit int) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[user]
	n := len(list)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.HistoryEntry, 0, n)
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

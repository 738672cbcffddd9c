package ratelimit

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Store é um token bucket por chave (x/time/rate). Os limiters ficam num
// go-cache com expiração por inatividade; cada Get renova o TTL da chave.
type Store struct {
	mu           sync.Mutex
	cache        *gocache.Cache
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type StoreOption func(*Store)

func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

// WithCleanupEvery define o intervalo do janitor do go-cache; <= 0 desliga.
func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

func NewStore(rps float64, burst int, opts ...StoreOption) *Store {
	s := &Store{
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = gocache.New(s.idleTTL, s.cleanupEvery)
	return s
}

func (s *Store) RPS() float64 { return float64(s.rps) }
func (s *Store) Burst() int   { return s.burst }

// Get implementa LimiterStore.
func (s *Store) Get(key string) Limiter {
	return s.Limiter(key)
}

func (s *Store) Limiter(key string) *rate.Limiter {
	// mu evita que duas requisições simultâneas criem limiters diferentes
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			s.cache.SetDefault(key, lim)
			return lim
		}
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.cache.SetDefault(key, lim)
	return lim
}

// Cleanup remove agora as chaves inativas (o janitor faz isso periodicamente).
func (s *Store) Cleanup() {
	s.cache.DeleteExpired()
}

func (s *Store) Len() int { return s.cache.ItemCount() }

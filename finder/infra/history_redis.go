package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"domain-finder/finder/domain"

	"github.com/redis/go-redis/v9"
)

// RedisHistoryStore guarda o histórico como uma lista por usuário
// (LPUSH + LTRIM), a entrada mais recente na cabeça.
type RedisHistoryStore struct {
	rdb *redis.Client

	prefix string
	// ttl renova a cada Append; 0 desliga a expiração.
	ttl        time.Duration
	maxPerUser int64
}

type RedisHistoryOption func(*RedisHistoryStore)

func WithHistoryPrefix(prefix string) RedisHistoryOption {
	return func(s *RedisHistoryStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithHistoryTTL(d time.Duration) RedisHistoryOption {
	return func(s *RedisHistoryStore) { s.ttl = d }
}

func WithHistoryMax(n int) RedisHistoryOption {
	return func(s *RedisHistoryStore) { s.maxPerUser = int64(n) }
}

func NewRedisHistoryStore(rdb *redis.Client, opts ...RedisHistoryOption) *RedisHistoryStore {
	s := &RedisHistoryStore{
		rdb:        rdb,
		prefix:     "domainfinder:history",
		ttl:        30 * 24 * time.Hour,
		maxPerUser: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisHistoryStore) key(user string) string {
	return s.prefix + ":" + strings.TrimSpace(user)
}

func (s *RedisHistoryStore) Append(ctx context.Context, e domain.HistoryEntry) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if e.ID == "" {
		e.ID = newEntryID()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding history entry: %w", err)
	}

	k := s.key(e.User)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, k, raw)
	if s.maxPerUser > 0 {
		pipe.LTrim(ctx, k, 0, s.maxPerUser-1)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("appending history for %s: %w", e.User, err)
	}
	return nil
}

func (s *RedisHistoryStore) List(ctx context.Context, user string, limit int) ([]domain.HistoryEntry, error) {
	if s == nil || s.rdb == nil {
		return nil, nil
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	vals, err := s.rdb.LRange(ctx, s.key(user), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("listing history for %s: %w", user, err)
	}

	out := make([]domain.HistoryEntry, 0, len(vals))
	for _, v := range vals {
		var e domain.HistoryEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			// entrada corrompida não invalida o resto da lista
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

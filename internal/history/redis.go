package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
)

const historyKey = "taskforce:dispatches"

// RedisStore keeps recent summaries in a capped Redis list so history
// survives process restarts and is shared across replicas.
type RedisStore struct {
	rdb *redis.Client
	max int
}

func NewRedisStore(rdb *redis.Client, max int) *RedisStore {
	if max <= 0 {
		max = 50
	}
	return &RedisStore{rdb: rdb, max: max}
}

func (s *RedisStore) Save(ctx context.Context, summary dispatch.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, int64(s.max-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]dispatch.Summary, error) {
	if limit <= 0 || limit > s.max {
		limit = s.max
	}
	raw, err := s.rdb.LRange(ctx, historyKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	out := make([]dispatch.Summary, 0, len(raw))
	for _, item := range raw {
		var summary dispatch.Summary
		if err := json.Unmarshal([]byte(item), &summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		out = append(out, summary)
	}
	return out, nil
}

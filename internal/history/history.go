package history

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/taskforce/config"
	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
)

// Repository keeps a bounded list of recent dispatch summaries. It exists
// for operators poking at the service; dispatch results are not durable
// state and losing them is acceptable.
type Repository interface {
	Save(ctx context.Context, s dispatch.Summary) error
	Recent(ctx context.Context, limit int) ([]dispatch.Summary, error)
}

// New builds the configured repository. The redis backend is verified with
// a ping so a misconfigured address fails at startup, not on first save.
func New(ctx context.Context, cfg config.HistoryConfig) (Repository, error) {
	switch cfg.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed (%s:%d): %w", cfg.Redis.Host, cfg.Redis.Port, err)
		}
		return NewRedisStore(rdb, cfg.Limit), nil
	case "memory", "":
		return NewMemoryStore(cfg.Limit), nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %q", cfg.Backend)
	}
}

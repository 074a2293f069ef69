//go:generate go run go.uber.org/mock/mockgen -source=rate_limit.go -destination=../mocks/mock_rate_limit_repository.go -package=mocks

package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"chat_store/pkg/logger"
)

const rateLimitKeyPrefix = "chat:ratelimit:"

type RateLimitRepository interface {
	// Increment counts one hit against key and returns the total in the
	// current window. The window starts with the first hit.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

type rateLimitRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewRateLimitRepository(redis *redis.Client, log logger.Logger) RateLimitRepository {
	return &rateLimitRepository{redis: redis, log: log}
}

func (r *rateLimitRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.redis.TxPipeline()
	incr := pipe.Incr(ctx, rateLimitKeyPrefix+key)
	pipe.ExpireNX(ctx, rateLimitKeyPrefix+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Error("Failed to increment rate limit", "key", key, "error", err)
		return 0, err
	}

	return incr.Val(), nil
}

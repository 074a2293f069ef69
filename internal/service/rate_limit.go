package service

import (
	"context"
	"time"

	"chat_store/internal/repository"
	"chat_store/pkg/logger"
)

type RateLimitService interface {
	// Allow consumes one unit of key's budget and reports whether the call
	// fits in limit per window, along with the remaining budget.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		log:           log,
	}
}

func (s *rateLimitService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	if limit <= 0 {
		return true, 0, nil
	}

	// the atomic increment is the check; there is no separate read
	count, err := s.rateLimitRepo.Increment(ctx, key, window)
	if err != nil {
		return false, 0, err
	}

	if count > int64(limit) {
		return false, 0, nil
	}
	return true, limit - int(count), nil
}

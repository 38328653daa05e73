package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"skybook/internal/shared/constants"
	"skybook/pkg/cache"
	"skybook/pkg/logger"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	GetAdminStats(ctx context.Context) (*AdminStats, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	now          func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// GetAdminStats serves the flight and booking figures from cache. Those keys
// are dropped with every seat change; sign-ups are not, so the user count is
// always read live.
func (s *service) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	stats, err := s.flightStats(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	stats.TotalUsers = users
	return stats, nil
}

func (s *service) flightStats(ctx context.Context) (*AdminStats, error) {
	cacheKey := constants.CACHE_KEY_ADMIN_STATS

	// Try to get from cache first
	if s.cacheService != nil {
		var cached AdminStats
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.GetAdminStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	stats.GeneratedAt = s.now().UTC()

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, stats, constants.TTL_ADMIN_STATS); err != nil {
			logger.GetDefault().WarnContext(ctx, "failed to cache admin stats", slog.Any("error", err))
		}
	}

	return stats, nil
}

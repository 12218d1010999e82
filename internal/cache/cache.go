// Package cache layers a redis read-through over the repository for the two
// lookups the assignment engine repeats on every request: location patterns
// and staffing requirements. Conflict checks and workload sums always go to
// the database; stale answers there could double-book.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/config"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	*repository.Repository

	cfg         *config.Config
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewStore(cfg *config.Config, repo *repository.Repository, redisClient *redis.Client, logger *slog.Logger) *Store {
	return &Store{
		Repository:  repo,
		cfg:         cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (s *Store) ttl() time.Duration {
	return time.Duration(s.cfg.Redis.CacheTTL) * time.Second
}

func patternKey(locationID int64, weekday time.Weekday) string {
	return fmt.Sprintf("petscare:pattern:%d:%d", locationID, int(weekday))
}

func requirementsKey(locationID int64, weekday time.Weekday) string {
	return fmt.Sprintf("petscare:requirements:%d:%d", locationID, int(weekday))
}

func (s *Store) PatternDays(ctx context.Context, locationID int64, weekday time.Weekday) ([]*domain.PatternDay, error) {
	key := patternKey(locationID, weekday)

	var days []*domain.PatternDay
	if ok := s.fetch(ctx, key, &days); ok {
		return days, nil
	}

	days, err := s.Repository.PatternDays(ctx, locationID, weekday)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, days)

	return days, nil
}

func (s *Store) StaffingRequirements(ctx context.Context, locationID int64, weekday time.Weekday) ([]*domain.StaffingRequirement, error) {
	key := requirementsKey(locationID, weekday)

	var requirements []*domain.StaffingRequirement
	if ok := s.fetch(ctx, key, &requirements); ok {
		return requirements, nil
	}

	requirements, err := s.Repository.StaffingRequirements(ctx, locationID, weekday)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, requirements)

	return requirements, nil
}

// ReplacePatternDays writes through the repository, then drops the cached
// pattern of every weekday so the next lookup sees the new schedule.
func (s *Store) ReplacePatternDays(ctx context.Context, locationID int64, days []domain.PatternDay) error {
	if err := s.Repository.ReplacePatternDays(ctx, locationID, days); err != nil {
		return err
	}
	s.invalidate(ctx, locationID, patternKey)
	return nil
}

func (s *Store) ReplaceStaffingRequirements(ctx context.Context, locationID int64, requirements []domain.StaffingRequirement) error {
	if err := s.Repository.ReplaceStaffingRequirements(ctx, locationID, requirements); err != nil {
		return err
	}
	s.invalidate(ctx, locationID, requirementsKey)
	return nil
}

// fetch loads and decodes a cached value. Cache errors are logged and treated
// as misses; the database stays the source of truth.
func (s *Store) fetch(ctx context.Context, key string, dst any) bool {
	payload, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		s.logger.Warn("cache payload corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.redisClient.Set(ctx, key, payload, s.ttl()).Err(); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *Store) invalidate(ctx context.Context, locationID int64, keyFn func(int64, time.Weekday) string) {
	keys := make([]string, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		keys = append(keys, keyFn(locationID, wd))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", "locationID", locationID, "error", err)
	}
}

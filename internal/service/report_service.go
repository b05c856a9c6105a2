package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmoretti/loanbook-engine/internal/config"
	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/repository"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
	"github.com/dmoretti/loanbook-engine/pkg/utils"
)

type ReportService struct {
	reportRepo repository.ReportRepository
	redis      *redis.Client
	config     *config.Config
}

func NewReportService(reportRepo repository.ReportRepository, redis *redis.Client, config *config.Config) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		redis:      redis,
		config:     config,
	}
}

// GetMetrics returns the lender's book summary for a period, served from
// Redis when a fresh copy exists. Cache failures degrade to the database.
func (s *ReportService) GetMetrics(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (*domain.ReportMetrics, error) {
	cacheKey := metricsCacheKey(ownerID, start, end)

	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var metrics domain.ReportMetrics
		if err := json.Unmarshal([]byte(cached), &metrics); err == nil {
			return &metrics, nil
		}
	}

	metrics, err := s.reportRepo.GetMetrics(ctx, ownerID, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache(ctx, cacheKey, metrics)
	return metrics, nil
}

// GetDueSoon returns the loans whose due date falls within the configured
// alert window, starting today.
func (s *ReportService) GetDueSoon(ctx context.Context, ownerID uuid.UUID) ([]*domain.DueSoonLoan, error) {
	today := utils.TruncateToDay(time.Now())
	cacheKey := dueSoonCacheKey(ownerID, today)

	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var alerts []*domain.DueSoonLoan
		if err := json.Unmarshal([]byte(cached), &alerts); err == nil {
			return alerts, nil
		}
	}

	alerts, err := s.listDueSoon(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}

	s.cache(ctx, cacheKey, alerts)
	return alerts, nil
}

// WarmDueSoonCaches precomputes the due-soon alert list for every lender
// with open loans. Invoked by the scheduler so the morning dashboard load
// hits a warm cache.
func (s *ReportService) WarmDueSoonCaches(ctx context.Context) error {
	owners, err := s.reportRepo.ListOwnersWithOpenLoans(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	today := utils.TruncateToDay(time.Now())
	for _, ownerID := range owners {
		alerts, err := s.listDueSoon(ctx, ownerID, today)
		if err != nil {
			log.Printf("due-soon warmup failed for owner %s: %v", ownerID, err)
			continue
		}
		s.cache(ctx, dueSoonCacheKey(ownerID, today), alerts)
	}

	return nil
}

// WarmMetricsCaches precomputes the default last-30-days summary for every
// lender with open loans, matching the range the dashboard requests when no
// explicit period is given.
func (s *ReportService) WarmMetricsCaches(ctx context.Context) error {
	owners, err := s.reportRepo.ListOwnersWithOpenLoans(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	end := utils.TruncateToDay(time.Now())
	start := end.AddDate(0, 0, -30)
	for _, ownerID := range owners {
		metrics, err := s.reportRepo.GetMetrics(ctx, ownerID, start, end)
		if err != nil {
			log.Printf("metrics warmup failed for owner %s: %v", ownerID, err)
			continue
		}
		s.cache(ctx, metricsCacheKey(ownerID, start, end), metrics)
	}

	return nil
}

func (s *ReportService) listDueSoon(ctx context.Context, ownerID uuid.UUID, today time.Time) ([]*domain.DueSoonLoan, error) {
	horizon := today.AddDate(0, 0, s.config.Business.DueSoonDays)
	alerts, err := s.reportRepo.ListDueSoon(ctx, ownerID, today, horizon)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return alerts, nil
}

func (s *ReportService) cache(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.config.GetReportCacheTTL()).Err(); err != nil {
		log.Printf("cache write failed for %s: %v", key, err)
	}
}

func metricsCacheKey(ownerID uuid.UUID, start, end time.Time) string {
	return fmt.Sprintf("report:metrics:%s:%s:%s", ownerID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func dueSoonCacheKey(ownerID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("report:duesoon:%s:%s", ownerID, day.Format("2006-01-02"))
}

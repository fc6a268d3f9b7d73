package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"github.com/ikkim/shopmall-backend/pkg/redis"
)

// summaryCacheKey and summaryCacheTTL control the cached admin summary.
// The summary aggregates the whole orders table, so it is the one
// dashboard query worth caching.
const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = 2 * time.Minute
)

type DashboardService interface {
	Summary(ctx context.Context) (*repository.DashboardSummary, error)
	SoldByCategory(year int) ([]repository.CategorySales, error)
	SalesByMonth(year int) ([]repository.MonthlySales, error)
	RecentOrders(year int) ([]model.Order, error)
	Years() ([]int, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	cacheEnabled  bool
}

// NewDashboardService builds the dashboard reader. cacheEnabled gates
// the Redis lookaside so tests can run without a Redis instance.
func NewDashboardService(dashboardRepo repository.DashboardRepository, cacheEnabled bool) DashboardService {
	return &dashboardService{dashboardRepo: dashboardRepo, cacheEnabled: cacheEnabled}
}

func (s *dashboardService) Summary(ctx context.Context) (*repository.DashboardSummary, error) {
	if s.cacheEnabled {
		var cached repository.DashboardSummary
		err := redis.GetJSON(ctx, summaryCacheKey, &cached)
		if err == nil {
			logger.Debug("Dashboard summary served from cache", nil)
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			logger.Warn("Dashboard summary cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	summary, err := s.dashboardRepo.Summary()
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled {
		if err := redis.SetJSON(ctx, summaryCacheKey, summary, summaryCacheTTL); err != nil {
			logger.Warn("Dashboard summary cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return summary, nil
}

func (s *dashboardService) SoldByCategory(year int) ([]repository.CategorySales, error) {
	return s.dashboardRepo.SoldByCategory(year)
}

func (s *dashboardService) SalesByMonth(year int) ([]repository.MonthlySales, error) {
	return s.dashboardRepo.SalesByMonth(year)
}

func (s *dashboardService) RecentOrders(year int) ([]model.Order, error) {
	return s.dashboardRepo.RecentOrders(year, 10)
}

func (s *dashboardService) Years() ([]int, error) {
	return s.dashboardRepo.Years()
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/youneszerotohero-coder/mb-backend/internal/analytics/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/analytics/repository"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

// Sort keys accepted by the profitability report.
const (
	SortByRevenue     = "revenue"
	SortByProfit      = "profit"
	SortByPerformance = "performance"
	SortByMargin      = "margin"
	SortByUnits       = "units"
)

// AnalyticsService assembles the admin dashboard read models.
type AnalyticsService struct {
	repo   repository.AnalyticsRepository
	logger *slog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo repository.AnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:   repo,
		logger: logger,
	}
}

// Dashboard returns the date-ranged overview stats.
func (s *AnalyticsService) Dashboard(ctx context.Context, from, to time.Time) (*domain.DashboardStats, error) {
	if !to.After(from) {
		return nil, apperrors.InvalidInput("date range end must be after start")
	}

	summary, err := s.repo.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard sales summary: %w", err)
	}

	spend, err := s.repo.CampaignSpend(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard campaign spend: %w", err)
	}

	return &domain.DashboardStats{
		From:          from,
		To:            to,
		Revenue:       summary.Revenue,
		OrderCount:    summary.OrderCount,
		DeliveryFees:  summary.DeliveryFees,
		COGS:          summary.COGS,
		CampaignSpend: spend,
		NetProfit:     domain.NetProfit(summary.Revenue, summary.COGS, spend),
	}, nil
}

// SalesOverTime returns daily buckets for the last `days` days, zero-filling
// days without orders so charts get a continuous series.
func (s *AnalyticsService) SalesOverTime(ctx context.Context, days int) ([]domain.DailySales, error) {
	if days < 1 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days+1).Truncate(24 * time.Hour)

	buckets, err := s.repo.SalesByDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales over time: %w", err)
	}

	byDay := make(map[time.Time]domain.DailySales, len(buckets))
	for _, b := range buckets {
		byDay[b.Day.Truncate(24*time.Hour)] = b
	}

	series := make([]domain.DailySales, 0, days)
	for d := 0; d < days; d++ {
		day := from.AddDate(0, 0, d)
		if b, ok := byDay[day]; ok {
			b.Day = day
			series = append(series, b)
		} else {
			series = append(series, domain.DailySales{Day: day})
		}
	}

	return series, nil
}

// Profitability returns the per-product profitability report sorted by the
// given key, exposing profit and performance side by side.
func (s *AnalyticsService) Profitability(ctx context.Context, from, to time.Time, sortBy string) ([]domain.ProductProfit, error) {
	if !to.After(from) {
		return nil, apperrors.InvalidInput("date range end must be after start")
	}

	switch sortBy {
	case "", SortByRevenue, SortByProfit, SortByPerformance, SortByMargin, SortByUnits:
	default:
		return nil, apperrors.InvalidInput("unknown sort key: " + sortBy)
	}

	products, err := s.repo.ProductProfitability(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("product profitability: %w", err)
	}

	for i := range products {
		products[i].Finalize()
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := &products[i], &products[j]
		switch sortBy {
		case SortByProfit:
			return a.Profit > b.Profit
		case SortByPerformance:
			return a.Performance > b.Performance
		case SortByMargin:
			return a.Margin > b.Margin
		case SortByUnits:
			return a.UnitsSold > b.UnitsSold
		default:
			return a.Revenue > b.Revenue
		}
	})

	return products, nil
}

// StockValue returns the retail value of the active inventory.
func (s *AnalyticsService) StockValue(ctx context.Context) (int64, error) {
	value, err := s.repo.StockValue(ctx)
	if err != nil {
		return 0, fmt.Errorf("stock value: %w", err)
	}
	return value, nil
}

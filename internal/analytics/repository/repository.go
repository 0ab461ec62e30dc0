package repository

import (
	"context"
	"time"

	"github.com/youneszerotohero-coder/mb-backend/internal/analytics/domain"
)

// SalesSummary holds the raw order sums for a date range.
type SalesSummary struct {
	Revenue      int64
	OrderCount   int
	DeliveryFees int64
	COGS         int64
}

// AnalyticsRepository defines the read-model queries backing the admin
// dashboard. Cancelled and refunded orders are excluded from every sum.
type AnalyticsRepository interface {
	// SalesSummary sums revenue, order count, delivery fees, and cost of
	// goods over the date range.
	SalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error)

	// CampaignSpend sums the cost of campaigns overlapping the date range.
	CampaignSpend(ctx context.Context, from, to time.Time) (int64, error)

	// SalesByDay returns daily revenue/order buckets over the date range.
	SalesByDay(ctx context.Context, from, to time.Time) ([]domain.DailySales, error)

	// ProductProfitability returns per-product raw sums (revenue, units,
	// COGS, allocated campaign spend) over the date range. Derived fields
	// are left to the caller.
	ProductProfitability(ctx context.Context, from, to time.Time) ([]domain.ProductProfit, error)

	// StockValue sums price x stock quantity over active products.
	StockValue(ctx context.Context) (int64, error)
}

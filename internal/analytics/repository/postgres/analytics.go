package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/youneszerotohero-coder/mb-backend/internal/analytics/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/analytics/repository"
	"github.com/youneszerotohero-coder/mb-backend/pkg/database"
)

// AnalyticsRepository implements repository.AnalyticsRepository using
// PostgreSQL aggregate queries over the order, catalog, and campaign tables.
type AnalyticsRepository struct {
	pool database.DBTX
}

// NewAnalyticsRepository creates a new PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool database.DBTX) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// excludedStatuses filters out orders that never became revenue.
const excludedStatuses = `o.status NOT IN ('cancelled', 'refunded')`

// SalesSummary sums revenue, order count, delivery fees, and cost of goods
// over the date range.
func (r *AnalyticsRepository) SalesSummary(ctx context.Context, from, to time.Time) (repository.SalesSummary, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(o.total_amount), 0),
			COUNT(o.id),
			COALESCE(SUM(o.delivery_fee), 0),
			COALESCE((
				SELECT SUM(i.quantity * p.cost)
				FROM order_items i
				JOIN orders oo ON oo.id = i.order_id
				JOIN products p ON p.id = i.product_id
				WHERE oo.created_at >= $1 AND oo.created_at <= $2
					AND oo.status NOT IN ('cancelled', 'refunded')
			), 0)
		FROM orders o
		WHERE o.created_at >= $1 AND o.created_at <= $2 AND %s`, excludedStatuses)

	var s repository.SalesSummary
	err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&s.Revenue,
		&s.OrderCount,
		&s.DeliveryFees,
		&s.COGS,
	)
	if err != nil {
		return repository.SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}

	return s, nil
}

// CampaignSpend sums the cost of campaigns whose date range overlaps the
// given range.
func (r *AnalyticsRepository) CampaignSpend(ctx context.Context, from, to time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(c.cost), 0)
		FROM campaigns c
		WHERE c.start_date <= $2 AND (c.end_date IS NULL OR c.end_date >= $1)`

	var spend int64
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&spend); err != nil {
		return 0, fmt.Errorf("campaign spend: %w", err)
	}

	return spend, nil
}

// SalesByDay returns daily revenue/order buckets over the date range. Days
// without orders are absent from the result.
func (r *AnalyticsRepository) SalesByDay(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	query := fmt.Sprintf(`
		SELECT DATE_TRUNC('day', o.created_at) AS day,
			COALESCE(SUM(o.total_amount), 0),
			COUNT(o.id)
		FROM orders o
		WHERE o.created_at >= $1 AND o.created_at <= $2 AND %s
		GROUP BY day
		ORDER BY day`, excludedStatuses)

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	defer rows.Close()

	buckets := []domain.DailySales{}
	for rows.Next() {
		var d domain.DailySales
		if err := rows.Scan(&d.Day, &d.Revenue, &d.OrderCount); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		buckets = append(buckets, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily sales: %w", err)
	}

	return buckets, nil
}

// ProductProfitability returns per-product raw sums over the date range.
// Campaign cost is allocated equally across each campaign's linked products;
// promoted products appear even with zero sales.
func (r *AnalyticsRepository) ProductProfitability(ctx context.Context, from, to time.Time) ([]domain.ProductProfit, error) {
	query := fmt.Sprintf(`
		WITH sales AS (
			SELECT i.product_id,
				SUM(i.quantity) AS units_sold,
				SUM(i.price * i.quantity) AS revenue,
				SUM(i.quantity * p.cost) AS cogs
			FROM order_items i
			JOIN orders o ON o.id = i.order_id
			JOIN products p ON p.id = i.product_id
			WHERE o.created_at >= $1 AND o.created_at <= $2 AND %s
			GROUP BY i.product_id
		),
		spend AS (
			SELECT cp.product_id,
				SUM(c.cost / cnt.n)::bigint AS campaign_spend
			FROM campaign_products cp
			JOIN campaigns c ON c.id = cp.campaign_id
			JOIN (
				SELECT campaign_id, COUNT(*) AS n
				FROM campaign_products
				GROUP BY campaign_id
			) cnt ON cnt.campaign_id = cp.campaign_id
			WHERE c.start_date <= $2 AND (c.end_date IS NULL OR c.end_date >= $1)
			GROUP BY cp.product_id
		)
		SELECT p.id, p.name, p.sku,
			COALESCE(s.units_sold, 0),
			COALESCE(s.revenue, 0),
			COALESCE(s.cogs, 0),
			COALESCE(sp.campaign_spend, 0)
		FROM products p
		LEFT JOIN sales s ON s.product_id = p.id
		LEFT JOIN spend sp ON sp.product_id = p.id
		WHERE s.product_id IS NOT NULL OR sp.product_id IS NOT NULL
		ORDER BY COALESCE(s.revenue, 0) DESC`, excludedStatuses)

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("product profitability: %w", err)
	}
	defer rows.Close()

	products := []domain.ProductProfit{}
	for rows.Next() {
		var p domain.ProductProfit
		if err := rows.Scan(
			&p.ProductID,
			&p.Name,
			&p.SKU,
			&p.UnitsSold,
			&p.Revenue,
			&p.COGS,
			&p.CampaignSpend,
		); err != nil {
			return nil, fmt.Errorf("scan product profitability: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product profitability: %w", err)
	}

	return products, nil
}

// StockValue sums price x stock quantity over active products.
func (r *AnalyticsRepository) StockValue(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(p.price * p.stock_quantity), 0)
		FROM products p
		WHERE p.is_active = true`

	var value int64
	if err := r.pool.QueryRow(ctx, query).Scan(&value); err != nil {
		return 0, fmt.Errorf("stock value: %w", err)
	}

	return value, nil
}

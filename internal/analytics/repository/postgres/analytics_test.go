package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youneszerotohero-coder/mb-backend/pkg/database"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var (
	from = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
)

func TestSalesSummary(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAnalyticsRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs(from, to).
		WillReturnRows(
			pgxmock.NewRows([]string{"revenue", "order_count", "delivery_fees", "cogs"}).
				AddRow(int64(50000), 12, int64(3600), int64(20000)),
		)

	s, err := repo.SalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), s.Revenue)
	assert.Equal(t, 12, s.OrderCount)
	assert.Equal(t, int64(3600), s.DeliveryFees)
	assert.Equal(t, int64(20000), s.COGS)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignSpend(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAnalyticsRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM campaigns c").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"spend"}).AddRow(int64(10000)))

	spend, err := repo.CampaignSpend(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), spend)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesByDay(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAnalyticsRepository(mock)

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT DATE_TRUNC").
		WithArgs(from, to).
		WillReturnRows(
			pgxmock.NewRows([]string{"day", "revenue", "order_count"}).
				AddRow(day1, int64(5000), 2).
				AddRow(day2, int64(2500), 1),
		)

	buckets, err := repo.SalesByDay(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, day1, buckets[0].Day)
	assert.Equal(t, int64(5000), buckets[0].Revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductProfitability(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAnalyticsRepository(mock)

	mock.ExpectQuery("WITH sales AS").
		WithArgs(from, to).
		WillReturnRows(
			pgxmock.NewRows([]string{"id", "name", "sku", "units_sold", "revenue", "cogs", "campaign_spend"}).
				AddRow("prod-1", "Canvas Tote Bag", "TOTE-001", 20, int64(50000), int64(20000), int64(10000)).
				AddRow("prod-2", "Silk Scarf", "SCARF-001", 0, int64(0), int64(0), int64(5000)),
		)

	products, err := repo.ProductProfitability(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(50000), products[0].Revenue)
	// Promoted but unsold products still show up with their spend.
	assert.Equal(t, int64(5000), products[1].CampaignSpend)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockValue(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAnalyticsRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(int64(125000)))

	value, err := repo.StockValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(125000), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

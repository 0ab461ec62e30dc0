package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/repository"
	"github.com/youneszerotohero-coder/mb-backend/pkg/database"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func boolPtr(b bool) *bool { return &b }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var campaignCols = []string{
	"id", "name", "platform", "cost", "start_date", "end_date",
	"is_active", "created_at", "updated_at",
}

var campaignColsWithCount = append(append([]string{}, campaignCols...), "total_count")

var campaignProductCols = []string{
	"campaign_id", "product_id", "product_name", "impressions", "clicks", "conversions", "revenue",
}

func testCampaign() domain.Campaign {
	return domain.Campaign{
		ID:        "camp-1",
		Name:      "Summer Push",
		Platform:  "instagram",
		Cost:      10000,
		StartDate: now,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func campaignRow(c domain.Campaign) []any {
	return []any{
		c.ID, c.Name, c.Platform, c.Cost, c.StartDate, c.EndDate,
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	}
}

func TestCampaignRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	c := testCampaign()
	mock.ExpectExec("INSERT INTO campaigns").
		WithArgs(c.ID, c.Name, c.Platform, c.Cost, c.StartDate, c.EndDate, c.IsActive, c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	c := testCampaign()
	mock.ExpectQuery("SELECT .+ FROM campaigns c WHERE c.id").
		WithArgs(c.ID).
		WillReturnRows(pgxmock.NewRows(campaignCols).AddRow(campaignRow(c)...))
	mock.ExpectQuery("SELECT .+ FROM campaign_products cp").
		WithArgs([]string{c.ID}).
		WillReturnRows(
			pgxmock.NewRows(campaignProductCols).
				AddRow(c.ID, "prod-1", "Canvas Tote Bag", 1000, 80, 8, int64(20000)),
		)

	result, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, result.Name)
	require.Len(t, result.Products, 1)
	assert.Equal(t, int64(20000), result.Products[0].Revenue)
	assert.InDelta(t, 100.0, result.ROI(), 0.0001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM campaigns c WHERE c.id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_List_ActiveFilter(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	c := testCampaign()
	row := append(campaignRow(c), 1) // total_count = 1

	mock.ExpectQuery("SELECT .+ FROM campaigns c").
		WithArgs(true, 20, 0).
		WillReturnRows(pgxmock.NewRows(campaignColsWithCount).AddRow(row...))
	mock.ExpectQuery("SELECT .+ FROM campaign_products cp").
		WithArgs([]string{c.ID}).
		WillReturnRows(pgxmock.NewRows(campaignProductCols))

	campaigns, total, err := repo.List(context.Background(), repository.CampaignFilter{
		IsActive: boolPtr(true),
		Page:     1,
		PerPage:  20,
	})
	require.NoError(t, err)
	assert.Len(t, campaigns, 1)
	assert.Equal(t, 1, total)
	assert.NotNil(t, campaigns[0].Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM campaigns c").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(campaignColsWithCount))

	campaigns, total, err := repo.List(context.Background(), repository.CampaignFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.NotNil(t, campaigns)
	assert.Empty(t, campaigns)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	c := testCampaign()
	mock.ExpectExec("UPDATE campaigns").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &c)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	mock.ExpectExec("DELETE FROM campaigns").
		WithArgs("camp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "camp-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_LinkProduct_Duplicate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	mock.ExpectExec("INSERT INTO campaign_products").
		WithArgs("camp-1", "prod-1").
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.LinkProduct(context.Background(), "camp-1", "prod-1")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_UnlinkProduct_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	mock.ExpectExec("DELETE FROM campaign_products").
		WithArgs("camp-1", "prod-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.UnlinkProduct(context.Background(), "camp-1", "prod-9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_UpdateMetrics_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCampaignRepository(mock)

	m := domain.Metrics{Impressions: 1000, Clicks: 80, Conversions: 8, Revenue: 20000}
	mock.ExpectExec("UPDATE campaign_products").
		WithArgs(m.Impressions, m.Clicks, m.Conversions, m.Revenue, "camp-1", "prod-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateMetrics(context.Background(), "camp-1", "prod-1", m)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

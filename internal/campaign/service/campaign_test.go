package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/event"
	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/repository"
	catalogdomain "github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
	pkgkafka "github.com/youneszerotohero-coder/mb-backend/pkg/kafka"
)

// --- Mocks ---

type mockCampaignRepository struct {
	mock.Mock
}

func (m *mockCampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *mockCampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *mockCampaignRepository) List(ctx context.Context, filter repository.CampaignFilter) ([]domain.Campaign, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Campaign), args.Int(1), args.Error(2)
}

func (m *mockCampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *mockCampaignRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCampaignRepository) LinkProduct(ctx context.Context, campaignID, productID string) error {
	args := m.Called(ctx, campaignID, productID)
	return args.Error(0)
}

func (m *mockCampaignRepository) UnlinkProduct(ctx context.Context, campaignID, productID string) error {
	args := m.Called(ctx, campaignID, productID)
	return args.Error(0)
}

func (m *mockCampaignRepository) UpdateMetrics(ctx context.Context, campaignID, productID string, metrics domain.Metrics) error {
	args := m.Called(ctx, campaignID, productID, metrics)
	return args.Error(0)
}

type mockProductFinder struct {
	mock.Mock
}

func (m *mockProductFinder) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogdomain.Product), args.Error(1)
}

// --- Test Helpers ---

func newTestService(repo *mockCampaignRepository, products *mockProductFinder) *CampaignService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	// Create a Kafka producer that will fail silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	producer := event.NewProducer(kafkaProducer, logger)
	return NewCampaignService(repo, products, producer, logger)
}

var start = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }
func int64Ptr(n int64) *int64        { return &n }

// --- Tests ---

func TestCreateCampaign_Success(t *testing.T) {
	repo := new(mockCampaignRepository)
	products := new(mockProductFinder)
	svc := newTestService(repo, products)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)
	products.On("GetProduct", ctx, "prod-1").Return(&catalogdomain.Product{ID: "prod-1", Name: "Canvas Tote Bag"}, nil)
	repo.On("LinkProduct", ctx, mock.AnythingOfType("string"), "prod-1").Return(nil)

	campaign, err := svc.CreateCampaign(ctx, &CreateCampaignInput{
		Name:       "  Summer Push  ",
		Platform:   "Instagram",
		Cost:       10000,
		StartDate:  start,
		IsActive:   true,
		ProductIDs: []string{"prod-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer Push", campaign.Name)
	assert.Equal(t, "instagram", campaign.Platform)
	require.Len(t, campaign.Products, 1)
	assert.Equal(t, "Canvas Tote Bag", campaign.Products[0].ProductName)
	repo.AssertExpectations(t)
}

func TestCreateCampaign_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateCampaignInput
	}{
		{"missing name", CreateCampaignInput{Cost: 100, StartDate: start}},
		{"negative cost", CreateCampaignInput{Name: "X", Cost: -1, StartDate: start}},
		{"missing start date", CreateCampaignInput{Name: "X", Cost: 100}},
		{"end before start", CreateCampaignInput{Name: "X", Cost: 100, StartDate: start, EndDate: timePtr(start.Add(-time.Hour))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(new(mockCampaignRepository), new(mockProductFinder))
			_, err := svc.CreateCampaign(context.Background(), &tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestCreateCampaign_UnknownProduct(t *testing.T) {
	repo := new(mockCampaignRepository)
	products := new(mockProductFinder)
	svc := newTestService(repo, products)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)
	products.On("GetProduct", ctx, "missing-id").Return(nil, apperrors.NotFound("product", "missing-id"))

	_, err := svc.CreateCampaign(ctx, &CreateCampaignInput{
		Name:       "Summer Push",
		Cost:       10000,
		StartDate:  start,
		ProductIDs: []string{"missing-id"},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateCampaign_PartialAndClearEnd(t *testing.T) {
	repo := new(mockCampaignRepository)
	svc := newTestService(repo, new(mockProductFinder))
	ctx := context.Background()

	end := start.AddDate(0, 1, 0)
	repo.On("GetByID", ctx, "camp-1").Return(&domain.Campaign{
		ID:        "camp-1",
		Name:      "Summer Push",
		Cost:      10000,
		StartDate: start,
		EndDate:   &end,
	}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)

	campaign, err := svc.UpdateCampaign(ctx, "camp-1", &UpdateCampaignInput{
		Cost:     int64Ptr(15000),
		ClearEnd: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), campaign.Cost)
	assert.Nil(t, campaign.EndDate)
	assert.Equal(t, "Summer Push", campaign.Name)
}

func TestUpdateCampaign_EndBeforeStartRejected(t *testing.T) {
	repo := new(mockCampaignRepository)
	svc := newTestService(repo, new(mockProductFinder))
	ctx := context.Background()

	repo.On("GetByID", ctx, "camp-1").Return(&domain.Campaign{
		ID:        "camp-1",
		Name:      "Summer Push",
		StartDate: start,
	}, nil)

	_, err := svc.UpdateCampaign(ctx, "camp-1", &UpdateCampaignInput{
		EndDate: timePtr(start.Add(-time.Hour)),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRecordPerformance_Success(t *testing.T) {
	repo := new(mockCampaignRepository)
	svc := newTestService(repo, new(mockProductFinder))
	ctx := context.Background()

	stored := &domain.Campaign{
		ID:   "camp-1",
		Cost: 10000,
		Products: []domain.CampaignProduct{
			{CampaignID: "camp-1", ProductID: "prod-1", Impressions: 1000, Clicks: 80, Conversions: 8, Revenue: 20000},
		},
	}
	repo.On("GetByID", ctx, "camp-1").Return(stored, nil)
	repo.On("UpdateMetrics", ctx, "camp-1", "prod-1", domain.Metrics{
		Impressions: 1000, Clicks: 80, Conversions: 8, Revenue: 20000,
	}).Return(nil)

	campaign, err := svc.RecordPerformance(ctx, "camp-1", []MetricsInput{
		{ProductID: "prod-1", Impressions: 1000, Clicks: 80, Conversions: 8, Revenue: 20000},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, campaign.ROI(), 0.0001)
	repo.AssertExpectations(t)
}

func TestRecordPerformance_Validation(t *testing.T) {
	repo := new(mockCampaignRepository)
	svc := newTestService(repo, new(mockProductFinder))
	ctx := context.Background()

	_, err := svc.RecordPerformance(ctx, "camp-1", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	repo.On("GetByID", ctx, "camp-1").Return(&domain.Campaign{ID: "camp-1"}, nil)
	_, err = svc.RecordPerformance(ctx, "camp-1", []MetricsInput{
		{ProductID: "prod-1", Clicks: -1},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRecordPerformance_UnlinkedProduct(t *testing.T) {
	repo := new(mockCampaignRepository)
	svc := newTestService(repo, new(mockProductFinder))
	ctx := context.Background()

	repo.On("GetByID", ctx, "camp-1").Return(&domain.Campaign{ID: "camp-1"}, nil)
	repo.On("UpdateMetrics", ctx, "camp-1", "prod-9", mock.Anything).
		Return(apperrors.NotFound("campaign product", "prod-9"))

	_, err := svc.RecordPerformance(ctx, "camp-1", []MetricsInput{{ProductID: "prod-9"}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLinkProduct_Success(t *testing.T) {
	repo := new(mockCampaignRepository)
	products := new(mockProductFinder)
	svc := newTestService(repo, products)
	ctx := context.Background()

	repo.On("GetByID", ctx, "camp-1").Return(&domain.Campaign{ID: "camp-1"}, nil)
	products.On("GetProduct", ctx, "prod-1").Return(&catalogdomain.Product{ID: "prod-1", Name: "Canvas Tote Bag"}, nil)
	repo.On("LinkProduct", ctx, "camp-1", "prod-1").Return(nil)

	campaign, err := svc.LinkProduct(ctx, "camp-1", "prod-1")
	require.NoError(t, err)
	require.Len(t, campaign.Products, 1)
}

func TestDeleteCampaign_NotFound(t *testing.T) {
	repo := new(mockCampaignRepository)
	svc := newTestService(repo, new(mockProductFinder))
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing-id").Return(nil, apperrors.NotFound("campaign", "missing-id"))

	err := svc.DeleteCampaign(ctx, "missing-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListCampaigns_Defaults(t *testing.T) {
	repo := new(mockCampaignRepository)
	svc := newTestService(repo, new(mockProductFinder))
	ctx := context.Background()

	repo.On("List", ctx, mock.MatchedBy(func(f repository.CampaignFilter) bool {
		return f.Page == 1 && f.PerPage == 20
	})).Return([]domain.Campaign{}, 0, nil)

	_, _, err := svc.ListCampaigns(ctx, repository.CampaignFilter{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

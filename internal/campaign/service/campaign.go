package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/event"
	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/repository"
	catalogdomain "github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

// ProductFinder resolves products when linking them to campaigns.
type ProductFinder interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}

// CampaignService implements the business logic for campaign operations.
type CampaignService struct {
	repo     repository.CampaignRepository
	products ProductFinder
	producer *event.Producer
	logger   *slog.Logger
}

// NewCampaignService creates a new campaign service.
func NewCampaignService(repo repository.CampaignRepository, products ProductFinder, producer *event.Producer, logger *slog.Logger) *CampaignService {
	return &CampaignService{
		repo:     repo,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// CreateCampaignInput holds the parameters for creating a campaign.
type CreateCampaignInput struct {
	Name       string
	Platform   string
	Cost       int64
	StartDate  time.Time
	EndDate    *time.Time
	IsActive   bool
	ProductIDs []string
}

// UpdateCampaignInput holds the parameters for partially updating a campaign.
type UpdateCampaignInput struct {
	Name      *string
	Platform  *string
	Cost      *int64
	StartDate *time.Time
	EndDate   *time.Time
	ClearEnd  bool
	IsActive  *bool
}

// MetricsInput carries one product's performance counters for a rollup update.
type MetricsInput struct {
	ProductID   string
	Impressions int
	Clicks      int
	Conversions int
	Revenue     int64
}

// CreateCampaign creates a new campaign and links the requested products.
func (s *CampaignService) CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*domain.Campaign, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("campaign name is required")
	}
	if input.Cost < 0 {
		return nil, apperrors.InvalidInput("campaign cost must not be negative")
	}
	if input.StartDate.IsZero() {
		return nil, apperrors.InvalidInput("start date is required")
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, apperrors.InvalidInput("end date must be after start date")
	}

	now := time.Now().UTC()
	campaign := &domain.Campaign{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Platform:  strings.ToLower(strings.TrimSpace(input.Platform)),
		Cost:      input.Cost,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  input.IsActive,
		Products:  []domain.CampaignProduct{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	for _, productID := range input.ProductIDs {
		if err := s.linkProduct(ctx, campaign, productID); err != nil {
			return nil, err
		}
	}

	if err := s.producer.PublishCampaignCreated(ctx, campaign); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish campaign.created event",
			slog.String("campaign_id", campaign.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "campaign created",
		slog.String("campaign_id", campaign.ID),
		slog.String("name", campaign.Name),
		slog.Int64("cost", campaign.Cost),
	)

	return campaign, nil
}

// GetCampaign retrieves a campaign with its linked products.
func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get campaign by id: %w", err)
	}
	return campaign, nil
}

// ListCampaigns returns a filtered, paginated list of campaigns.
func (s *CampaignService) ListCampaigns(ctx context.Context, filter repository.CampaignFilter) ([]domain.Campaign, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	campaigns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}

	return campaigns, total, nil
}

// UpdateCampaign applies partial updates to an existing campaign.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id string, input *UpdateCampaignInput) (*domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get campaign for update: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.InvalidInput("campaign name must not be empty")
		}
		campaign.Name = strings.TrimSpace(*input.Name)
	}

	if input.Platform != nil {
		campaign.Platform = strings.ToLower(strings.TrimSpace(*input.Platform))
	}

	if input.Cost != nil {
		if *input.Cost < 0 {
			return nil, apperrors.InvalidInput("campaign cost must not be negative")
		}
		campaign.Cost = *input.Cost
	}

	if input.StartDate != nil {
		campaign.StartDate = *input.StartDate
	}

	if input.ClearEnd {
		campaign.EndDate = nil
	} else if input.EndDate != nil {
		campaign.EndDate = input.EndDate
	}

	if campaign.EndDate != nil && !campaign.EndDate.After(campaign.StartDate) {
		return nil, apperrors.InvalidInput("end date must be after start date")
	}

	if input.IsActive != nil {
		campaign.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}

	if err := s.producer.PublishCampaignUpdated(ctx, campaign); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish campaign.updated event",
			slog.String("campaign_id", campaign.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "campaign updated",
		slog.String("campaign_id", campaign.ID),
		slog.String("name", campaign.Name),
	)

	return campaign, nil
}

// DeleteCampaign removes a campaign and its product links.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get campaign for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}

	if err := s.producer.PublishCampaignDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish campaign.deleted event",
			slog.String("campaign_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "campaign deleted",
		slog.String("campaign_id", id),
	)

	return nil
}

// LinkProduct attaches a product to a campaign.
func (s *CampaignService) LinkProduct(ctx context.Context, campaignID, productID string) (*domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("get campaign for link: %w", err)
	}

	if err := s.linkProduct(ctx, campaign, productID); err != nil {
		return nil, err
	}

	return campaign, nil
}

func (s *CampaignService) linkProduct(ctx context.Context, campaign *domain.Campaign, productID string) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product for link: %w", err)
	}

	if err := s.repo.LinkProduct(ctx, campaign.ID, product.ID); err != nil {
		return fmt.Errorf("link product: %w", err)
	}

	campaign.Products = append(campaign.Products, domain.CampaignProduct{
		CampaignID:  campaign.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
	})

	s.logger.InfoContext(ctx, "campaign product linked",
		slog.String("campaign_id", campaign.ID),
		slog.String("product_id", product.ID),
	)

	return nil
}

// UnlinkProduct detaches a product from a campaign.
func (s *CampaignService) UnlinkProduct(ctx context.Context, campaignID, productID string) error {
	if err := s.repo.UnlinkProduct(ctx, campaignID, productID); err != nil {
		return fmt.Errorf("unlink product: %w", err)
	}

	s.logger.InfoContext(ctx, "campaign product unlinked",
		slog.String("campaign_id", campaignID),
		slog.String("product_id", productID),
	)

	return nil
}

// RecordPerformance replaces the performance counters of the given linked
// products and returns the refreshed campaign with its rollup.
func (s *CampaignService) RecordPerformance(ctx context.Context, campaignID string, inputs []MetricsInput) (*domain.Campaign, error) {
	if len(inputs) == 0 {
		return nil, apperrors.InvalidInput("at least one product metrics entry is required")
	}

	if _, err := s.repo.GetByID(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("get campaign for performance: %w", err)
	}

	for _, in := range inputs {
		if in.Impressions < 0 || in.Clicks < 0 || in.Conversions < 0 || in.Revenue < 0 {
			return nil, apperrors.InvalidInput("performance counters must not be negative")
		}

		metrics := domain.Metrics{
			Impressions: in.Impressions,
			Clicks:      in.Clicks,
			Conversions: in.Conversions,
			Revenue:     in.Revenue,
		}

		if err := s.repo.UpdateMetrics(ctx, campaignID, in.ProductID, metrics); err != nil {
			return nil, fmt.Errorf("update metrics for product %s: %w", in.ProductID, err)
		}

		if err := s.producer.PublishPerformanceRecorded(ctx, campaignID, in.ProductID, metrics); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish performance_recorded event",
				slog.String("campaign_id", campaignID),
				slog.String("product_id", in.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	campaign, err := s.repo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("reload campaign after performance update: %w", err)
	}

	s.logger.InfoContext(ctx, "campaign performance recorded",
		slog.String("campaign_id", campaignID),
		slog.Int("products", len(inputs)),
	)

	return campaign, nil
}

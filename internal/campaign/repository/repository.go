package repository

import (
	"context"
	"time"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/domain"
)

// CampaignFilter holds optional filters for listing campaigns.
type CampaignFilter struct {
	IsActive *bool
	Search   *string
	// RunningAt keeps only campaigns whose date range covers the instant.
	RunningAt *time.Time
	Page      int
	PerPage   int
}

// CampaignRepository defines the persistence operations for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error

	// GetByID returns a campaign with its linked products.
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)

	// List returns campaigns (with linked products) matching the filter and
	// the total count.
	List(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, int, error)

	Update(ctx context.Context, campaign *domain.Campaign) error
	Delete(ctx context.Context, id string) error

	// LinkProduct attaches a product to a campaign with zeroed counters.
	LinkProduct(ctx context.Context, campaignID, productID string) error

	// UnlinkProduct detaches a product from a campaign.
	UnlinkProduct(ctx context.Context, campaignID, productID string) error

	// UpdateMetrics replaces the performance counters of one linked product.
	UpdateMetrics(ctx context.Context, campaignID, productID string, metrics domain.Metrics) error
}

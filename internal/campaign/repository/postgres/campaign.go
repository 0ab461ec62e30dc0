package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/campaign/repository"
	"github.com/youneszerotohero-coder/mb-backend/pkg/database"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

// CampaignRepository implements repository.CampaignRepository using PostgreSQL.
type CampaignRepository struct {
	pool database.DBTX
}

// NewCampaignRepository creates a new PostgreSQL-backed campaign repository.
func NewCampaignRepository(pool database.DBTX) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `c.id, c.name, c.platform, c.cost, c.start_date, c.end_date,
	c.is_active, c.created_at, c.updated_at`

// Create inserts a new campaign into the database.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, name, platform, cost, start_date, end_date, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Platform,
		c.Cost,
		c.StartDate,
		c.EndDate,
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("campaign", "name", c.Name)
		}
		return fmt.Errorf("insert campaign: %w", err)
	}

	return nil
}

// GetByID retrieves a campaign with its linked products.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM campaigns c
		WHERE c.id = $1`, campaignColumns)

	var c domain.Campaign
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Platform,
		&c.Cost,
		&c.StartDate,
		&c.EndDate,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("campaign", id)
		}
		return nil, fmt.Errorf("scan campaign: %w", err)
	}

	productsByCampaign, err := r.loadProducts(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.Products = productsByCampaign[c.ID]
	if c.Products == nil {
		c.Products = []domain.CampaignProduct{}
	}

	return &c, nil
}

// List returns campaigns matching the filter with the total count. Linked
// products are loaded in a second query batched over the page's campaign IDs.
func (r *CampaignRepository) List(ctx context.Context, filter repository.CampaignFilter) ([]domain.Campaign, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("c.is_active = $%d", argIndex))
		args = append(args, *filter.IsActive)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.platform ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if filter.RunningAt != nil {
		conditions = append(conditions, fmt.Sprintf(
			"c.start_date <= $%d AND (c.end_date IS NULL OR c.end_date >= $%d)", argIndex, argIndex))
		args = append(args, *filter.RunningAt)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM campaigns c
		%s
		ORDER BY c.start_date DESC`, campaignColumns, whereClause)

	if filter.PerPage > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PerPage
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.PerPage, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var (
		campaigns   []domain.Campaign
		campaignIDs []string
		totalCount  int
	)

	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Platform,
			&c.Cost,
			&c.StartDate,
			&c.EndDate,
			&c.IsActive,
			&c.CreatedAt,
			&c.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan campaign row: %w", err)
		}
		campaigns = append(campaigns, c)
		campaignIDs = append(campaignIDs, c.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate campaign rows: %w", err)
	}

	if len(campaigns) == 0 {
		return []domain.Campaign{}, totalCount, nil
	}

	productsByCampaign, err := r.loadProducts(ctx, campaignIDs)
	if err != nil {
		return nil, 0, err
	}

	for i := range campaigns {
		campaigns[i].Products = productsByCampaign[campaigns[i].ID]
		if campaigns[i].Products == nil {
			campaigns[i].Products = []domain.CampaignProduct{}
		}
	}

	return campaigns, totalCount, nil
}

// Update modifies an existing campaign.
func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE campaigns
		SET name = $1, platform = $2, cost = $3, start_date = $4, end_date = $5,
		    is_active = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		c.Name,
		c.Platform,
		c.Cost,
		c.StartDate,
		c.EndDate,
		c.IsActive,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("campaign", "name", c.Name)
		}
		return fmt.Errorf("update campaign: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("campaign", c.ID)
	}

	return nil
}

// Delete removes a campaign. Linked product rows go with it via the FK
// cascade.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM campaigns WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("campaign", id)
	}

	return nil
}

// LinkProduct attaches a product to a campaign with zeroed counters.
func (r *CampaignRepository) LinkProduct(ctx context.Context, campaignID, productID string) error {
	query := `
		INSERT INTO campaign_products (campaign_id, product_id, impressions, clicks, conversions, revenue)
		VALUES ($1, $2, 0, 0, 0, 0)`

	_, err := r.pool.Exec(ctx, query, campaignID, productID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("campaign product", "product_id", productID)
		}
		return fmt.Errorf("link campaign product: %w", err)
	}

	return nil
}

// UnlinkProduct detaches a product from a campaign.
func (r *CampaignRepository) UnlinkProduct(ctx context.Context, campaignID, productID string) error {
	query := `DELETE FROM campaign_products WHERE campaign_id = $1 AND product_id = $2`

	ct, err := r.pool.Exec(ctx, query, campaignID, productID)
	if err != nil {
		return fmt.Errorf("unlink campaign product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("campaign product", productID)
	}

	return nil
}

// UpdateMetrics replaces the performance counters of one linked product.
func (r *CampaignRepository) UpdateMetrics(ctx context.Context, campaignID, productID string, metrics domain.Metrics) error {
	query := `
		UPDATE campaign_products
		SET impressions = $1, clicks = $2, conversions = $3, revenue = $4
		WHERE campaign_id = $5 AND product_id = $6`

	ct, err := r.pool.Exec(ctx, query,
		metrics.Impressions,
		metrics.Clicks,
		metrics.Conversions,
		metrics.Revenue,
		campaignID,
		productID,
	)
	if err != nil {
		return fmt.Errorf("update campaign metrics: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("campaign product", productID)
	}

	return nil
}

func (r *CampaignRepository) loadProducts(ctx context.Context, campaignIDs []string) (map[string][]domain.CampaignProduct, error) {
	query := `
		SELECT cp.campaign_id, cp.product_id, COALESCE(p.name, ''), cp.impressions,
			cp.clicks, cp.conversions, cp.revenue
		FROM campaign_products cp
		LEFT JOIN products p ON p.id = cp.product_id
		WHERE cp.campaign_id = ANY($1)
		ORDER BY cp.product_id`

	rows, err := r.pool.Query(ctx, query, campaignIDs)
	if err != nil {
		return nil, fmt.Errorf("load campaign products: %w", err)
	}
	defer rows.Close()

	productsByCampaign := make(map[string][]domain.CampaignProduct, len(campaignIDs))
	for rows.Next() {
		var cp domain.CampaignProduct
		if err := rows.Scan(
			&cp.CampaignID,
			&cp.ProductID,
			&cp.ProductName,
			&cp.Impressions,
			&cp.Clicks,
			&cp.Conversions,
			&cp.Revenue,
		); err != nil {
			return nil, fmt.Errorf("scan campaign product: %w", err)
		}
		productsByCampaign[cp.CampaignID] = append(productsByCampaign[cp.CampaignID], cp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign products: %w", err)
	}

	return productsByCampaign, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

package domain

import "time"

// Campaign represents an advertising campaign and the products it promotes.
// Cost and revenue are minor units.
type Campaign struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Platform  string            `json:"platform,omitempty"`
	Cost      int64             `json:"cost"`
	StartDate time.Time         `json:"start_date"`
	EndDate   *time.Time        `json:"end_date,omitempty"`
	IsActive  bool              `json:"is_active"`
	Products  []CampaignProduct `json:"products"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CampaignProduct links a promoted product to a campaign and carries the
// per-product performance counters.
type CampaignProduct struct {
	CampaignID  string `json:"campaign_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Impressions int    `json:"impressions"`
	Clicks      int    `json:"clicks"`
	Conversions int    `json:"conversions"`
	Revenue     int64  `json:"revenue"`
}

// Metrics is a rollup of performance counters.
type Metrics struct {
	Impressions int   `json:"impressions"`
	Clicks      int   `json:"clicks"`
	Conversions int   `json:"conversions"`
	Revenue     int64 `json:"revenue"`
}

// Aggregate sums the performance counters across all linked products.
func (c *Campaign) Aggregate() Metrics {
	var m Metrics
	for i := range c.Products {
		p := &c.Products[i]
		m.Impressions += p.Impressions
		m.Clicks += p.Clicks
		m.Conversions += p.Conversions
		m.Revenue += p.Revenue
	}
	return m
}

// ROI returns the return on investment as a percentage. A campaign with no
// cost has no meaningful ROI and reports 0 rather than dividing by zero.
func ROI(cost, revenue int64) float64 {
	if cost <= 0 {
		return 0
	}
	return float64(revenue-cost) / float64(cost) * 100
}

// ROI reports the campaign's overall return on investment.
func (c *Campaign) ROI() float64 {
	return ROI(c.Cost, c.Aggregate().Revenue)
}

// CostPerProduct splits the campaign cost equally across the linked products.
// Integer division: the remainder stays unallocated.
func (c *Campaign) CostPerProduct() int64 {
	if len(c.Products) == 0 {
		return 0
	}
	return c.Cost / int64(len(c.Products))
}

// IsRunning reports whether the campaign is active at the given instant. A
// nil end date means the campaign is open-ended.
func (c *Campaign) IsRunning(at time.Time) bool {
	if !c.IsActive {
		return false
	}
	if at.Before(c.StartDate) {
		return false
	}
	if c.EndDate != nil && at.After(*c.EndDate) {
		return false
	}
	return true
}

// ClickThroughRate returns clicks per impression as a percentage.
func (m Metrics) ClickThroughRate() float64 {
	if m.Impressions <= 0 {
		return 0
	}
	return float64(m.Clicks) / float64(m.Impressions) * 100
}

// ConversionRate returns conversions per click as a percentage.
func (m Metrics) ConversionRate() float64 {
	if m.Clicks <= 0 {
		return 0
	}
	return float64(m.Conversions) / float64(m.Clicks) * 100
}

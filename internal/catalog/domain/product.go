package domain

import "time"

// Product represents a catalog product. Monetary amounts are minor units.
type Product struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	SKU            string         `json:"sku"`
	Brand          string         `json:"brand,omitempty"`
	CategoryID     *string        `json:"category_id,omitempty"`
	CategoryName   string         `json:"category_name,omitempty"`
	Price          int64          `json:"price"`
	Cost           int64          `json:"cost"`
	CompareAtPrice *int64         `json:"compare_at_price,omitempty"`
	StockQuantity  int            `json:"stock_quantity"`
	IsActive       bool           `json:"is_active"`
	IsFeatured     bool           `json:"is_featured"`
	Images         []ProductImage `json:"images,omitempty"`
	Sizes          []Size         `json:"sizes,omitempty"`
	Colors         []Color        `json:"colors,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ProductImage is an image attached to a product.
type ProductImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
	IsPrimary bool   `json:"is_primary"`
}

// PrimaryImage returns the image marked primary, or the first image when none
// is marked. At most one image may carry IsPrimary; writes enforce this.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// InStock reports whether any units are available.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// SizeTokens returns the canonical tokens of the product's sizes, skipping
// ones that normalize to "".
func (p *Product) SizeTokens() []string {
	tokens := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		if t := s.Canonical(); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// ColorTokens returns the canonical tokens of the product's colors, skipping
// ones that normalize to "".
func (p *Product) ColorTokens() []string {
	tokens := make([]string, 0, len(p.Colors))
	for _, c := range p.Colors {
		if t := c.Canonical(); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

package domain

import "time"

// DashboardStats is the date-ranged overview shown on the admin dashboard.
// Monetary figures are minor units.
type DashboardStats struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	Revenue       int64     `json:"revenue"`
	OrderCount    int       `json:"order_count"`
	DeliveryFees  int64     `json:"delivery_fees"`
	COGS          int64     `json:"cogs"`
	CampaignSpend int64     `json:"campaign_spend"`
	NetProfit     int64     `json:"net_profit"`
}

// DailySales is one day's bucket in a sales-over-time series.
type DailySales struct {
	Day        time.Time `json:"day"`
	Revenue    int64     `json:"revenue"`
	OrderCount int       `json:"order_count"`
}

// ProductProfit is one row of the product profitability report. Profit is the
// sales-only margin (revenue minus cost of goods); Performance additionally
// charges the product its allocated campaign spend. The two are reported side
// by side and never folded into each other.
type ProductProfit struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	UnitsSold     int     `json:"units_sold"`
	Revenue       int64   `json:"revenue"`
	COGS          int64   `json:"cogs"`
	CampaignSpend int64   `json:"campaign_spend"`
	Profit        int64   `json:"profit"`
	Performance   int64   `json:"performance"`
	Margin        float64 `json:"margin"`
}

// NetProfit is revenue minus cost of goods minus campaign spend.
func NetProfit(revenue, cogs, campaignSpend int64) int64 {
	return revenue - cogs - campaignSpend
}

// Profit is the sales-only margin: revenue minus cost of goods.
func Profit(revenue, cogs int64) int64 {
	return revenue - cogs
}

// Performance charges a product its allocated campaign spend against revenue.
func Performance(revenue, campaignSpend int64) int64 {
	return revenue - campaignSpend
}

// Margin returns profit as a percentage of revenue, 0 when there is no
// revenue.
func Margin(revenue, profit int64) float64 {
	if revenue <= 0 {
		return 0
	}
	return float64(profit) / float64(revenue) * 100
}

// Finalize fills the derived fields from the raw sums.
func (p *ProductProfit) Finalize() {
	p.Profit = Profit(p.Revenue, p.COGS)
	p.Performance = Performance(p.Revenue, p.CampaignSpend)
	p.Margin = Margin(p.Revenue, p.Profit)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfitAndPerformanceAreDistinct(t *testing.T) {
	p := ProductProfit{
		Revenue:       50000,
		COGS:          20000,
		CampaignSpend: 10000,
	}
	p.Finalize()

	assert.Equal(t, int64(30000), p.Profit)
	assert.Equal(t, int64(40000), p.Performance)
	assert.InDelta(t, 60.0, p.Margin, 0.0001)
}

func TestNetProfit(t *testing.T) {
	assert.Equal(t, int64(20000), NetProfit(50000, 20000, 10000))
	assert.Equal(t, int64(-5000), NetProfit(10000, 10000, 5000))
}

func TestMargin_NoRevenue(t *testing.T) {
	assert.Zero(t, Margin(0, 0))
	assert.Zero(t, Margin(-100, 50))
}

func TestFinalize_UnsoldPromotedProduct(t *testing.T) {
	p := ProductProfit{CampaignSpend: 5000}
	p.Finalize()

	assert.Equal(t, int64(0), p.Profit)
	assert.Equal(t, int64(-5000), p.Performance)
	assert.Zero(t, p.Margin)
}

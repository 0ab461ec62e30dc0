package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name      string
		page      int
		size      int
		wantPage  int
		wantLen   int
		wantTotal int
		wantFirst int
	}{
		{name: "first page", page: 1, size: 12, wantPage: 1, wantLen: 12, wantTotal: 3, wantFirst: 0},
		{name: "middle page", page: 2, size: 12, wantPage: 2, wantLen: 12, wantTotal: 3, wantFirst: 12},
		{name: "last partial page", page: 3, size: 12, wantPage: 3, wantLen: 1, wantTotal: 3, wantFirst: 24},
		{name: "page beyond end clamps to last", page: 99, size: 12, wantPage: 3, wantLen: 1, wantTotal: 3, wantFirst: 24},
		{name: "zero page clamps to first", page: 0, size: 12, wantPage: 1, wantLen: 12, wantTotal: 3, wantFirst: 0},
		{name: "negative page clamps to first", page: -5, size: 12, wantPage: 1, wantLen: 12, wantTotal: 3, wantFirst: 0},
		{name: "zero size falls back to default", page: 1, size: 0, wantPage: 1, wantLen: 12, wantTotal: 3, wantFirst: 0},
		{name: "exact multiple", page: 5, size: 5, wantPage: 5, wantLen: 5, wantTotal: 5, wantFirst: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, got.Number)
			assert.Equal(t, tt.wantTotal, got.TotalPages)
			assert.Equal(t, 25, got.TotalItems)
			assert.Len(t, got.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got.Items[0])
			}
		})
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	got := Paginate([]string{}, 3, 12)
	assert.Equal(t, 1, got.Number)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 0, got.TotalItems)
	assert.Empty(t, got.Items)
	assert.False(t, got.HasNext())
	assert.False(t, got.HasPrev())
}

func TestPageNavigation(t *testing.T) {
	items := make([]int, 30)
	mid := Paginate(items, 2, 12)
	assert.True(t, mid.HasNext())
	assert.True(t, mid.HasPrev())

	first := Paginate(items, 1, 12)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrev())

	last := Paginate(items, 3, 12)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrev())
}

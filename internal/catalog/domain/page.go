package domain

// DefaultPageSize is the storefront grid size.
const DefaultPageSize = 12

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether a preceding page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// Paginate slices items into the requested page. A non-positive size falls
// back to DefaultPageSize. The page number is clamped into [1, TotalPages];
// an empty input still yields page 1 of 1 with no items, so the storefront
// always has a valid page to render.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalItems := len(items)
	totalPages := (totalItems + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

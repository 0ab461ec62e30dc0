package domain

import "strings"

// FilterSet describes the constraints of a storefront catalog query. A zero
// FilterSet matches every product. Within a dimension (sizes, colors,
// categories) selected values are alternatives; across dimensions all
// constraints must hold.
type FilterSet struct {
	SearchTerm string   `json:"search_term,omitempty"`
	PriceMin   *int64   `json:"price_min,omitempty"`
	PriceMax   *int64   `json:"price_max,omitempty"`
	Sizes      []string `json:"sizes,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Normalize returns a copy with tokens canonicalized and a reversed price
// range swapped into ascending order.
func (f FilterSet) Normalize() FilterSet {
	out := FilterSet{
		SearchTerm: strings.TrimSpace(f.SearchTerm),
		PriceMin:   f.PriceMin,
		PriceMax:   f.PriceMax,
		Sizes:      NormalizeTokens(f.Sizes),
		Colors:     NormalizeTokens(f.Colors),
		Categories: NormalizeTokens(f.Categories),
	}
	if out.PriceMin != nil && out.PriceMax != nil && *out.PriceMin > *out.PriceMax {
		out.PriceMin, out.PriceMax = out.PriceMax, out.PriceMin
	}
	return out
}

// IsEmpty reports whether the filter constrains nothing.
func (f FilterSet) IsEmpty() bool {
	return f.SearchTerm == "" &&
		f.PriceMin == nil && f.PriceMax == nil &&
		len(f.Sizes) == 0 && len(f.Colors) == 0 && len(f.Categories) == 0
}

// Matches reports whether the product satisfies every constraint of the
// filter. Callers should pass a filter returned by Normalize.
func (f FilterSet) Matches(p *Product) bool {
	if f.SearchTerm != "" && !matchesSearch(p, f.SearchTerm) {
		return false
	}
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if len(f.Sizes) > 0 && !anyTokenIn(p.SizeTokens(), f.Sizes) {
		return false
	}
	if len(f.Colors) > 0 && !anyTokenIn(p.ColorTokens(), f.Colors) {
		return false
	}
	if len(f.Categories) > 0 && !matchesCategory(p, f.Categories) {
		return false
	}
	return true
}

func matchesSearch(p *Product, term string) bool {
	needle := strings.ToLower(term)
	for _, hay := range []string{p.Name, p.Brand, p.CategoryName, p.SKU} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func anyTokenIn(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func matchesCategory(p *Product, want []string) bool {
	name := NormalizeToken(p.CategoryName)
	for _, w := range want {
		if name != "" && name == w {
			return true
		}
		if p.CategoryID != nil && strings.EqualFold(*p.CategoryID, w) {
			return true
		}
	}
	return false
}

package catalog

import (
	"sort"
	"strings"

	"github.com/rgimusa/storefront/internal/domain"
	"github.com/spf13/cast"
)

const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
)

// Query store browsing filters. PriceRange accepts "min-max", "min-" and "min+".
type Query struct {
	Category   string `query:"category"`
	PriceRange string `query:"price"`
	Sort       string `query:"sort"`
}

type priceRange struct {
	min, max float64
	open     bool
}

func parsePriceRange(s string) (priceRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return priceRange{}, false
	}
	if strings.HasSuffix(s, "+") {
		min, err := cast.ToFloat64E(strings.TrimSuffix(s, "+"))
		if err != nil {
			return priceRange{}, false
		}
		return priceRange{min: min, open: true}, true
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return priceRange{}, false
	}
	min, err := cast.ToFloat64E(parts[0])
	if err != nil {
		return priceRange{}, false
	}
	if strings.TrimSpace(parts[1]) == "" {
		return priceRange{min: min, open: true}, true
	}
	max, err := cast.ToFloat64E(parts[1])
	if err != nil {
		return priceRange{}, false
	}
	return priceRange{min: min, max: max}, true
}

func (r priceRange) contains(price float64) bool {
	if price < r.min {
		return false
	}
	return r.open || price <= r.max
}

// Apply filters and sorts a product list without modifying it. An unparsable
// price range is ignored.
func (q Query) Apply(products []domain.Product) []domain.Product {
	pr, hasRange := parsePriceRange(q.PriceRange)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.CategoryID != q.Category {
			continue
		}
		if hasRange && !pr.contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) > strings.ToLower(out[j].Name) })
	}
	return out
}

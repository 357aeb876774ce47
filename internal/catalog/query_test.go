package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryApply(t *testing.T) {
	products := testCatalog().Products()

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"no filters", Query{}, []string{"p1", "p2", "p3", "p4"}},
		{"category", Query{Category: "drones"}, []string{"p2"}},
		{"closed range", Query{PriceRange: "10-50"}, []string{"p3", "p4"}},
		{"open range plus", Query{PriceRange: "500+"}, []string{"p2"}},
		{"open range dash", Query{PriceRange: "80-"}, []string{"p1", "p2"}},
		{"bad range ignored", Query{PriceRange: "cheap"}, []string{"p1", "p2", "p3", "p4"}},
		{"price asc", Query{Sort: SortPriceAsc}, []string{"p3", "p4", "p1", "p2"}},
		{"price desc", Query{Sort: SortPriceDesc}, []string{"p2", "p1", "p4", "p3"}},
		{"name asc", Query{Sort: SortNameAsc}, []string{"p4", "p1", "p2", "p3"}},
		{"name desc", Query{Sort: SortNameDesc}, []string{"p3", "p2", "p1", "p4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.query.Apply(products)))
		})
	}
	assert.Equal(t, "p1", products[0].ID)
}

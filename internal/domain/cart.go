package domain

// CartLineItem one product/quantity pair inside a cart or an order snapshot.
// Qty is never below 1.
type CartLineItem struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

// CartLine a line item joined with its catalog product for display
type CartLine struct {
	Product  Product `json:"product"`
	Qty      int     `json:"qty"`
	Subtotal float64 `json:"subtotal"`
}

// CopyItems returns an independent copy of the line items
func CopyItems(items []CartLineItem) []CartLineItem {
	if items == nil {
		return []CartLineItem{}
	}
	out := make([]CartLineItem, len(items))
	copy(out, items)
	return out
}

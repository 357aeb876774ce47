package storefront

import (
	"math"

	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/store"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func addQty(qty, delta int) int {
	if delta > 0 && qty > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(1, qty+delta)
}

func (s *State) findLine(id string) int {
	for i, it := range s.cart {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) persistCart() store.Result {
	return s.store.Save(store.KeyCart, s.cart)
}

// AddToCart increments the line for id or appends a new line with qty 1.
// The id is not checked against the catalog.
func (s *State) AddToCart(id string) Mutation {
	if id == "" {
		return Mutation{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findLine(id); i >= 0 {
		s.cart[i].Qty++
	} else {
		s.cart = append(s.cart, domain.CartLineItem{ID: id, Qty: 1})
	}
	return Mutation{Applied: true, Persist: s.persistCart()}
}

// RemoveFromCart deletes the line for id, a no-op when absent
func (s *State) RemoveFromCart(id string) Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLine(id)
	if i < 0 {
		return Mutation{}
	}
	s.cart = append(s.cart[:i], s.cart[i+1:]...)
	return Mutation{Applied: true, Persist: s.persistCart()}
}

// ChangeQty sets qty to max(1, qty+delta), saturating at math.MaxInt.
// Absent ids are a no-op; lines are never removed this way.
func (s *State) ChangeQty(id string, delta int) Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLine(id)
	if i < 0 {
		return Mutation{}
	}
	s.cart[i].Qty = addQty(s.cart[i].Qty, delta)
	return Mutation{Applied: true, Persist: s.persistCart()}
}

func (s *State) ClearCart() Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = []domain.CartLineItem{}
	return Mutation{Applied: true, Persist: s.persistCart()}
}

func (s *State) cartTotal() float64 {
	total := 0.0
	for _, it := range s.cart {
		if p, ok := s.lookup(it.ID); ok {
			total += p.Price * float64(it.Qty)
		}
	}
	return total
}

// CartTotal sums price*qty over lines whose product is in the catalog
func (s *State) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return round2(s.cartTotal())
}

// QuoteTotal the total an order would get with the given shipping method
func (s *State) QuoteTotal(method domain.ShippingMethod) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return round2(s.cartTotal() * method.Multiplier())
}

// Cart returns a copy of the line items in first-added order
func (s *State) Cart() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CopyItems(s.cart)
}

// ItemCount total units in the cart
func (s *State) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount()
}

func (s *State) itemCount() int {
	n := 0
	for _, it := range s.cart {
		if n > math.MaxInt-it.Qty {
			return math.MaxInt
		}
		n += it.Qty
	}
	return n
}

// CartSummary everything the cart view shows, read in one critical section
type CartSummary struct {
	Items    []domain.CartLineItem `json:"items"`
	Lines    []domain.CartLine     `json:"lines"`
	Count    int                   `json:"count"`
	Total    float64               `json:"total"`
	AirTotal float64               `json:"air_total"`
}

// CartSnapshot returns a consistent view of the cart and its totals
func (s *State) CartSnapshot() CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.cartTotal()
	return CartSummary{
		Items:    domain.CopyItems(s.cart),
		Lines:    s.cartLines(),
		Count:    s.itemCount(),
		Total:    round2(total),
		AirTotal: round2(total * domain.ShippingAir.Multiplier()),
	}
}

// CartLines joins the cart with the catalog, skipping lines whose product is unknown
func (s *State) CartLines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLines()
}

func (s *State) cartLines() []domain.CartLine {
	out := make([]domain.CartLine, 0, len(s.cart))
	for _, it := range s.cart {
		p, ok := s.lookup(it.ID)
		if !ok {
			continue
		}
		out = append(out, domain.CartLine{Product: p, Qty: it.Qty, Subtotal: round2(p.Price * float64(it.Qty))})
	}
	return out
}

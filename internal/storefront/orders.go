package storefront

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/store"
	"go.uber.org/zap"
)

// OrderFilter admin review predicate. Zero values match everything.
type OrderFilter struct {
	Query    string
	Shipping domain.ShippingMethod
	Status   domain.OrderStatus
	Since    time.Time
	Until    time.Time
}

func (f OrderFilter) Match(o domain.Order) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hay := strings.ToLower(o.Buyer.Name + " " + o.Buyer.Phone)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if f.Shipping != "" && o.Shipping != f.Shipping {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if !f.Since.IsZero() && o.Date.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && o.Date.After(f.Until) {
		return false
	}
	return true
}

func (s *State) persistHistory() store.Result {
	return s.store.Save(store.KeyHistory, s.history)
}

// SubmitOrder snapshots the cart into a new order at the head of the history,
// then clears the cart. An empty cart is rejected with ErrEmptyCart and
// nothing changes. Total is the unrounded cart sum times the shipping
// multiplier, rounded once to cents, so it equals CartTotal()*multiplier up
// to that rounding.
func (s *State) SubmitOrder(name, phone string, method domain.ShippingMethod) (domain.Order, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if !method.Valid() {
		return domain.Order{}, ErrInvalidShipping
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:       s.ids.NextID(),
		Date:     s.clock().UTC().Truncate(time.Millisecond),
		Buyer:    domain.Buyer{Name: name, Phone: phone},
		Shipping: method,
		Items:    domain.CopyItems(s.cart),
		Total:    round2(s.cartTotal() * method.Multiplier()),
		Status:   domain.StatusNew,
	}

	history := make([]domain.Order, 0, len(s.history)+1)
	history = append(history, order)
	history = append(history, s.history...)
	if len(history) > s.maxOrders {
		zap.L().Info("storefront: order history trimmed",
			zap.Int("dropped", len(history)-s.maxOrders),
			zap.Int("max_orders", s.maxOrders))
		history = history[:s.maxOrders]
	}
	s.history = history
	if res := s.persistHistory(); !res.OK() {
		zap.L().Warn("storefront: order kept in memory only", zap.String("order", order.ID), zap.Error(res.Err))
	}

	s.cart = []domain.CartLineItem{}
	s.persistCart()

	zap.L().Info("order submitted",
		zap.String("order", order.ID),
		zap.String("shipping", string(order.Shipping)),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)))
	s.publish(TopicOrderSubmitted, order)
	return order.Clone(), nil
}

func (s *State) findOrder(id string) int {
	for i, o := range s.history {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) updateStatus(id string, next func(domain.OrderStatus) domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findOrder(id)
	if i < 0 {
		return domain.Order{}, errors.Wrapf(ErrOrderNotFound, "order %s", id)
	}
	s.history[i].Status = next(s.history[i].Status)
	s.persistHistory()
	o := s.history[i].Clone()
	s.publish(TopicOrderStatus, o)
	return o, nil
}

// SetOrderStatus moves an order to new or contacted; any other status is rejected
func (s *State) SetOrderStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, ErrInvalidStatus
	}
	return s.updateStatus(id, func(domain.OrderStatus) domain.OrderStatus { return status })
}

// ToggleOrderStatus flips new <-> contacted
func (s *State) ToggleOrderStatus(id string) (domain.Order, error) {
	return s.updateStatus(id, domain.OrderStatus.Toggle)
}

// FilterOrders returns copies of the matching orders, newest first
func (s *State) FilterOrders(f OrderFilter) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, 0, len(s.history))
	for _, o := range s.history {
		if f.Match(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (s *State) Orders() []domain.Order {
	return s.FilterOrders(OrderFilter{})
}

func (s *State) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findOrder(id); i >= 0 {
		return s.history[i].Clone(), true
	}
	return domain.Order{}, false
}

// ProductName display name for an order line, the id when the product is gone
func (s *State) ProductName(id string) string {
	if p, ok := s.lookup(id); ok {
		return p.Name
	}
	return id
}

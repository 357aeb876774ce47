package storefront

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCatalog map[string]domain.Product

func (m mapCatalog) Product(id string) (domain.Product, bool) {
	p, ok := m[id]
	return p, ok
}

type seqIDs struct{ n int }

func (s *seqIDs) NextID() string {
	s.n++
	return fmt.Sprintf("ORD-%d", s.n)
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testCatalog() mapCatalog {
	return mapCatalog{
		"p1": {ID: "p1", Name: "Dron", Price: 10},
		"p2": {ID: "p2", Name: "Cable \"USB\"", Price: 5},
	}
}

func newTestState(t *testing.T, backend store.Backend) *State {
	t.Helper()
	if backend == nil {
		backend = store.NewMemoryBackend(0)
	}
	s, err := New(Options{
		Store:   store.New(backend),
		Catalog: testCatalog(),
		IDs:     &seqIDs{},
		Clock:   func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return s
}

func TestAddToCartMergesLines(t *testing.T) {
	s := newTestState(t, nil)
	assert.True(t, s.AddToCart("p1").Applied)
	m := s.AddToCart("p1")
	assert.True(t, m.Applied)
	assert.True(t, m.Persist.OK())
	assert.Equal(t, []domain.CartLineItem{{ID: "p1", Qty: 2}}, s.Cart())
}

func TestChangeQtyFloorsAtOne(t *testing.T) {
	s := newTestState(t, nil)
	s.AddToCart("p1")
	s.AddToCart("p1")
	s.ChangeQty("p1", -5)
	assert.Equal(t, []domain.CartLineItem{{ID: "p1", Qty: 1}}, s.Cart())

	s.ChangeQty("p1", 3)
	assert.Equal(t, 4, s.ItemCount())

	m := s.ChangeQty("absent", 1)
	assert.False(t, m.Applied)
	assert.Len(t, s.Cart(), 1)
}

func TestRemoveFromCart(t *testing.T) {
	s := newTestState(t, nil)
	s.AddToCart("p1")
	s.AddToCart("p2")
	assert.False(t, s.RemoveFromCart("p3").Applied)
	assert.True(t, s.RemoveFromCart("p1").Applied)
	assert.Equal(t, []domain.CartLineItem{{ID: "p2", Qty: 1}}, s.Cart())
}

func TestCartInvariantsUnderRandomOps(t *testing.T) {
	s := newTestState(t, nil)
	r := rand.New(rand.NewSource(42))
	ids := []string{"p1", "p2", "p3", "gone"}
	for i := 0; i < 2000; i++ {
		id := ids[r.Intn(len(ids))]
		switch r.Intn(3) {
		case 0:
			s.AddToCart(id)
		case 1:
			s.RemoveFromCart(id)
		case 2:
			s.ChangeQty(id, r.Intn(21)-10)
		}
		seen := map[string]bool{}
		for _, it := range s.Cart() {
			require.False(t, seen[it.ID], "duplicate line %s", it.ID)
			seen[it.ID] = true
			require.GreaterOrEqual(t, it.Qty, 1)
		}
	}
}

func TestCartTotalSkipsUnknownProducts(t *testing.T) {
	s := newTestState(t, nil)
	s.AddToCart("p1")
	s.AddToCart("p1")
	s.AddToCart("p2")
	s.AddToCart("removed")
	assert.Equal(t, 25.0, s.CartTotal())
	assert.Len(t, s.CartLines(), 2)
	assert.Equal(t, 27.5, s.QuoteTotal(domain.ShippingAir))
	assert.Equal(t, 25.0, s.QuoteTotal(domain.ShippingSea))
}

func TestWriteThrough(t *testing.T) {
	mem := store.NewMemoryBackend(0)
	s := newTestState(t, mem)
	s.AddToCart("p1")
	s.AddToCart("p2")
	s.ChangeQty("p2", 2)

	persisted, res := store.Load(store.New(mem), store.KeyCart, []domain.CartLineItem{})
	require.True(t, res.OK())
	assert.Equal(t, s.Cart(), persisted)

	reloaded := newTestState(t, mem)
	assert.Equal(t, s.Cart(), reloaded.Cart())
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	mem := store.NewMemoryBackend(0)
	s := newTestState(t, mem)
	mem.SetQuota(4)

	m := s.AddToCart("p1")
	assert.True(t, m.Applied)
	assert.Equal(t, store.StatusFailed, m.Persist.Status)
	assert.Equal(t, []domain.CartLineItem{{ID: "p1", Qty: 1}}, s.Cart())
}

func TestRestoreSanitizesCart(t *testing.T) {
	mem := store.NewMemoryBackend(0)
	mem.SetRaw(store.KeyCart, []byte(`[{"id":"p1","qty":0},{"id":"p1","qty":2},{"id":"","qty":3}]`))
	mem.SetRaw(store.KeyHistory, []byte(`not json`))
	mem.SetRaw(store.KeyLang, []byte(`"fr"`))

	s := newTestState(t, mem)
	assert.Equal(t, []domain.CartLineItem{{ID: "p1", Qty: 3}}, s.Cart())
	assert.Empty(t, s.Orders())
	assert.Equal(t, domain.LangES, s.Language())
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	s := newTestState(t, nil)
	_, err := s.SubmitOrder("Ana", "555", domain.ShippingSea)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.True(t, IsValidation(err))
	assert.Empty(t, s.Orders())
}

func TestSubmitOrderInvalidShipping(t *testing.T) {
	s := newTestState(t, nil)
	s.AddToCart("p1")
	_, err := s.SubmitOrder("Ana", "555", domain.ShippingMethod("rail"))
	assert.ErrorIs(t, err, ErrInvalidShipping)
	assert.Len(t, s.Cart(), 1)
}

func TestSubmitOrderAir(t *testing.T) {
	mem := store.NewMemoryBackend(0)
	bus := EventBus.New()
	published := make(chan domain.Order, 1)
	require.NoError(t, bus.Subscribe(TopicOrderSubmitted, func(o domain.Order) { published <- o }))

	s, err := New(Options{
		Store:   store.New(mem),
		Catalog: testCatalog(),
		IDs:     &seqIDs{},
		Clock:   func() time.Time { return fixedNow },
		Bus:     bus,
	})
	require.NoError(t, err)

	s.AddToCart("p1")
	s.AddToCart("p1")
	s.AddToCart("p2")
	require.Equal(t, 25.0, s.CartTotal())

	order, err := s.SubmitOrder(" Ana ", "+58 412", domain.ShippingAir)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", order.ID)
	assert.Equal(t, 27.5, order.Total)
	assert.Equal(t, domain.StatusNew, order.Status)
	assert.Equal(t, "Ana", order.Buyer.Name)
	assert.Equal(t, fixedNow, order.Date)
	assert.Empty(t, s.Cart())

	got := <-published
	assert.Equal(t, order.ID, got.ID)

	history, res := store.Load(store.New(mem), store.KeyHistory, []domain.Order{})
	require.True(t, res.OK())
	require.Len(t, history, 1)
	assert.Equal(t, order, history[0])
}

func TestSubmitOrderSnapshotAndPrepend(t *testing.T) {
	s := newTestState(t, nil)
	s.AddToCart("p1")
	first, err := s.SubmitOrder("Ana", "1", domain.ShippingSea)
	require.NoError(t, err)
	assert.Equal(t, 10.0, first.Total)

	s.AddToCart("p1")
	s.ChangeQty("p1", 5)
	second, err := s.SubmitOrder("Luis", "2", domain.ShippingSea)
	require.NoError(t, err)

	s.AddToCart("p1")
	orders := s.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, []domain.CartLineItem{{ID: "p1", Qty: 1}}, orders[1].Items)
	assert.Equal(t, []domain.CartLineItem{{ID: "p1", Qty: 6}}, orders[0].Items)

	// mutating a returned order does not reach history
	orders[0].Items[0].Qty = 99
	assert.Equal(t, 6, s.Orders()[0].Items[0].Qty)
}

func TestHistoryCap(t *testing.T) {
	s, err := New(Options{Catalog: testCatalog(), IDs: &seqIDs{}, MaxOrders: 2})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		s.AddToCart("p1")
		_, err := s.SubmitOrder("Ana", "1", domain.ShippingSea)
		require.NoError(t, err)
	}
	orders := s.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-3", orders[0].ID)
	assert.Equal(t, "ORD-2", orders[1].ID)
}

func TestOrderStatus(t *testing.T) {
	s := newTestState(t, nil)
	s.AddToCart("p1")
	order, err := s.SubmitOrder("Ana", "1", domain.ShippingSea)
	require.NoError(t, err)

	o, err := s.ToggleOrderStatus(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, o.Status)
	o, err = s.ToggleOrderStatus(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, o.Status)

	_, err = s.SetOrderStatus(order.ID, domain.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	o, err = s.SetOrderStatus(order.ID, domain.StatusContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, o.Status)

	_, err = s.ToggleOrderStatus("ORD-404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFilterOrders(t *testing.T) {
	s := newTestState(t, nil)
	place := func(name, phone string, m domain.ShippingMethod) domain.Order {
		s.AddToCart("p1")
		o, err := s.SubmitOrder(name, phone, m)
		require.NoError(t, err)
		return o
	}
	ana := place("Ana Pérez", "+58 412 111", domain.ShippingAir)
	luis := place("Luis", "305 222", domain.ShippingSea)
	_, err := s.ToggleOrderStatus(luis.ID)
	require.NoError(t, err)

	assert.Len(t, s.FilterOrders(OrderFilter{}), 2)
	assert.Equal(t, ana.ID, s.FilterOrders(OrderFilter{Query: "PÉREZ"})[0].ID)
	assert.Equal(t, luis.ID, s.FilterOrders(OrderFilter{Query: "305"})[0].ID)
	assert.Equal(t, ana.ID, s.FilterOrders(OrderFilter{Shipping: domain.ShippingAir})[0].ID)
	assert.Equal(t, luis.ID, s.FilterOrders(OrderFilter{Status: domain.StatusContacted})[0].ID)
	assert.Empty(t, s.FilterOrders(OrderFilter{Query: "nadie"}))
	assert.Empty(t, s.FilterOrders(OrderFilter{Since: fixedNow.Add(time.Hour)}))
	assert.Len(t, s.FilterOrders(OrderFilter{Until: fixedNow}), 2)
}

func TestLanguage(t *testing.T) {
	mem := store.NewMemoryBackend(0)
	s := newTestState(t, mem)
	assert.Equal(t, domain.LangES, s.Language())

	res, err := s.SetLanguage(domain.LangEN)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, domain.LangEN, newTestState(t, mem).Language())

	_, err = s.SetLanguage("fr")
	assert.ErrorIs(t, err, ErrInvalidLanguage)

	assert.Equal(t, domain.LangEN, MatchLanguage("en-US,en;q=0.9"))
	assert.Equal(t, domain.LangES, MatchLanguage("es-VE"))
	assert.Equal(t, domain.LangES, MatchLanguage(""))
}

func TestAdminSessionPersistence(t *testing.T) {
	mem := store.NewMemoryBackend(0)
	s := newTestState(t, mem)
	assert.Nil(t, s.AdminSession())

	s.SetAdminSession(&domain.AdminSession{User: "admin", At: fixedNow})
	assert.Equal(t, "admin", newTestState(t, mem).AdminSession().User)

	s.SetAdminSession(nil)
	assert.Nil(t, newTestState(t, mem).AdminSession())
}

func TestChangeQtySaturates(t *testing.T) {
	s := newTestState(t, nil)
	s.AddToCart("p1")
	s.AddToCart("p1")

	assert.True(t, s.ChangeQty("p1", math.MaxInt).Applied)
	assert.Equal(t, math.MaxInt, s.Cart()[0].Qty)

	s.ChangeQty("p1", 1)
	assert.Equal(t, math.MaxInt, s.Cart()[0].Qty)

	s.AddToCart("p2")
	assert.Equal(t, math.MaxInt, s.ItemCount())

	s.ChangeQty("p1", math.MinInt)
	assert.Equal(t, 1, s.Cart()[0].Qty)
}

func TestSubmitOrderTotalRoundsOnce(t *testing.T) {
	s, err := New(Options{
		Catalog: mapCatalog{"p9": {ID: "p9", Name: "Funda", Price: 10.05}},
		IDs:     &seqIDs{},
		Clock:   func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	s.AddToCart("p9")
	cartTotal := s.CartTotal()

	order, err := s.SubmitOrder("Ana", "1", domain.ShippingAir)
	require.NoError(t, err)
	assert.Equal(t, 11.06, order.Total)
	assert.InDelta(t, cartTotal*domain.AirSurcharge, order.Total, 0.005)
}

func TestCartSnapshotIsConsistent(t *testing.T) {
	s := newTestState(t, nil)
	prices := testCatalog()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for _, id := range []string{"p1", "p2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s.AddToCart(id)
				s.ChangeQty(id, -1)
				s.RemoveFromCart(id)
			}
		}(id)
	}

	for i := 0; i < 500; i++ {
		snap := s.CartSnapshot()
		count, total := 0, 0.0
		for _, it := range snap.Items {
			count += it.Qty
			total += prices[it.ID].Price * float64(it.Qty)
		}
		require.Equal(t, count, snap.Count)
		require.Equal(t, total, snap.Total)
		require.Equal(t, len(snap.Items), len(snap.Lines))
		require.InDelta(t, total*domain.AirSurcharge, snap.AirTotal, 0.005)
	}
	close(stop)
	wg.Wait()
}

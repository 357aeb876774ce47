package admin

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/rgimusa/storefront/internal/domain"
)

type Stats struct {
	Orders          int     `json:"orders"`
	TotalSales      float64 `json:"total_sales"`
	Pending         int     `json:"pending"`
	UniqueCustomers int     `json:"unique_customers"`
	AverageOrder    float64 `json:"average_order"`
	AirOrders       int     `json:"air_orders"`
	SeaOrders       int     `json:"sea_orders"`
}

// ComputeStats aggregates over the given orders. Pending counts status new;
// customers are distinct by phone.
func ComputeStats(orders []domain.Order) Stats {
	st := Stats{Orders: len(orders)}
	totals := make(stats.Float64Data, 0, len(orders))
	phones := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		totals = append(totals, o.Total)
		phones[o.Buyer.Phone] = struct{}{}
		if o.Status == domain.StatusNew {
			st.Pending++
		}
		switch o.Shipping {
		case domain.ShippingAir:
			st.AirOrders++
		case domain.ShippingSea:
			st.SeaOrders++
		}
	}
	st.UniqueCustomers = len(phones)
	if len(totals) == 0 {
		return st
	}
	if sum, err := totals.Sum(); err == nil {
		st.TotalSales = math.Round(sum*100) / 100
	}
	if mean, err := totals.Mean(); err == nil {
		st.AverageOrder = math.Round(mean*100) / 100
	}
	return st
}

// Stats aggregates over the whole order history
func (w *Workflow) Stats() (Stats, error) {
	if err := w.guard(); err != nil {
		return Stats{}, err
	}
	return ComputeStats(w.state.Orders()), nil
}

package domain

import (
	"strings"
	"time"
)

type ShippingMethod string

const (
	ShippingSea ShippingMethod = "sea"
	ShippingAir ShippingMethod = "air"
)

// AirSurcharge multiplier applied to the subtotal for air freight
const AirSurcharge = 1.10

func (m ShippingMethod) Valid() bool {
	return m == ShippingSea || m == ShippingAir
}

// Multiplier the only pricing rule: air adds 10%, sea adds nothing
func (m ShippingMethod) Multiplier() float64 {
	if m == ShippingAir {
		return AirSurcharge
	}
	return 1.0
}

// Label display name used in exports and messages
func (m ShippingMethod) Label() string {
	switch m {
	case ShippingAir:
		return "Aéreo"
	case ShippingSea:
		return "Marítimo"
	}
	return string(m)
}

// ParseShippingMethod accepts the canonical values and the spanish labels
func ParseShippingMethod(s string) (ShippingMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sea", "maritimo", "marítimo":
		return ShippingSea, true
	case "air", "aereo", "aéreo":
		return ShippingAir, true
	}
	return "", false
}

type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusContacted OrderStatus = "contacted"
)

func (s OrderStatus) Valid() bool {
	return s == StatusNew || s == StatusContacted
}

// Toggle flips new <-> contacted
func (s OrderStatus) Toggle() OrderStatus {
	if s == StatusContacted {
		return StatusNew
	}
	return StatusContacted
}

type Buyer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Order a submitted purchase request. Total is fixed at creation.
type Order struct {
	ID       string         `json:"id"`
	Date     time.Time      `json:"date"`
	Buyer    Buyer          `json:"buyer"`
	Shipping ShippingMethod `json:"shipping"`
	Items    []CartLineItem `json:"items"`
	Total    float64        `json:"total"`
	Status   OrderStatus    `json:"status"`
}

// Clone deep copies the order so callers cannot reach the stored item slice
func (o Order) Clone() Order {
	o.Items = CopyItems(o.Items)
	return o
}

// ItemCount total units in the order
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Qty
	}
	return n
}

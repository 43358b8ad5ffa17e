// Package pricing computes booking totals. It holds no state and performs no
// I/O so quotes and bookings are priced identically.
package pricing

import (
	"math"
	"time"

	"hotel/internal/domains/booking/model"
)

const day = 24 * time.Hour

// Nights counts started 24 hour periods between check-in and check-out.
// Equal instants give 0 and an inverted range gives a negative count.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(float64(checkOut.Sub(checkIn)) / float64(day)))
}

func AddOnsTotal(addOns []model.AddOn) float64 {
	var total float64

	for _, addOn := range addOns {
		total += addOn.Price * float64(addOn.Quantity)
	}

	return total
}

// Total is the room price for every night plus all add-ons. No tax or
// service fee is applied.
func Total(price float64, nights int, addOns []model.AddOn) float64 {
	return price*float64(nights) + AddOnsTotal(addOns)
}

type Quote struct {
	Nights       int     `json:"nights"`
	RoomPrice    float64 `json:"room_price"`
	RoomSubtotal float64 `json:"room_subtotal"`
	AddOnsTotal  float64 `json:"add_ons_total"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// Subtotal is the amount a discount is computed against.
func (q Quote) Subtotal() float64 {
	return q.RoomSubtotal + q.AddOnsTotal
}

// NewQuote prices a stay before any discount.
func NewQuote(price float64, nights int, addOns []model.AddOn) Quote {
	quote := Quote{
		Nights:       nights,
		RoomPrice:    price,
		RoomSubtotal: price * float64(nights),
		AddOnsTotal:  AddOnsTotal(addOns),
	}
	quote.Total = quote.Subtotal()

	return quote
}

// WithDiscount takes discount off the subtotal without going below zero.
func (q Quote) WithDiscount(discount float64) Quote {
	q.Discount = math.Min(math.Max(discount, 0), q.Subtotal())
	q.Total = q.Subtotal() - q.Discount

	return q
}

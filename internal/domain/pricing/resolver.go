package pricing

import (
	"context"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

// neutralMultiplier is the seasonal multiplier for nights no slab covers.
const neutralMultiplier = 100

// Quoter prices a stay for a room. Implementations must be pure reads.
type Quoter interface {
	Quote(ctx context.Context, room *rooms.Room, dr daterange.DateRange) (PriceBreakdown, error)
}

// Resolver computes the price of a stay from the room's base price and the
// hotel's slab set. It is a pure read: same room, range and slab set always
// produce the same breakdown, and an empty slab set is not an error.
type Resolver struct {
	slabs SlabRepository
}

func NewResolver(slabs SlabRepository) *Resolver {
	return &Resolver{slabs: slabs}
}

// Quote prices the stay. Per night, the largest matching seasonal multiplier
// wins; across the stay, the largest matching duration discount wins and is
// applied once to the subtotal. Both tie-breaks deliberately favor the larger
// adjustment so that overlapping slabs can never under-price a night.
func (r *Resolver) Quote(ctx context.Context, room *rooms.Room, dr daterange.DateRange) (PriceBreakdown, error) {
	slabs, err := r.slabs.ListByHotel(ctx, room.HotelID)
	if err != nil {
		return PriceBreakdown{}, err
	}

	nights := dr.Nights()
	subtotal := room.BasePricePerNight
	subtotal.Amount = 0
	dr.EachNight(func(night time.Time) bool {
		multiplier := nightMultiplier(slabs, night)
		nightly := room.BasePricePerNight.Percent(multiplier)
		subtotal.Amount += nightly.Amount
		return true
	})

	breakdown := PriceBreakdown{
		Nights:   nights,
		Subtotal: subtotal,
	}
	if discount := stayDiscount(slabs, nights); discount > 0 {
		breakdown.Discounts = append(breakdown.Discounts, Discount{
			Name:    "duration",
			Percent: discount,
			Amount:  subtotal.Percent(discount),
		})
	}
	if err := breakdown.RecalculateTotal(); err != nil {
		return PriceBreakdown{}, err
	}
	return breakdown, nil
}

func nightMultiplier(slabs []PriceSlab, night time.Time) int {
	multiplier := 0
	for _, slab := range slabs {
		if !slab.AppliesToNight(night) {
			continue
		}
		if slab.MultiplierPercent > multiplier {
			multiplier = slab.MultiplierPercent
		}
	}
	if multiplier <= 0 {
		return neutralMultiplier
	}
	return multiplier
}

func stayDiscount(slabs []PriceSlab, nights int) int {
	discount := 0
	for _, slab := range slabs {
		if !slab.AppliesToStay(nights) {
			continue
		}
		if slab.DiscountPercent > discount {
			discount = slab.DiscountPercent
		}
	}
	if discount > 100 {
		discount = 100
	}
	return discount
}

package pricing

import (
	"context"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

type SlabID string

type SlabKind string

const (
	SlabSeasonal SlabKind = "SEASONAL"
	SlabDuration SlabKind = "DURATION"
)

// PriceSlab is a pricing rule owned by hotel management and read-only to the
// engine. Seasonal slabs scale the base nightly price for nights inside their
// inclusive [StartDate, EndDate] window; duration slabs discount the whole
// stay when its length falls inside [MinNights, MaxNights].
type PriceSlab struct {
	ID      SlabID
	HotelID rooms.HotelID
	Kind    SlabKind

	// Seasonal fields. MultiplierPercent is an integer percent of the base
	// price: 100 is neutral, 150 means 1.5x.
	StartDate         time.Time
	EndDate           time.Time
	MultiplierPercent int

	// Duration fields. DiscountPercent is applied once to the stay subtotal.
	MinNights       int
	MaxNights       int
	DiscountPercent int
}

// AppliesToNight reports whether a seasonal slab covers the given calendar
// night. The window is inclusive on both ends, unlike a stay range.
func (s PriceSlab) AppliesToNight(night time.Time) bool {
	if s.Kind != SlabSeasonal {
		return false
	}
	night = daterange.Day(night)
	return !night.Before(daterange.Day(s.StartDate)) && !night.After(daterange.Day(s.EndDate))
}

// AppliesToStay reports whether a duration slab covers a stay of the given
// length, boundaries included.
func (s PriceSlab) AppliesToStay(nights int) bool {
	if s.Kind != SlabDuration {
		return false
	}
	return nights >= s.MinNights && nights <= s.MaxNights
}

// SlabRepository loads the slab set for a hotel. Slabs change rarely, so
// implementations are free to cache; invalidation on slab edits belongs to
// the hotel-management collaborator.
type SlabRepository interface {
	ListByHotel(ctx context.Context, hotelID rooms.HotelID) ([]PriceSlab, error)
	Save(ctx context.Context, slab PriceSlab) error
}

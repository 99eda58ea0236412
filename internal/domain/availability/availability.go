// Package availability derives free-room counts from the booking ledger.
// Occupancy is always recomputed from ledger rows rather than kept as a
// maintained counter, so there is no second source of truth to drift.
package availability

import (
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

// FreeRooms returns the minimum number of unbooked rooms across every night
// of the half-open range. A booking checking out on day X does not occupy
// night X. Cancelled bookings never count.
func FreeRooms(room *rooms.Room, ledger []*booking.Booking, dr daterange.DateRange) int {
	free := room.TotalCount
	dr.EachNight(func(night time.Time) bool {
		remaining := room.TotalCount - occupiedOnNight(room.ID, ledger, night)
		if remaining < free {
			free = remaining
		}
		return free > 0
	})
	if free < 0 {
		return 0
	}
	return free
}

// CanAccommodate reports whether requestedRooms fit on every night of the
// range. A request beyond the room's physical count always fails, whatever
// the occupancy.
func CanAccommodate(room *rooms.Room, ledger []*booking.Booking, dr daterange.DateRange, requestedRooms int) bool {
	if requestedRooms < 1 || requestedRooms > room.TotalCount {
		return false
	}
	return FreeRooms(room, ledger, dr) >= requestedRooms
}

func occupiedOnNight(roomID rooms.RoomID, ledger []*booking.Booking, night time.Time) int {
	occupied := 0
	for _, b := range ledger {
		if b.RoomID != roomID || !b.Occupies() {
			continue
		}
		if b.Range.ContainsNight(night) {
			occupied += b.RoomsBooked
		}
	}
	return occupied
}

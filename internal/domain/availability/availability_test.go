package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

func testRoom(total int) *rooms.Room {
	return &rooms.Room{
		ID:                "room-1",
		HotelID:           "hotel-1",
		Name:              "Standard",
		BasePricePerNight: money.Must(10000, "USD"),
		TotalCount:        total,
		CapacityPerRoom:   2,
	}
}

func ledgerEntry(t *testing.T, id string, in, out string, roomsBooked int) *booking.Booking {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	require.NoError(t, err)
	b, err := booking.NewBooking(booking.CreateParams{
		ID:          booking.BookingID(id),
		RoomID:      "room-1",
		HotelID:     "hotel-1",
		UserID:      "user-1",
		Range:       dr,
		RoomsBooked: roomsBooked,
		GuestCount:  roomsBooked,
		Price:       pricing.PriceBreakdown{Nights: dr.Nights(), Subtotal: money.Must(10000, "USD")},
		CreatedAt:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func mustRange(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return dr
}

func TestFreeRoomsEmptyLedger(t *testing.T) {
	free := FreeRooms(testRoom(5), nil, mustRange(t, "2025-06-01", "2025-06-04"))
	assert.Equal(t, 5, free)
}

func TestFreeRoomsIsMinimumAcrossNights(t *testing.T) {
	ledger := []*booking.Booking{
		ledgerEntry(t, "bk-1", "2025-06-01", "2025-06-03", 1),
		ledgerEntry(t, "bk-2", "2025-06-02", "2025-06-05", 2),
	}
	// Night occupancy: 6/1 is 1, 6/2 is 3, 6/3 and 6/4 are 2.
	free := FreeRooms(testRoom(5), ledger, mustRange(t, "2025-06-01", "2025-06-05"))
	assert.Equal(t, 2, free)
}

func TestFreeRoomsCheckOutDayReleasesNight(t *testing.T) {
	ledger := []*booking.Booking{
		ledgerEntry(t, "bk-1", "2025-06-01", "2025-06-04", 1),
	}
	free := FreeRooms(testRoom(1), ledger, mustRange(t, "2025-06-04", "2025-06-07"))
	assert.Equal(t, 1, free, "back-to-back stay must fit")
}

func TestFreeRoomsIgnoresCancelled(t *testing.T) {
	cancelled := ledgerEntry(t, "bk-1", "2025-06-01", "2025-06-04", 2)
	require.NoError(t, cancelled.Cancel("guest request", time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC)))

	free := FreeRooms(testRoom(2), []*booking.Booking{cancelled}, mustRange(t, "2025-06-01", "2025-06-04"))
	assert.Equal(t, 2, free)
}

func TestFreeRoomsCountsCheckedOutHistory(t *testing.T) {
	past := ledgerEntry(t, "bk-1", "2025-06-01", "2025-06-04", 1)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, past.CheckIn(now))
	require.NoError(t, past.CheckOut(now.Add(72*time.Hour)))

	free := FreeRooms(testRoom(1), []*booking.Booking{past}, mustRange(t, "2025-06-02", "2025-06-03"))
	assert.Equal(t, 0, free, "completed stays still occupy their past nights")
}

func TestFreeRoomsNeverNegative(t *testing.T) {
	ledger := []*booking.Booking{
		ledgerEntry(t, "bk-1", "2025-06-01", "2025-06-04", 2),
		ledgerEntry(t, "bk-2", "2025-06-01", "2025-06-04", 2),
	}
	free := FreeRooms(testRoom(3), ledger, mustRange(t, "2025-06-01", "2025-06-04"))
	assert.Equal(t, 0, free)
}

func TestCanAccommodate(t *testing.T) {
	room := testRoom(2)
	dr := mustRange(t, "2025-06-01", "2025-06-04")

	assert.True(t, CanAccommodate(room, nil, dr, 2))
	assert.False(t, CanAccommodate(room, nil, dr, 3), "beyond physical inventory")
	assert.False(t, CanAccommodate(room, nil, dr, 0))

	ledger := []*booking.Booking{ledgerEntry(t, "bk-1", "2025-06-02", "2025-06-03", 1)}
	assert.True(t, CanAccommodate(room, ledger, dr, 1))
	assert.False(t, CanAccommodate(room, ledger, dr, 2))
}

package booking

import (
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

type BookingReserved struct {
	BookingID   BookingID
	RoomID      rooms.RoomID
	HotelID     rooms.HotelID
	UserID      string
	Range       daterange.DateRange
	RoomsBooked int
	Total       money.Money
	At          time.Time
}

func (e BookingReserved) EventName() string     { return "booking.reserved" }
func (e BookingReserved) AggregateID() string   { return string(e.BookingID) }
func (e BookingReserved) OccurredAt() time.Time { return e.At }

type BookingCheckedIn struct {
	BookingID BookingID
	RoomID    rooms.RoomID
	At        time.Time
}

func (e BookingCheckedIn) EventName() string     { return "booking.checked_in" }
func (e BookingCheckedIn) AggregateID() string   { return string(e.BookingID) }
func (e BookingCheckedIn) OccurredAt() time.Time { return e.At }

type BookingCheckedOut struct {
	BookingID BookingID
	RoomID    rooms.RoomID
	At        time.Time
}

func (e BookingCheckedOut) EventName() string     { return "booking.checked_out" }
func (e BookingCheckedOut) AggregateID() string   { return string(e.BookingID) }
func (e BookingCheckedOut) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID   BookingID
	RoomID      rooms.RoomID
	RoomsBooked int
	Reason      string
	At          time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type PaymentStatusChanged struct {
	BookingID     BookingID
	PaymentStatus PaymentStatus
	At            time.Time
}

func (e PaymentStatusChanged) EventName() string     { return "booking.payment_updated" }
func (e PaymentStatusChanged) AggregateID() string   { return string(e.BookingID) }
func (e PaymentStatusChanged) OccurredAt() time.Time { return e.At }

package dto

import (
	"time"

	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

// Dates cross the API as ISO-8601 calendar dates; amounts as integer cents.

type MoneyDTO struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type BookingSummary struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"room_id"`
	HotelID       string    `json:"hotel_id"`
	UserID        string    `json:"user_id"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	Nights        int       `json:"nights"`
	RoomsBooked   int       `json:"rooms_booked"`
	GuestCount    int       `json:"guest_count"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   MoneyDTO  `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		AmountCents: value.Amount,
		Currency:    value.Currency,
	}
}

func MapBookingSummary(b *domainbooking.Booking) BookingSummary {
	return BookingSummary{
		ID:            string(b.ID),
		RoomID:        string(b.RoomID),
		HotelID:       string(b.HotelID),
		UserID:        b.UserID,
		CheckIn:       b.Range.CheckIn.Format(daterange.ISODate),
		CheckOut:      b.Range.CheckOut.Format(daterange.ISODate),
		Nights:        b.Range.Nights(),
		RoomsBooked:   b.RoomsBooked,
		GuestCount:    b.GuestCount,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		TotalAmount:   MapMoney(b.Price.Total),
		CreatedAt:     b.CreatedAt,
	}
}

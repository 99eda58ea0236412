package dto

import (
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
)

type PriceQuote struct {
	RoomID          string   `json:"room_id"`
	CheckIn         string   `json:"check_in"`
	CheckOut        string   `json:"check_out"`
	Nights          int      `json:"nights"`
	Subtotal        MoneyDTO `json:"subtotal"`
	AverageNightly  MoneyDTO `json:"average_nightly"`
	DiscountPercent int      `json:"discount_percent,omitempty"`
}

func MapPriceQuote(roomID, checkIn, checkOut string, breakdown domainpricing.PriceBreakdown) PriceQuote {
	quote := PriceQuote{
		RoomID:         roomID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Nights:         breakdown.Nights,
		Subtotal:       MapMoney(breakdown.StaySubtotal()),
		AverageNightly: MapMoney(breakdown.AverageNightly()),
	}
	for _, discount := range breakdown.Discounts {
		if discount.Percent > quote.DiscountPercent {
			quote.DiscountPercent = discount.Percent
		}
	}
	return quote
}

package rooms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

var (
	ErrRoomNotFound  = errors.New("rooms: room not found")
	ErrTotalCount    = errors.New("rooms: total count must be at least 1")
	ErrCapacity      = errors.New("rooms: capacity per room must be at least 1")
	ErrBasePrice     = errors.New("rooms: base price per night must be positive")
	ErrHotelRequired = errors.New("rooms: hotel id is required")
	ErrNameRequired  = errors.New("rooms: name is required")
)

type RoomID string
type HotelID string

// Room describes one physical room type of a hotel: how many identical rooms
// exist and what a night costs before any slab applies. Hotel management owns
// these records; the booking engine only reads them.
type Room struct {
	ID                RoomID
	HotelID           HotelID
	Name              string
	BasePricePerNight money.Money
	TotalCount        int
	CapacityPerRoom   int
	Amenities         []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Repository is the room inventory store. The engine never mutates inventory;
// Save exists for fixtures and the hotel-management collaborator.
type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	ListByHotel(ctx context.Context, hotelID HotelID) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
}

type CreateParams struct {
	ID                RoomID
	HotelID           HotelID
	Name              string
	BasePricePerNight money.Money
	TotalCount        int
	CapacityPerRoom   int
	Amenities         []string
	Now               time.Time
}

func NewRoom(params CreateParams) (*Room, error) {
	if strings.TrimSpace(string(params.HotelID)) == "" {
		return nil, ErrHotelRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if params.TotalCount < 1 {
		return nil, ErrTotalCount
	}
	if params.CapacityPerRoom < 1 {
		return nil, ErrCapacity
	}
	if params.BasePricePerNight.Amount <= 0 || params.BasePricePerNight.Currency == "" {
		return nil, ErrBasePrice
	}
	now := params.Now.UTC()
	return &Room{
		ID:                params.ID,
		HotelID:           params.HotelID,
		Name:              params.Name,
		BasePricePerNight: params.BasePricePerNight,
		TotalCount:        params.TotalCount,
		CapacityPerRoom:   params.CapacityPerRoom,
		Amenities:         append([]string(nil), params.Amenities...),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// MaxGuests is the guest ceiling for a given number of booked rooms.
func (r *Room) MaxGuests(roomsBooked int) int {
	if roomsBooked < 0 {
		return 0
	}
	return roomsBooked * r.CapacityPerRoom
}

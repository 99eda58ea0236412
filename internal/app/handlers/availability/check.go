// Package availability exposes the free-room calculation as a read-side query.
package availability

import (
	"context"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	handlersupport "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/support"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/queries"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainavailability "github.com/Jayu-patel/hotels-management-sub000/internal/domain/availability"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

type CheckAvailabilityQuery struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func (q CheckAvailabilityQuery) Key() string { return "availability.check" }

// CheckAvailabilityHandler answers how many rooms of a type are free for the
// whole range. The count it returns is advisory: only the reservation append
// inside a unit of work decides whether a booking actually fits.
type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, query CheckAvailabilityQuery) (*dto.RoomAvailability, error) {
	dr, err := daterange.New(query.CheckIn, query.CheckOut)
	if err != nil {
		return nil, err
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	room, err := unit.Rooms().ByID(execCtx, domainrooms.RoomID(query.RoomID))
	if err != nil {
		return nil, err
	}
	snapshot, err := unit.Bookings().SnapshotRoom(execCtx, room.ID, dr)
	if err != nil {
		return nil, err
	}

	return &dto.RoomAvailability{
		RoomID:    string(room.ID),
		CheckIn:   dr.CheckIn.Format(daterange.ISODate),
		CheckOut:  dr.CheckOut.Format(daterange.ISODate),
		Available: domainavailability.FreeRooms(room, snapshot.Bookings, dr),
	}, nil
}

var _ queries.Handler[CheckAvailabilityQuery, *dto.RoomAvailability] = (*CheckAvailabilityHandler)(nil)

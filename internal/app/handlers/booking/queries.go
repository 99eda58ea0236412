package booking

import (
	"context"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	handlersupport "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/support"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/queries"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
)

type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return "booking.get" }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetBookingHandler) Handle(ctx context.Context, query GetBookingQuery) (*dto.BookingSummary, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(query.BookingID))
	if err != nil {
		return nil, err
	}
	summary := dto.MapBookingSummary(b)
	return &summary, nil
}

type ListUserBookingsQuery struct {
	UserID string
}

func (q ListUserBookingsQuery) Key() string { return "booking.list_by_user" }

type ListUserBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListUserBookingsHandler) Handle(ctx context.Context, query ListUserBookingsQuery) (*dto.BookingCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Bookings().ListByUser(execCtx, query.UserID)
	if err != nil {
		return nil, err
	}
	collection := &dto.BookingCollection{Items: make([]dto.BookingSummary, 0, len(items))}
	for _, b := range items {
		collection.Items = append(collection.Items, dto.MapBookingSummary(b))
	}
	return collection, nil
}

var _ queries.Handler[GetBookingQuery, *dto.BookingSummary] = (*GetBookingHandler)(nil)
var _ queries.Handler[ListUserBookingsQuery, *dto.BookingCollection] = (*ListUserBookingsHandler)(nil)

// Package pricing exposes the slab resolver as a read-side quote query.
package pricing

import (
	"context"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	handlersupport "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/support"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/queries"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

type QuotePriceQuery struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func (q QuotePriceQuery) Key() string { return "pricing.quote" }

// QuotePriceHandler prices a hypothetical stay for one room unit. Quoting
// never writes: the same inputs against the same slab set always produce the
// same breakdown.
type QuotePriceHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QuotePriceHandler) Handle(ctx context.Context, query QuotePriceQuery) (*dto.PriceQuote, error) {
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
	breakdown, err := unit.Pricing().Quote(execCtx, room, dr)
	if err != nil {
		return nil, err
	}

	quote := dto.MapPriceQuote(
		string(room.ID),
		dr.CheckIn.Format(daterange.ISODate),
		dr.CheckOut.Format(daterange.ISODate),
		breakdown,
	)
	return &quote, nil
}

var _ queries.Handler[QuotePriceQuery, *dto.PriceQuote] = (*QuotePriceHandler)(nil)

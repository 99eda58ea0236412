package booking

import (
	"context"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/outbox"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
)

const setPaymentStatusKey = "booking.payment.set"

type SetPaymentStatusCommand struct {
	BookingID string
	Target    string
}

func (c SetPaymentStatusCommand) Key() string { return setPaymentStatusKey }

type SetPaymentStatusResult struct {
	Booking dto.BookingSummary `json:"booking"`
}

// SetPaymentStatusHandler applies payment outcomes reported by the external
// payment collaborator. Payment status moves independently of the stay
// status: a paid booking stays Confirmed until check-in.
type SetPaymentStatusHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SetPaymentStatusHandler) Handle(ctx context.Context, cmd SetPaymentStatusCommand) (*SetPaymentStatusResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	target, err := domainbooking.ParsePaymentStatus(cmd.Target)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if err := b.SetPaymentStatus(target, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &SetPaymentStatusResult{Booking: dto.MapBookingSummary(b)}, nil
}

func (h *SetPaymentStatusHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[SetPaymentStatusCommand, *SetPaymentStatusResult] = (*SetPaymentStatusHandler)(nil)

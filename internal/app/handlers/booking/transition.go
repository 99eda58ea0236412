package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/outbox"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/policies"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
)

const transitionBookingKey = "booking.transition"

type TransitionBookingCommand struct {
	BookingID string
	Target    string
	Reason    string
}

func (c TransitionBookingCommand) Key() string { return transitionBookingKey }

type TransitionBookingResult struct {
	Booking         dto.BookingSummary `json:"booking"`
	AlreadyTerminal bool               `json:"already_terminal,omitempty"`
}

// TransitionBookingHandler drives the booking state machine. Illegal edges
// never mutate state; cancelling an already-cancelled booking is reported as
// already-terminal without a write. Cancelling a paid booking triggers a
// refund through the payments collaborator before the save.
type TransitionBookingHandler struct {
	UoWFactory uow.UoWFactory
	Payments   policies.PaymentsPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *TransitionBookingHandler) Handle(ctx context.Context, cmd TransitionBookingCommand) (*TransitionBookingResult, error) {
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

	target, err := domainbooking.ParseStatus(cmd.Target)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transitionErr := b.TransitionTo(target, cmd.Reason, now)
	if errors.Is(transitionErr, domainbooking.ErrAlreadyCancelled) {
		return &TransitionBookingResult{Booking: dto.MapBookingSummary(b), AlreadyTerminal: true}, nil
	}
	if transitionErr != nil {
		return nil, transitionErr
	}

	if target == domainbooking.StatusCancelled && b.PaymentStatus == domainbooking.PaymentPaid && h.Payments != nil {
		if err := h.Payments.Refund(ctx, string(b.ID), b.Price.Total); err != nil {
			return nil, err
		}
		if err := b.MarkRefunded(now); err != nil {
			return nil, err
		}
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

	return &TransitionBookingResult{Booking: dto.MapBookingSummary(b)}, nil
}

func (h *TransitionBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[TransitionBookingCommand, *TransitionBookingResult] = (*TransitionBookingHandler)(nil)

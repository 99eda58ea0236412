package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/outbox"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
)

const cancelStalePendingKey = "booking.payment.sweep"

type CancelStalePendingCommand struct {
	GracePeriod time.Duration
}

func (c CancelStalePendingCommand) Key() string { return cancelStalePendingKey }

type CancelStalePendingResult struct {
	CancelledIDs []string `json:"cancelled_ids"`
}

// CancelStalePendingHandler cancels Confirmed bookings whose payment stayed
// Pending beyond the grace period, releasing their inventory. Deployments
// that never dispatch this command keep the hold-until-explicit-cancel
// behavior.
type CancelStalePendingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CancelStalePendingHandler) Handle(ctx context.Context, cmd CancelStalePendingCommand) (*CancelStalePendingResult, error) {
	if cmd.GracePeriod <= 0 {
		return nil, errors.New("booking: grace period must be positive")
	}
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

	now := time.Now().UTC()
	cutoff := now.Add(-cmd.GracePeriod)
	stale, err := unit.Bookings().ListPendingPaymentBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &CancelStalePendingResult{}
	for _, b := range stale {
		if err := b.Cancel("payment grace period expired", now); err != nil {
			// A concurrent cancel or check-in may have won; skip, don't fail the sweep.
			if h.Logger != nil {
				h.Logger.Warn("stale booking not cancellable", "booking_id", b.ID, "status", b.Status, "error", err)
			}
			continue
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return nil, err
		}
		pending := b.PendingEvents()
		b.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
			return nil, err
		}
		result.CancelledIDs = append(result.CancelledIDs, string(b.ID))
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return result, nil
}

func (h *CancelStalePendingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CancelStalePendingCommand, *CancelStalePendingResult] = (*CancelStalePendingHandler)(nil)

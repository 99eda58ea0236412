package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	BookingApp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/booking"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
)

// PaymentEventHandler consumes events published by the payment collaborator
// and applies the outcome to the booking. A failed payment cancels the
// booking so its rooms return to the pool.
type PaymentEventHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type paymentEvent struct {
	Type string `json:"type"`
	Data struct {
		BookingID string `json:"booking_id"`
	} `json:"data"`
}

func (h PaymentEventHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt paymentEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("payment event unmarshal failed", "topic", msg.Topic, "error", err)
		}
		// Malformed payloads cannot succeed on retry.
		return nil
	}

	var err error
	switch evt.Type {
	case "payment.succeeded.v1":
		cmd := BookingApp.SetPaymentStatusCommand{
			BookingID: evt.Data.BookingID,
			Target:    string(domainbooking.PaymentPaid),
		}
		_, err = commands.Dispatch[BookingApp.SetPaymentStatusCommand, *BookingApp.SetPaymentStatusResult](ctx, h.Commands, cmd)
	case "payment.failed.v1":
		cmd := BookingApp.TransitionBookingCommand{
			BookingID: evt.Data.BookingID,
			Target:    string(domainbooking.StatusCancelled),
			Reason:    "payment failed",
		}
		_, err = commands.Dispatch[BookingApp.TransitionBookingCommand, *BookingApp.TransitionBookingResult](ctx, h.Commands, cmd)
	default:
		return nil
	}
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("payment event handling failed", "type", evt.Type, "booking_id", evt.Data.BookingID, "error", err)
		}
		return err
	}
	return nil
}

var _ MessageHandler = PaymentEventHandler{}

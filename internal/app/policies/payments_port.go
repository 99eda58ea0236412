package policies

import (
	"context"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

// PaymentsPort is the external payment collaborator. The engine never talks
// a gateway protocol itself; it only asks for refunds when a paid booking is
// cancelled and learns about payment outcomes through the webhook consumer.
type PaymentsPort interface {
	Refund(ctx context.Context, bookingID string, amount money.Money) error
}

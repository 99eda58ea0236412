package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrange "github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

func seedAged(t *testing.T, env *testEnv, id string, age time.Duration) {
	t.Helper()
	dr, err := domainrange.Parse("2027-06-01", "2027-06-04")
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(id),
		RoomID:      "room-1",
		HotelID:     "hotel-1",
		UserID:      "user-1",
		Range:       dr,
		RoomsBooked: 1,
		GuestCount:  1,
		Price:       domainpricing.PriceBreakdown{Nights: dr.Nights(), Subtotal: money.Must(10000, "USD")},
		CreatedAt:   time.Now().Add(-age),
	})
	require.NoError(t, err)
	snapshot, err := env.ledger.SnapshotRoom(context.Background(), "room-1", dr)
	require.NoError(t, err)
	require.NoError(t, env.ledger.AppendReservation(context.Background(), b, snapshot.Sequence))
}

func TestSweepCancelsOnlyStalePendingBookings(t *testing.T) {
	env := newTestEnv(t, 5)
	seedAged(t, env, "bk-stale", 2*time.Hour)
	seedAged(t, env, "bk-fresh", 5*time.Minute)
	seedAged(t, env, "bk-paid", 3*time.Hour)

	paid, err := env.ledger.ByID(context.Background(), "bk-paid")
	require.NoError(t, err)
	require.NoError(t, paid.MarkPaid(time.Now()))
	require.NoError(t, env.ledger.Save(context.Background(), paid))

	handler := &CancelStalePendingHandler{UoWFactory: env.factory, Outbox: env.outbox}
	result, err := handler.Handle(context.Background(), CancelStalePendingCommand{GracePeriod: time.Hour})
	require.NoError(t, err)
	require.Equal(t, []string{"bk-stale"}, result.CancelledIDs)

	stale, err := env.ledger.ByID(context.Background(), "bk-stale")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, stale.Status)

	fresh, err := env.ledger.ByID(context.Background(), "bk-fresh")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusConfirmed, fresh.Status)

	kept, err := env.ledger.ByID(context.Background(), "bk-paid")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusConfirmed, kept.Status)
	assert.Equal(t, domainbooking.PaymentPaid, kept.PaymentStatus)
}

func TestSweepRejectsNonPositiveGrace(t *testing.T) {
	env := newTestEnv(t, 1)
	handler := &CancelStalePendingHandler{UoWFactory: env.factory, Outbox: env.outbox}
	_, err := handler.Handle(context.Background(), CancelStalePendingCommand{})
	assert.Error(t, err)
}

package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

func testBooking(t *testing.T) *Booking {
	t.Helper()
	dr, err := daterange.Parse("2025-06-01", "2025-06-04")
	require.NoError(t, err)
	b, err := NewBooking(CreateParams{
		ID:          "bk-1",
		RoomID:      "room-1",
		HotelID:     "hotel-1",
		UserID:      "user-1",
		Range:       dr,
		RoomsBooked: 2,
		GuestCount:  3,
		Price: pricing.PriceBreakdown{
			Nights:   3,
			Subtotal: money.Must(30000, "USD"),
		},
		CreatedAt: time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNewBookingStartsConfirmedPending(t *testing.T) {
	b := testBooking(t)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	assert.True(t, b.Occupies())

	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.reserved", events[0].EventName())
}

func TestCheckInOnlyOnOrAfterArrival(t *testing.T) {
	b := testBooking(t)

	tooEarly := time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, b.CheckIn(tooEarly), ErrCheckInTooEarly)
	assert.Equal(t, StatusConfirmed, b.Status)

	arrival := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	require.NoError(t, b.CheckIn(arrival))
	assert.Equal(t, StatusCheckedIn, b.Status)
}

func TestCheckOutRequiresCheckedIn(t *testing.T) {
	b := testBooking(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, b.CheckOut(now), ErrInvalidState)
	assert.Equal(t, StatusConfirmed, b.Status)

	require.NoError(t, b.CheckIn(now))
	require.NoError(t, b.CheckOut(now.Add(48*time.Hour)))
	assert.Equal(t, StatusCheckedOut, b.Status)
	assert.True(t, b.Occupies(), "checked-out stays keep their ledger nights")
}

func TestCancelFromConfirmedAndCheckedIn(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	b := testBooking(t)
	require.NoError(t, b.Cancel("guest request", now))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.False(t, b.Occupies())

	b = testBooking(t)
	require.NoError(t, b.CheckIn(now))
	require.NoError(t, b.Cancel("cut short", now))
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestCancelTwiceReportsAlreadyCancelled(t *testing.T) {
	b := testBooking(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, b.Cancel("guest request", now))
	updated := b.UpdatedAt

	err := b.Cancel("again", now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, updated, b.UpdatedAt, "second cancel must not mutate")
}

func TestCancelAfterCheckOutFails(t *testing.T) {
	b := testBooking(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.CheckIn(now))
	require.NoError(t, b.CheckOut(now.Add(48*time.Hour)))

	assert.ErrorIs(t, b.Cancel("too late", now.Add(72*time.Hour)), ErrInvalidState)
	assert.Equal(t, StatusCheckedOut, b.Status)
}

func TestTransitionToCancelledCarriesReason(t *testing.T) {
	b := testBooking(t)
	b.ClearEvents()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, b.TransitionTo(StatusCancelled, "guest request", now))

	events := b.PendingEvents()
	require.Len(t, events, 1)
	cancelled, ok := events[0].(BookingCancelled)
	require.True(t, ok)
	assert.Equal(t, "guest request", cancelled.Reason)
}

func TestTransitionToRejectsIllegalEdges(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	b := testBooking(t)
	assert.ErrorIs(t, b.TransitionTo(StatusCheckedOut, "", now), ErrInvalidState)
	assert.ErrorIs(t, b.TransitionTo(StatusConfirmed, "", now), ErrInvalidState)
	assert.ErrorIs(t, b.TransitionTo(Status("NAPPING"), "", now), ErrUnknownStatus)
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestPaymentTransitions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	b := testBooking(t)
	require.NoError(t, b.MarkPaid(now))
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.ErrorIs(t, b.MarkPaid(now), ErrInvalidPaymentState)

	require.NoError(t, b.MarkRefunded(now))
	assert.Equal(t, PaymentRefunded, b.PaymentStatus)
	assert.ErrorIs(t, b.MarkRefunded(now), ErrInvalidPaymentState)

	b = testBooking(t)
	require.NoError(t, b.MarkRefunded(now), "pending payments can be refunded directly")
}

func TestPaymentIndependentOfStayStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := testBooking(t)
	require.NoError(t, b.MarkPaid(now))
	assert.Equal(t, StatusConfirmed, b.Status)

	require.NoError(t, b.Cancel("guest request", now))
	assert.Equal(t, PaymentPaid, b.PaymentStatus, "cancel alone does not touch payment")
}

func TestValidateDateRangeRejectsPastCheckIn(t *testing.T) {
	dr, err := daterange.Parse("2025-06-01", "2025-06-04")
	require.NoError(t, err)

	assert.ErrorIs(t, ValidateDateRange(dr, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)), ErrCheckInInPast)
	assert.NoError(t, ValidateDateRange(dr, time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)))
	assert.NoError(t, ValidateDateRange(dr, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)))
}

func TestParseStatusAndPaymentStatus(t *testing.T) {
	status, err := ParseStatus(" checked_in ")
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, status)

	_, err = ParseStatus("UNKNOWN")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	payment, err := ParsePaymentStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, payment)

	_, err = ParsePaymentStatus("VOID")
	assert.ErrorIs(t, err, ErrUnknownPaymentStatus)
}

func TestKindOfClassification(t *testing.T) {
	kind, ok := KindOf(ErrInsufficientAvailability)
	require.True(t, ok)
	assert.Equal(t, KindInsufficientAvailability, kind)

	kind, ok = KindOf(ErrConflict)
	require.True(t, ok)
	assert.Equal(t, KindConcurrencyConflict, kind)

	kind, ok = KindOf(daterange.ErrEmptyRange)
	require.True(t, ok)
	assert.Equal(t, KindInvalidDateRange, kind)

	_, ok = KindOf(assert.AnError)
	assert.False(t, ok)
}

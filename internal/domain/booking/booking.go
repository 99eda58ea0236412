package booking

import (
	"context"
	"strings"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/events"
)

type BookingID string

type Status string

const (
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus maps a wire value to a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCheckedIn:
		return StatusCheckedIn, nil
	case StatusCheckedOut:
		return StatusCheckedOut, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", ErrUnknownStatus
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// ParsePaymentStatus maps a wire value to a PaymentStatus.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case PaymentPending:
		return PaymentPending, nil
	case PaymentPaid:
		return PaymentPaid, nil
	case PaymentRefunded:
		return PaymentRefunded, nil
	}
	return "", ErrUnknownPaymentStatus
}

// Booking is one ledger entry: a reservation of RoomsBooked identical rooms
// for the half-open stay Range. Rows are never deleted; cancellation is a
// status change so the ledger keeps its audit history.
type Booking struct {
	ID            BookingID
	RoomID        rooms.RoomID
	HotelID       rooms.HotelID
	UserID        string
	Range         daterange.DateRange
	RoomsBooked   int
	GuestCount    int
	Price         pricing.PriceBreakdown
	Status        Status
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
	events.EventRecorder
}

// LedgerSnapshot is a consistent per-room view: the bookings overlapping a
// range plus the room's write sequence at read time. An append that passes
// the same sequence back commits only if no other write landed in between.
type LedgerSnapshot struct {
	Bookings []*Booking
	Sequence int64
}

// Ledger is the source of truth for occupancy. AppendReservation and Save
// fail with ErrConcurrentUpdate when their CAS check loses a race; callers
// re-read and retry.
type Ledger interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	SnapshotRoom(ctx context.Context, roomID rooms.RoomID, dr daterange.DateRange) (LedgerSnapshot, error)
	AppendReservation(ctx context.Context, b *Booking, expectedSequence int64) error
	Save(ctx context.Context, b *Booking) error
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	ListPendingPaymentBefore(ctx context.Context, createdBefore time.Time) ([]*Booking, error)
}

type CreateParams struct {
	ID          BookingID
	RoomID      rooms.RoomID
	HotelID     rooms.HotelID
	UserID      string
	Range       daterange.DateRange
	RoomsBooked int
	GuestCount  int
	Price       pricing.PriceBreakdown
	CreatedAt   time.Time
}

// NewBooking creates a Confirmed booking awaiting payment. Capacity and
// availability checks against the room are the orchestrator's job; the
// aggregate enforces only what it can see on its own fields.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, ErrInvalidGuestCount
	}
	if params.RoomsBooked < 1 {
		return nil, ErrInvalidRoomsCount
	}
	if params.GuestCount < 1 {
		return nil, ErrInvalidGuestCount
	}
	if err := params.Price.RecalculateTotal(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:            params.ID,
		RoomID:        params.RoomID,
		HotelID:       params.HotelID,
		UserID:        params.UserID,
		Range:         params.Range,
		RoomsBooked:   params.RoomsBooked,
		GuestCount:    params.GuestCount,
		Price:         params.Price.Copy(),
		Status:        StatusConfirmed,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.Record(BookingReserved{
		BookingID:   b.ID,
		RoomID:      b.RoomID,
		HotelID:     b.HotelID,
		UserID:      b.UserID,
		Range:       b.Range,
		RoomsBooked: b.RoomsBooked,
		Total:       b.Price.Total,
		At:          now,
	})
	return b, nil
}

// Occupies reports whether the booking counts toward nightly occupancy.
// Checked-out bookings still occupy their past nights; only cancellation
// releases inventory.
func (b *Booking) Occupies() bool {
	return b.Status != StatusCancelled
}

// CheckIn moves a Confirmed booking to CheckedIn, allowed on or after the
// arrival date. No inventory effect: the rooms were counted since creation.
func (b *Booking) CheckIn(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	if daterange.Day(now).Before(b.Range.CheckIn) {
		return ErrCheckInTooEarly
	}
	b.Status = StatusCheckedIn
	b.UpdatedAt = now.UTC()
	b.Record(BookingCheckedIn{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

// CheckOut completes a CheckedIn stay. The half-open range already excludes
// the departure night, so occupancy needs no adjustment.
func (b *Booking) CheckOut(now time.Time) error {
	if b.Status != StatusCheckedIn {
		return ErrInvalidState
	}
	b.Status = StatusCheckedOut
	b.UpdatedAt = now.UTC()
	b.Record(BookingCheckedOut{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

// Cancel withdraws the booking, releasing its whole RoomsBooked share for
// every remaining night (the availability sum simply stops counting it).
// Cancelling an already-cancelled booking reports ErrAlreadyCancelled so
// callers can treat it as an idempotent no-op; a checked-out stay cannot be
// cancelled.
func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusCheckedOut:
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{
		BookingID:   b.ID,
		RoomID:      b.RoomID,
		RoomsBooked: b.RoomsBooked,
		Reason:      reason,
		At:          b.UpdatedAt,
	})
	return nil
}

// TransitionTo dispatches a requested status change through the state
// machine. Unknown or illegal edges fail without mutating the booking. The
// reason only applies to cancellation, where it ends up on the event.
func (b *Booking) TransitionTo(target Status, reason string, now time.Time) error {
	switch target {
	case StatusCheckedIn:
		return b.CheckIn(now)
	case StatusCheckedOut:
		return b.CheckOut(now)
	case StatusCancelled:
		return b.Cancel(reason, now)
	case StatusConfirmed:
		return ErrInvalidState
	}
	return ErrUnknownStatus
}

// MarkPaid records payment confirmation from the external collaborator.
// Only a Pending payment can become Paid; the stay status is untouched.
func (b *Booking) MarkPaid(now time.Time) error {
	if b.PaymentStatus != PaymentPending {
		return ErrInvalidPaymentState
	}
	b.PaymentStatus = PaymentPaid
	b.UpdatedAt = now.UTC()
	b.Record(PaymentStatusChanged{BookingID: b.ID, PaymentStatus: b.PaymentStatus, At: b.UpdatedAt})
	return nil
}

// MarkRefunded records a refund for a Pending or Paid payment.
func (b *Booking) MarkRefunded(now time.Time) error {
	if b.PaymentStatus != PaymentPending && b.PaymentStatus != PaymentPaid {
		return ErrInvalidPaymentState
	}
	b.PaymentStatus = PaymentRefunded
	b.UpdatedAt = now.UTC()
	b.Record(PaymentStatusChanged{BookingID: b.ID, PaymentStatus: b.PaymentStatus, At: b.UpdatedAt})
	return nil
}

// SetPaymentStatus dispatches a requested payment-status change.
func (b *Booking) SetPaymentStatus(target PaymentStatus, now time.Time) error {
	switch target {
	case PaymentPaid:
		return b.MarkPaid(now)
	case PaymentRefunded:
		return b.MarkRefunded(now)
	case PaymentPending:
		return ErrInvalidPaymentState
	}
	return ErrUnknownPaymentStatus
}

// ValidateDateRange applies booking-time date policy: the stay must start
// today or later.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	if dr.CheckIn.Before(daterange.Day(now)) {
		return ErrCheckInInPast
	}
	return nil
}

package booking

import (
	"errors"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

var (
	ErrInvalidDateRange         = errors.New("booking: invalid date range")
	ErrCheckInInPast            = errors.New("booking: check-in date is in the past")
	ErrInsufficientAvailability = errors.New("booking: not enough rooms available for the requested nights")
	ErrInvalidGuestCount        = errors.New("booking: guest count exceeds room capacity")
	ErrInvalidRoomsCount        = errors.New("booking: rooms count must be positive")
	ErrInvalidState             = errors.New("booking: invalid state transition")
	ErrInvalidPaymentState      = errors.New("booking: invalid payment status transition")
	ErrAlreadyCancelled         = errors.New("booking: already cancelled")
	ErrCheckInTooEarly          = errors.New("booking: cannot check in before the arrival date")
	ErrConcurrentUpdate         = errors.New("booking: concurrent update detected")
	ErrConflict                 = errors.New("booking: reservation conflicted with concurrent writes, retries exhausted")
	ErrBookingNotFound          = errors.New("booking: not found")
	ErrUnknownStatus            = errors.New("booking: unknown status")
	ErrUnknownPaymentStatus     = errors.New("booking: unknown payment status")
)

// Kind is the caller-facing error classification. The HTTP layer maps kinds
// to statuses; domain code sticks to sentinel errors.
type Kind string

const (
	KindInvalidDateRange         Kind = "InvalidDateRange"
	KindInsufficientAvailability Kind = "InsufficientAvailability"
	KindInvalidGuestCount        Kind = "InvalidGuestCount"
	KindIllegalStateTransition   Kind = "IllegalStateTransition"
	KindConcurrencyConflict      Kind = "ConcurrencyConflict"
	KindNotFound                 Kind = "NotFound"
)

// KindOf classifies an error into the taxonomy. The second result is false
// for errors outside it (infrastructure failures and the like).
func KindOf(err error) (Kind, bool) {
	switch {
	case errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrCheckInInPast),
		errors.Is(err, daterange.ErrEmptyRange),
		errors.Is(err, daterange.ErrZeroBoundary):
		return KindInvalidDateRange, true
	case errors.Is(err, ErrInsufficientAvailability):
		return KindInsufficientAvailability, true
	case errors.Is(err, ErrInvalidGuestCount), errors.Is(err, ErrInvalidRoomsCount):
		return KindInvalidGuestCount, true
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrInvalidPaymentState),
		errors.Is(err, ErrCheckInTooEarly),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrUnknownStatus),
		errors.Is(err, ErrUnknownPaymentStatus):
		return KindIllegalStateTransition, true
	case errors.Is(err, ErrConflict), errors.Is(err, ErrConcurrentUpdate):
		return KindConcurrencyConflict, true
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, rooms.ErrRoomNotFound):
		return KindNotFound, true
	}
	return "", false
}

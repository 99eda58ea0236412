package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

// Ledger is the in-memory booking ledger. Every write to a room bumps that
// room's sequence under the lock, so an append carrying a stale sequence
// fails instead of over-booking.
type Ledger struct {
	mu        sync.RWMutex
	items     map[domainbooking.BookingID]*domainbooking.Booking
	sequences map[domainrooms.RoomID]int64
}

// NewLedger builds an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		items:     make(map[domainbooking.BookingID]*domainbooking.Booking),
		sequences: make(map[domainrooms.RoomID]int64),
	}
}

// ByID fetches a booking copy or domainbooking.ErrBookingNotFound.
func (l *Ledger) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// SnapshotRoom returns the bookings overlapping the range together with the
// room's current sequence.
func (l *Ledger) SnapshotRoom(ctx context.Context, roomID domainrooms.RoomID, dr daterange.DateRange) (domainbooking.LedgerSnapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := domainbooking.LedgerSnapshot{Sequence: l.sequences[roomID]}
	for _, b := range l.items {
		if b.RoomID != roomID || !b.Range.Overlaps(dr) {
			continue
		}
		snapshot.Bookings = append(snapshot.Bookings, cloneBooking(b))
	}
	return snapshot, nil
}

// AppendReservation inserts a new booking if the room's sequence still equals
// expectedSequence. A stale sequence means another write landed since the
// snapshot; the caller must re-read and retry.
func (l *Ledger) AppendReservation(ctx context.Context, b *domainbooking.Booking, expectedSequence int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sequences[b.RoomID] != expectedSequence {
		return domainbooking.ErrConcurrentUpdate
	}
	if _, exists := l.items[b.ID]; exists {
		return domainbooking.ErrConcurrentUpdate
	}
	b.Version = 1
	l.items[b.ID] = cloneBooking(b)
	l.sequences[b.RoomID] = expectedSequence + 1
	return nil
}

// Save updates an existing booking with a version check. Status changes can
// affect occupancy, so the room sequence is bumped as well.
func (l *Ledger) Save(ctx context.Context, b *domainbooking.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.items[b.ID]
	if !ok {
		return domainbooking.ErrBookingNotFound
	}
	if current.Version != b.Version {
		return domainbooking.ErrConcurrentUpdate
	}
	b.Version++
	l.items[b.ID] = cloneBooking(b)
	l.sequences[b.RoomID]++
	return nil
}

// ListByUser returns the user's bookings, newest first.
func (l *Ledger) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range l.items {
		if b.UserID == userID {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// ListPendingPaymentBefore returns Confirmed bookings whose payment is still
// Pending and that were created before the cutoff.
func (l *Ledger) ListPendingPaymentBefore(ctx context.Context, createdBefore time.Time) ([]*domainbooking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range l.items {
		if b.Status != domainbooking.StatusConfirmed || b.PaymentStatus != domainbooking.PaymentPending {
			continue
		}
		if b.CreatedAt.Before(createdBefore) {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches, nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	clone := *b
	clone.Price = b.Price.Copy()
	clone.ClearEvents()
	return &clone
}

var _ domainbooking.Ledger = (*Ledger)(nil)

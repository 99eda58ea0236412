package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/middleware"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/outbox"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainavailability "github.com/Jayu-patel/hotels-management-sub000/internal/domain/availability"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	domainrange "github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

const reserveRoomsKey = "booking.reserve"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

type ReserveRoomsCommand struct {
	CommandID       string
	RoomID          string
	HotelID         string
	UserID          string
	CheckIn         time.Time
	CheckOut        time.Time
	RoomsBooked     int
	GuestCount      int
	IdempotencyKeyV string
}

func (c ReserveRoomsCommand) Key() string { return reserveRoomsKey }

func (c ReserveRoomsCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ReserveRoomsCommand) ResultPrototype() any { return &ReserveRoomsResult{} }

// Validate performs the structural checks that need no repository access.
// The handler repeats them so it stays safe when dispatched without the
// validation middleware in front.
func (c ReserveRoomsCommand) Validate() error {
	if c.RoomsBooked < 1 {
		return domainbooking.ErrInvalidRoomsCount
	}
	if c.GuestCount < 1 {
		return domainbooking.ErrInvalidGuestCount
	}
	return nil
}

type ReserveRoomsResult struct {
	BookingID        string `json:"booking_id"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
}

// ReserveRoomsHandler is the booking orchestrator. One attempt runs entirely
// inside a single unit of work: structural validation, the availability check
// against a ledger snapshot, pricing, and the reservation append that
// re-verifies the snapshot's sequence. An append losing the per-room race
// fails with ErrConcurrentUpdate and the Retry middleware re-runs the whole
// attempt with a fresh unit; availability read outside that boundary would be
// advisory only.
type ReserveRoomsHandler struct {
	UoWFactory        uow.UoWFactory
	Outbox            outbox.Outbox
	Encoder           outbox.EventEncoder
	ServiceFeePercent int
	TaxPercent        int
}

func (h *ReserveRoomsHandler) Handle(ctx context.Context, cmd ReserveRoomsCommand) (*ReserveRoomsResult, error) {
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

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := domainbooking.ValidateDateRange(dr, now); err != nil {
		return nil, err
	}
	if cmd.RoomsBooked < 1 {
		return nil, domainbooking.ErrInvalidRoomsCount
	}

	room, err := unit.Rooms().ByID(ctx, domainrooms.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	if cmd.HotelID != "" && room.HotelID != domainrooms.HotelID(cmd.HotelID) {
		return nil, domainrooms.ErrRoomNotFound
	}
	if cmd.GuestCount < 1 || cmd.GuestCount > room.MaxGuests(cmd.RoomsBooked) {
		return nil, domainbooking.ErrInvalidGuestCount
	}

	snapshot, err := unit.Bookings().SnapshotRoom(ctx, room.ID, dr)
	if err != nil {
		return nil, err
	}
	if !domainavailability.CanAccommodate(room, snapshot.Bookings, dr, cmd.RoomsBooked) {
		return nil, domainbooking.ErrInsufficientAvailability
	}

	price, err := unit.Pricing().Quote(ctx, room, dr)
	if err != nil {
		return nil, err
	}
	price = h.applyFees(price, cmd.RoomsBooked)

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(cmd.CommandID),
		RoomID:      room.ID,
		HotelID:     room.HotelID,
		UserID:      cmd.UserID,
		Range:       dr,
		RoomsBooked: cmd.RoomsBooked,
		GuestCount:  cmd.GuestCount,
		Price:       price,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().AppendReservation(ctx, b, snapshot.Sequence); err != nil {
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

	return &ReserveRoomsResult{
		BookingID:        string(b.ID),
		TotalAmountCents: b.Price.Total.Amount,
		Currency:         b.Price.Total.Currency,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
	}, nil
}

// applyFees adds the orchestrator-owned add-ons: a service fee and taxes as
// fixed percentages of the whole-booking post-discount subtotal. They live
// here rather than in the resolver so fee policy can change independently of
// pricing rules.
func (h *ReserveRoomsHandler) applyFees(price domainpricing.PriceBreakdown, roomsBooked int) domainpricing.PriceBreakdown {
	price.Subtotal = price.Subtotal.Multiply(int64(roomsBooked))
	for i := range price.Discounts {
		price.Discounts[i].Amount = price.Discounts[i].Amount.Multiply(int64(roomsBooked))
	}
	stay := price.StaySubtotal()
	if h.ServiceFeePercent > 0 {
		price.Fees = append(price.Fees, domainpricing.Fee{Name: "service", Amount: stay.Percent(h.ServiceFeePercent)})
	}
	if h.TaxPercent > 0 {
		price.Taxes = append(price.Taxes, domainpricing.Tax{Name: "tax", Amount: stay.Percent(h.TaxPercent)})
	}
	return price
}

func (h *ReserveRoomsHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[ReserveRoomsCommand, *ReserveRoomsResult] = (*ReserveRoomsHandler)(nil)
var _ middleware.IdempotentCommand = (*ReserveRoomsCommand)(nil)

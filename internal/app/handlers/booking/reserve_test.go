package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/middleware"
	domainavailability "github.com/Jayu-patel/hotels-management-sub000/internal/domain/availability"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	domainrange "github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/storage/memory"
)

type testEnv struct {
	rooms   *memory.RoomRepository
	slabs   *memory.SlabRepository
	ledger  *memory.Ledger
	factory memory.Factory
	outbox  *memory.Outbox
	bus     commands.Bus
}

func newTestEnv(t *testing.T, totalCount int) *testEnv {
	t.Helper()
	env := &testEnv{
		rooms:  memory.NewRoomRepository(),
		slabs:  memory.NewSlabRepository(),
		ledger: memory.NewLedger(),
		outbox: memory.NewOutbox(),
	}
	env.factory = memory.Factory{
		RoomsRepo:  env.rooms,
		SlabsRepo:  env.slabs,
		LedgerRepo: env.ledger,
		PricingSvc: domainpricing.NewResolver(env.slabs),
	}

	room, err := domainrooms.NewRoom(domainrooms.CreateParams{
		ID:                "room-1",
		HotelID:           "hotel-1",
		Name:              "Standard Double",
		BasePricePerNight: money.Must(10000, "USD"),
		TotalCount:        totalCount,
		CapacityPerRoom:   2,
		Now:               time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, env.rooms.Save(context.Background(), room))

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, ReserveRoomsCommand{}.Key(), &ReserveRoomsHandler{
		UoWFactory: env.factory,
		Outbox:     env.outbox,
	})
	commands.RegisterHandler(commandBus, TransitionBookingCommand{}.Key(), &TransitionBookingHandler{
		UoWFactory: env.factory,
		Outbox:     env.outbox,
	})
	commands.RegisterHandler(commandBus, SetPaymentStatusCommand{}.Key(), &SetPaymentStatusHandler{
		UoWFactory: env.factory,
		Outbox:     env.outbox,
	})
	env.bus = middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(memory.NewIdempotencyStore(0), nil),
		middleware.Retry(3),
		middleware.Transaction(env.factory, nil),
		middleware.OutboxFlush(env.outbox),
	)
	return env
}

func (env *testEnv) reserve(t *testing.T, id, in, out string, roomsBooked, guests int) (*ReserveRoomsResult, error) {
	t.Helper()
	checkIn, err := time.Parse(domainrange.ISODate, in)
	require.NoError(t, err)
	checkOut, err := time.Parse(domainrange.ISODate, out)
	require.NoError(t, err)
	return commands.Dispatch[ReserveRoomsCommand, *ReserveRoomsResult](context.Background(), env.bus, ReserveRoomsCommand{
		CommandID:   id,
		RoomID:      "room-1",
		HotelID:     "hotel-1",
		UserID:      "user-1",
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		RoomsBooked: roomsBooked,
		GuestCount:  guests,
	})
}

func (env *testEnv) freeRooms(t *testing.T, in, out string) int {
	t.Helper()
	dr, err := domainrange.Parse(in, out)
	require.NoError(t, err)
	room, err := env.rooms.ByID(context.Background(), "room-1")
	require.NoError(t, err)
	snapshot, err := env.ledger.SnapshotRoom(context.Background(), "room-1", dr)
	require.NoError(t, err)
	return domainavailability.FreeRooms(room, snapshot.Bookings, dr)
}

func TestReserveHappyPath(t *testing.T) {
	env := newTestEnv(t, 5)

	result, err := env.reserve(t, "bk-1", "2027-06-01", "2027-06-04", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, "bk-1", result.BookingID)
	assert.Equal(t, string(domainbooking.StatusConfirmed), result.Status)
	assert.Equal(t, string(domainbooking.PaymentPending), result.PaymentStatus)
	// 3 nights at 10000 for 2 rooms.
	assert.Equal(t, int64(60000), result.TotalAmountCents)

	assert.Equal(t, 3, env.freeRooms(t, "2027-06-01", "2027-06-04"))
}

func TestReserveExhaustsInventory(t *testing.T) {
	env := newTestEnv(t, 2)

	_, err := env.reserve(t, "bk-1", "2027-06-01", "2027-06-05", 2, 4)
	require.NoError(t, err)

	_, err = env.reserve(t, "bk-2", "2027-06-03", "2027-06-04", 1, 1)
	assert.ErrorIs(t, err, domainbooking.ErrInsufficientAvailability)

	assert.Equal(t, 0, env.freeRooms(t, "2027-06-03", "2027-06-04"))
}

func TestReserveBackToBackStaysShareDay(t *testing.T) {
	env := newTestEnv(t, 1)

	_, err := env.reserve(t, "bk-1", "2027-06-01", "2027-06-04", 1, 2)
	require.NoError(t, err)

	// Check-out day is not an occupied night, so the next stay starts there.
	_, err = env.reserve(t, "bk-2", "2027-06-04", "2027-06-07", 1, 2)
	assert.NoError(t, err)
}

func TestCancelReleasesInventory(t *testing.T) {
	env := newTestEnv(t, 2)

	_, err := env.reserve(t, "bk-1", "2027-06-01", "2027-06-05", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, env.freeRooms(t, "2027-06-01", "2027-06-05"))

	_, err = commands.Dispatch[TransitionBookingCommand, *TransitionBookingResult](context.Background(), env.bus, TransitionBookingCommand{
		BookingID: "bk-1",
		Target:    "CANCELLED",
		Reason:    "guest request",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, env.freeRooms(t, "2027-06-01", "2027-06-05"))
	result, err := env.reserve(t, "bk-2", "2027-06-03", "2027-06-04", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "bk-2", result.BookingID)
}

func TestCancelTwiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t, 1)
	_, err := env.reserve(t, "bk-1", "2027-06-01", "2027-06-04", 1, 1)
	require.NoError(t, err)

	first, err := commands.Dispatch[TransitionBookingCommand, *TransitionBookingResult](context.Background(), env.bus, TransitionBookingCommand{
		BookingID: "bk-1", Target: "CANCELLED",
	})
	require.NoError(t, err)
	assert.False(t, first.AlreadyTerminal)

	second, err := commands.Dispatch[TransitionBookingCommand, *TransitionBookingResult](context.Background(), env.bus, TransitionBookingCommand{
		BookingID: "bk-1", Target: "CANCELLED",
	})
	require.NoError(t, err)
	assert.True(t, second.AlreadyTerminal)
	assert.Equal(t, string(domainbooking.StatusCancelled), second.Booking.Status)
}

func TestReserveValidation(t *testing.T) {
	env := newTestEnv(t, 2)

	_, err := env.reserve(t, "bk-1", "2027-06-04", "2027-06-01", 1, 1)
	assert.ErrorIs(t, err, domainrange.ErrEmptyRange)

	_, err = env.reserve(t, "bk-2", "2020-06-01", "2020-06-04", 1, 1)
	assert.ErrorIs(t, err, domainbooking.ErrCheckInInPast)

	// Capacity 2 per room: 5 guests never fit in 2 rooms.
	_, err = env.reserve(t, "bk-3", "2027-06-01", "2027-06-04", 2, 5)
	assert.ErrorIs(t, err, domainbooking.ErrInvalidGuestCount)

	_, err = env.reserve(t, "bk-4", "2027-06-01", "2027-06-04", 0, 1)
	assert.ErrorIs(t, err, domainbooking.ErrInvalidRoomsCount)

	_, err = env.reserve(t, "bk-5", "2027-06-01", "2027-06-04", 3, 2)
	assert.ErrorIs(t, err, domainbooking.ErrInsufficientAvailability)
}

func TestReserveUnknownRoom(t *testing.T) {
	env := newTestEnv(t, 2)
	checkIn, _ := time.Parse(domainrange.ISODate, "2027-06-01")
	checkOut, _ := time.Parse(domainrange.ISODate, "2027-06-04")

	_, err := commands.Dispatch[ReserveRoomsCommand, *ReserveRoomsResult](context.Background(), env.bus, ReserveRoomsCommand{
		CommandID: "bk-1", RoomID: "missing", UserID: "user-1",
		CheckIn: checkIn, CheckOut: checkOut, RoomsBooked: 1, GuestCount: 1,
	})
	assert.ErrorIs(t, err, domainrooms.ErrRoomNotFound)
}

func TestReserveIdempotencyKeyReplaysResult(t *testing.T) {
	env := newTestEnv(t, 1)
	checkIn, _ := time.Parse(domainrange.ISODate, "2027-06-01")
	checkOut, _ := time.Parse(domainrange.ISODate, "2027-06-04")

	cmd := ReserveRoomsCommand{
		CommandID: "bk-1", RoomID: "room-1", HotelID: "hotel-1", UserID: "user-1",
		CheckIn: checkIn, CheckOut: checkOut, RoomsBooked: 1, GuestCount: 1,
		IdempotencyKeyV: "req-42",
	}
	first, err := commands.Dispatch[ReserveRoomsCommand, *ReserveRoomsResult](context.Background(), env.bus, cmd)
	require.NoError(t, err)

	cmd.CommandID = "bk-other"
	second, err := commands.Dispatch[ReserveRoomsCommand, *ReserveRoomsResult](context.Background(), env.bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, first.BookingID, second.BookingID, "retried request must not create a second booking")
	assert.Equal(t, 0, env.freeRooms(t, "2027-06-01", "2027-06-04"))
}

func TestReserveFailureIsNotPinnedToIdempotencyKey(t *testing.T) {
	env := newTestEnv(t, 1)
	_, err := env.reserve(t, "bk-blocker", "2027-06-01", "2027-06-04", 1, 1)
	require.NoError(t, err)

	checkIn, _ := time.Parse(domainrange.ISODate, "2027-06-01")
	checkOut, _ := time.Parse(domainrange.ISODate, "2027-06-04")
	cmd := ReserveRoomsCommand{
		CommandID: "bk-2", RoomID: "room-1", HotelID: "hotel-1", UserID: "user-2",
		CheckIn: checkIn, CheckOut: checkOut, RoomsBooked: 1, GuestCount: 1,
		IdempotencyKeyV: "req-9",
	}
	_, err = commands.Dispatch[ReserveRoomsCommand, *ReserveRoomsResult](context.Background(), env.bus, cmd)
	require.ErrorIs(t, err, domainbooking.ErrInsufficientAvailability)

	_, err = commands.Dispatch[TransitionBookingCommand, *TransitionBookingResult](context.Background(), env.bus, TransitionBookingCommand{
		BookingID: "bk-blocker", Target: "CANCELLED",
	})
	require.NoError(t, err)

	// The key carries no memory of the sold-out attempt; the freed room is
	// bookable by the same request.
	result, err := commands.Dispatch[ReserveRoomsCommand, *ReserveRoomsResult](context.Background(), env.bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, "bk-2", result.BookingID)
	assert.Equal(t, 0, env.freeRooms(t, "2027-06-01", "2027-06-04"))
}

func TestConcurrentReservationsNeverOverbook(t *testing.T) {
	env := newTestEnv(t, 2)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.reserve(t, fmt.Sprintf("bk-%d", i), "2027-06-01", "2027-06-04", 1, 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.LessOrEqual(t, succeeded, 2)
	assert.GreaterOrEqual(t, env.freeRooms(t, "2027-06-01", "2027-06-04"), 0)

	// Replaying the nights by hand must never find more than 2 rooms booked.
	dr, err := domainrange.Parse("2027-06-01", "2027-06-04")
	require.NoError(t, err)
	snapshot, err := env.ledger.SnapshotRoom(context.Background(), "room-1", dr)
	require.NoError(t, err)
	dr.EachNight(func(night time.Time) bool {
		occupied := 0
		for _, b := range snapshot.Bookings {
			if b.Occupies() && b.Range.ContainsNight(night) {
				occupied += b.RoomsBooked
			}
		}
		assert.LessOrEqual(t, occupied, 2)
		return true
	})
}

type refundRecorder struct {
	mock.Mock
}

func (r *refundRecorder) Refund(ctx context.Context, bookingID string, amount money.Money) error {
	args := r.Called(ctx, bookingID, amount)
	return args.Error(0)
}

func TestCancelPaidBookingRefunds(t *testing.T) {
	env := newTestEnv(t, 1)
	_, err := env.reserve(t, "bk-1", "2027-06-01", "2027-06-04", 1, 1)
	require.NoError(t, err)

	_, err = commands.Dispatch[SetPaymentStatusCommand, *SetPaymentStatusResult](context.Background(), env.bus, SetPaymentStatusCommand{
		BookingID: "bk-1", Target: "PAID",
	})
	require.NoError(t, err)

	payments := &refundRecorder{}
	payments.On("Refund", mock.Anything, "bk-1", money.Must(30000, "USD")).Return(nil)
	handler := &TransitionBookingHandler{
		UoWFactory: env.factory,
		Payments:   payments,
		Outbox:     env.outbox,
	}
	result, err := handler.Handle(context.Background(), TransitionBookingCommand{
		BookingID: "bk-1", Target: "CANCELLED", Reason: "guest request",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.PaymentRefunded), result.Booking.PaymentStatus)
	payments.AssertExpectations(t)
}

func TestOutboxReceivesReservationEvents(t *testing.T) {
	env := newTestEnv(t, 2)
	handler := &ReserveRoomsHandler{UoWFactory: env.factory, Outbox: env.outbox}

	checkIn, _ := time.Parse(domainrange.ISODate, "2027-06-01")
	checkOut, _ := time.Parse(domainrange.ISODate, "2027-06-04")
	_, err := handler.Handle(context.Background(), ReserveRoomsCommand{
		CommandID: "bk-1", RoomID: "room-1", UserID: "user-1",
		CheckIn: checkIn, CheckOut: checkOut, RoomsBooked: 1, GuestCount: 1,
	})
	require.NoError(t, err)

	records := env.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "booking.reserved", records[0].Name)
	assert.Equal(t, "bk-1", records[0].Aggregate)
}

func TestServiceFeeAndTaxAppliedToStaySubtotal(t *testing.T) {
	env := newTestEnv(t, 2)
	handler := &ReserveRoomsHandler{
		UoWFactory:        env.factory,
		Outbox:            env.outbox,
		ServiceFeePercent: 10,
		TaxPercent:        5,
	}

	checkIn, _ := time.Parse(domainrange.ISODate, "2027-06-01")
	checkOut, _ := time.Parse(domainrange.ISODate, "2027-06-04")
	result, err := handler.Handle(context.Background(), ReserveRoomsCommand{
		CommandID: "bk-1", RoomID: "room-1", UserID: "user-1",
		CheckIn: checkIn, CheckOut: checkOut, RoomsBooked: 2, GuestCount: 4,
	})
	require.NoError(t, err)
	// Stay subtotal 60000, plus 10% service and 5% tax.
	assert.Equal(t, int64(69000), result.TotalAmountCents)
}

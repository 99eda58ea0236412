package memory

import (
	"context"
	"errors"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	RoomsRepo  domainrooms.Repository
	SlabsRepo  domainpricing.SlabRepository
	LedgerRepo domainbooking.Ledger
	PricingSvc domainpricing.Quoter
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided:
// the ledger's per-room sequence check carries the concurrency guarantee.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RoomsRepo == nil || f.SlabsRepo == nil || f.LedgerRepo == nil || f.PricingSvc == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		rooms:   f.RoomsRepo,
		slabs:   f.SlabsRepo,
		ledger:  f.LedgerRepo,
		pricing: f.PricingSvc,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	rooms   domainrooms.Repository
	slabs   domainpricing.SlabRepository
	ledger  domainbooking.Ledger
	pricing domainpricing.Quoter
}

func (u *Unit) Rooms() domainrooms.Repository {
	return u.rooms
}

func (u *Unit) Slabs() domainpricing.SlabRepository {
	return u.slabs
}

func (u *Unit) Bookings() domainbooking.Ledger {
	return u.ledger
}

func (u *Unit) Pricing() domainpricing.Quoter {
	return u.pricing
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

package uow

import (
	"context"

	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// availability check and the reservation append of one booking attempt must
// run through the same unit.
type UnitOfWork interface {
	Rooms() domainrooms.Repository
	Slabs() domainpricing.SlabRepository
	Bookings() domainbooking.Ledger
	Pricing() domainpricing.Quoter

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}

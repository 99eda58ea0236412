package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	RoomsRepo  domainrooms.Repository
	SlabsRepo  domainpricing.SlabRepository
	LedgerRepo domainbooking.Ledger
	PricingSvc domainpricing.Quoter
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:      f.DB,
		session: session,
		rooms:   f.RoomsRepo,
		slabs:   f.SlabsRepo,
		ledger:  f.LedgerRepo,
		pricing: f.PricingSvc,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	if err := u.session.CommitTransaction(ctx); err != nil {
		return err
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	domainrange "github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

// BookingLedger persists bookings in a "bookings" collection and keeps one
// head document per room in "room_heads". The head's sequence is bumped on
// every write to the room, so an append that passes a stale sequence fails
// the filter and reports ErrConcurrentUpdate.
type BookingLedger struct {
	col   *mongo.Collection
	heads *mongo.Collection
}

func NewBookingLedger(db *mongo.Database) *BookingLedger {
	return &BookingLedger{
		col:   db.Collection("bookings"),
		heads: db.Collection("room_heads"),
	}
}

func (r *BookingLedger) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingLedger) SnapshotRoom(ctx context.Context, roomID domainrooms.RoomID, dr domainrange.DateRange) (domainbooking.LedgerSnapshot, error) {
	var head roomHeadDocument
	err := r.heads.FindOne(ctx, bson.M{"_id": roomID}).Decode(&head)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return domainbooking.LedgerSnapshot{}, err
	}

	filter := bson.M{
		"room_id":         roomID,
		"range.check_in":  bson.M{"$lt": dr.CheckOut.UnixMilli()},
		"range.check_out": bson.M{"$gt": dr.CheckIn.UnixMilli()},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return domainbooking.LedgerSnapshot{}, err
	}
	defer cursor.Close(ctx)

	snapshot := domainbooking.LedgerSnapshot{Sequence: head.Sequence}
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainbooking.LedgerSnapshot{}, err
		}
		snapshot.Bookings = append(snapshot.Bookings, doc.toAggregate())
	}
	return snapshot, cursor.Err()
}

func (r *BookingLedger) AppendReservation(ctx context.Context, b *domainbooking.Booking, expectedSequence int64) error {
	filter := bson.M{"_id": b.RoomID, "sequence": expectedSequence}
	update := bson.M{"$set": bson.M{"sequence": expectedSequence + 1}}
	res, err := r.heads.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrConcurrentUpdate
	}

	b.Version = 1
	if _, err := r.col.InsertOne(ctx, newBookingDocument(b)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrConcurrentUpdate
		}
		return err
	}
	return nil
}

func (r *BookingLedger) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainbooking.ErrConcurrentUpdate
	}
	b.Version = doc.Version

	// Status changes can release inventory; advance the head so in-flight
	// appends against the old snapshot retry.
	_, err = r.heads.UpdateOne(ctx, bson.M{"_id": b.RoomID}, bson.M{"$inc": bson.M{"sequence": 1}}, options.Update().SetUpsert(true))
	return err
}

func (r *BookingLedger) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeBookings(ctx, cursor)
}

func (r *BookingLedger) ListPendingPaymentBefore(ctx context.Context, createdBefore time.Time) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"status":         string(domainbooking.StatusConfirmed),
		"payment_status": string(domainbooking.PaymentPending),
		"created_at":     bson.M{"$lt": createdBefore.UnixMilli()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeBookings(ctx, cursor)
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]*domainbooking.Booking, error) {
	out := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type roomHeadDocument struct {
	ID       string `bson:"_id"`
	Sequence int64  `bson:"sequence"`
}

type bookingDocument struct {
	ID            string                       `bson:"_id"`
	RoomID        string                       `bson:"room_id"`
	HotelID       string                       `bson:"hotel_id"`
	UserID        string                       `bson:"user_id"`
	Range         rangeDocument                `bson:"range"`
	RoomsBooked   int                          `bson:"rooms_booked"`
	GuestCount    int                          `bson:"guest_count"`
	Price         domainpricing.PriceBreakdown `bson:"price"`
	Status        string                       `bson:"status"`
	PaymentStatus string                       `bson:"payment_status"`
	CreatedAt     int64                        `bson:"created_at"`
	UpdatedAt     int64                        `bson:"updated_at"`
	Version       int64                        `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:            string(b.ID),
		RoomID:        string(b.RoomID),
		HotelID:       string(b.HotelID),
		UserID:        b.UserID,
		Range:         rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		RoomsBooked:   b.RoomsBooked,
		GuestCount:    b.GuestCount,
		Price:         b.Price,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
		Version:       b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:            domainbooking.BookingID(d.ID),
		RoomID:        domainrooms.RoomID(d.RoomID),
		HotelID:       domainrooms.HotelID(d.HotelID),
		UserID:        d.UserID,
		Range:         domainrange.DateRange{CheckIn: timestampToTime(d.Range.CheckIn), CheckOut: timestampToTime(d.Range.CheckOut)},
		RoomsBooked:   d.RoomsBooked,
		GuestCount:    d.GuestCount,
		Price:         d.Price,
		Status:        domainbooking.Status(d.Status),
		PaymentStatus: domainbooking.PaymentStatus(d.PaymentStatus),
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Version:       d.Version,
	}
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainbooking.Ledger = (*BookingLedger)(nil)

package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("rooms")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrooms.ErrRoomNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID domainrooms.HotelID) ([]*domainrooms.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainrooms.Room, 0)
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *RoomRepository) Save(ctx context.Context, room *domainrooms.Room) error {
	doc := newRoomDocument(room)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type roomDocument struct {
	ID              string   `bson:"_id"`
	HotelID         string   `bson:"hotel_id"`
	Name            string   `bson:"name"`
	BasePriceCents  int64    `bson:"base_price_cents"`
	Currency        string   `bson:"currency"`
	TotalCount      int      `bson:"total_count"`
	CapacityPerRoom int      `bson:"capacity_per_room"`
	Amenities       []string `bson:"amenities,omitempty"`
	CreatedAt       int64    `bson:"created_at"`
	UpdatedAt       int64    `bson:"updated_at"`
}

func newRoomDocument(room *domainrooms.Room) roomDocument {
	return roomDocument{
		ID:              string(room.ID),
		HotelID:         string(room.HotelID),
		Name:            room.Name,
		BasePriceCents:  room.BasePricePerNight.Amount,
		Currency:        room.BasePricePerNight.Currency,
		TotalCount:      room.TotalCount,
		CapacityPerRoom: room.CapacityPerRoom,
		Amenities:       room.Amenities,
		CreatedAt:       room.CreatedAt.UnixMilli(),
		UpdatedAt:       room.UpdatedAt.UnixMilli(),
	}
}

func (d roomDocument) toAggregate() *domainrooms.Room {
	return &domainrooms.Room{
		ID:                domainrooms.RoomID(d.ID),
		HotelID:           domainrooms.HotelID(d.HotelID),
		Name:              d.Name,
		BasePricePerNight: money.Money{Amount: d.BasePriceCents, Currency: d.Currency},
		TotalCount:        d.TotalCount,
		CapacityPerRoom:   d.CapacityPerRoom,
		Amenities:         d.Amenities,
		CreatedAt:         timestampToTime(d.CreatedAt),
		UpdatedAt:         timestampToTime(d.UpdatedAt),
	}
}

var _ domainrooms.Repository = (*RoomRepository)(nil)

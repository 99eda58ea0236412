package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
)

type SlabRepository struct {
	col *mongo.Collection
}

func NewSlabRepository(db *mongo.Database) *SlabRepository {
	return &SlabRepository{col: db.Collection("price_slabs")}
}

func (r *SlabRepository) ListByHotel(ctx context.Context, hotelID domainrooms.HotelID) ([]domainpricing.PriceSlab, error) {
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": hotelID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]domainpricing.PriceSlab, 0)
	for cursor.Next(ctx) {
		var doc slabDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toSlab())
	}
	return out, cursor.Err()
}

func (r *SlabRepository) Save(ctx context.Context, slab domainpricing.PriceSlab) error {
	doc := newSlabDocument(slab)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type slabDocument struct {
	ID                string `bson:"_id"`
	HotelID           string `bson:"hotel_id"`
	Kind              string `bson:"kind"`
	StartDate         int64  `bson:"start_date,omitempty"`
	EndDate           int64  `bson:"end_date,omitempty"`
	MultiplierPercent int    `bson:"multiplier_percent,omitempty"`
	MinNights         int    `bson:"min_nights,omitempty"`
	MaxNights         int    `bson:"max_nights,omitempty"`
	DiscountPercent   int    `bson:"discount_percent,omitempty"`
}

func newSlabDocument(slab domainpricing.PriceSlab) slabDocument {
	doc := slabDocument{
		ID:                string(slab.ID),
		HotelID:           string(slab.HotelID),
		Kind:              string(slab.Kind),
		MultiplierPercent: slab.MultiplierPercent,
		MinNights:         slab.MinNights,
		MaxNights:         slab.MaxNights,
		DiscountPercent:   slab.DiscountPercent,
	}
	if !slab.StartDate.IsZero() {
		doc.StartDate = slab.StartDate.UnixMilli()
	}
	if !slab.EndDate.IsZero() {
		doc.EndDate = slab.EndDate.UnixMilli()
	}
	return doc
}

func (d slabDocument) toSlab() domainpricing.PriceSlab {
	slab := domainpricing.PriceSlab{
		ID:                domainpricing.SlabID(d.ID),
		HotelID:           domainrooms.HotelID(d.HotelID),
		Kind:              domainpricing.SlabKind(d.Kind),
		MultiplierPercent: d.MultiplierPercent,
		MinNights:         d.MinNights,
		MaxNights:         d.MaxNights,
		DiscountPercent:   d.DiscountPercent,
	}
	if d.StartDate != 0 {
		slab.StartDate = timestampToTime(d.StartDate)
	}
	if d.EndDate != 0 {
		slab.EndDate = timestampToTime(d.EndDate)
	}
	return slab
}

var _ domainpricing.SlabRepository = (*SlabRepository)(nil)

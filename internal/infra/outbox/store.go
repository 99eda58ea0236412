package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "github.com/Jayu-patel/hotels-management-sub000/internal/app/outbox"
)

const (
	statusPending = "pending"
	statusClaimed = "claimed"
	statusSent    = "sent"
)

// EventDocument is one staged event row.
type EventDocument struct {
	ID            string            `bson:"_id"`
	Name          string            `bson:"name"`
	Aggregate     string            `bson:"aggregate"`
	Payload       json.RawMessage   `bson:"payload"`
	Headers       map[string]string `bson:"headers,omitempty"`
	OccurredAt    time.Time         `bson:"occurred_at"`
	Status        string            `bson:"status"`
	Attempts      int               `bson:"attempts"`
	NextAttemptAt time.Time         `bson:"next_attempt_at"`
	ClaimedBy     string            `bson:"claimed_by,omitempty"`
	LastError     string            `bson:"last_error,omitempty"`
	SentAt        time.Time         `bson:"sent_at,omitempty"`
}

// Store persists staged events in an "outbox_events" collection. Add runs in
// the caller's session context, so a rolled-back booking never leaks events.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("outbox_events")}
}

func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := EventDocument{
		ID:            record.ID,
		Name:          record.Name,
		Aggregate:     record.Aggregate,
		Payload:       record.Payload,
		Headers:       record.Headers,
		OccurredAt:    record.OccurredAt,
		Status:        statusPending,
		NextAttemptAt: time.Now(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Flush is a no-op: rows become visible at transaction commit and the worker
// relays them.
func (s *Store) Flush(ctx context.Context) error {
	return nil
}

// Claim atomically takes the oldest due pending event for this worker.
// Returns nil without error when the queue is drained.
func (s *Store) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	filter := bson.M{
		"status":          statusPending,
		"next_attempt_at": bson.M{"$lte": time.Now()},
	}
	update := bson.M{
		"$set": bson.M{"status": statusClaimed, "claimed_by": workerID},
		"$inc": bson.M{"attempts": 1},
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurred_at", Value: 1}}).
		SetReturnDocument(options.After)
	var doc EventDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"status": statusSent, "sent_at": time.Now()}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// MarkFailed returns the event to the pending pool for a later attempt.
func (s *Store) MarkFailed(ctx context.Context, id string, nextAttempt time.Time, reason string) error {
	update := bson.M{"$set": bson.M{
		"status":          statusPending,
		"next_attempt_at": nextAttempt,
		"last_error":      reason,
		"claimed_by":      "",
	}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

var _ appoutbox.Outbox = (*Store)(nil)

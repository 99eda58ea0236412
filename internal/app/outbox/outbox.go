package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/events"
)

// EventRecord is a serialized domain event staged for delivery. Records are
// written in the same transaction as the state change that produced them and
// relayed asynchronously by the outbox worker.
type EventRecord struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
}

// Outbox stages event records. Add must participate in the caller's
// transaction boundary; Flush is a hook for implementations that buffer.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

// EventEncoder turns a domain event into a record.
type EventEncoder interface {
	Encode(event events.Event) (EventRecord, error)
}

// JSONEventEncoder serializes the event struct as-is.
type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(event events.Event) (EventRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		ID:         uuid.NewString(),
		Name:       event.EventName(),
		Aggregate:  event.AggregateID(),
		Payload:    payload,
		OccurredAt: event.OccurredAt(),
	}, nil
}

// RecordDomainEvents encodes and stages a batch of pending aggregate events.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, pending []events.Event) error {
	if box == nil || len(pending) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, event := range pending {
		record, err := encoder.Encode(event)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

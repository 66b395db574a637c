package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusDispatched = "dispatched"
	StatusDead       = "dead"
)

// Message is one enqueued domain event awaiting delivery to the notification
// sink. Rows are written in the same transaction as the workflow transition
// that produced them.
type Message struct {
	ID        uuid.UUID
	EventType string
	Payload   []byte
	Attempts  int
	CreatedAt time.Time
}

// Dispatcher delivers a message to the external notification transport.
// Delivery is at-least-once; the transport is expected to deduplicate on
// message id if it cares.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

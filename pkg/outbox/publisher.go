package outbox

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/harborcredit/loanscreen/pkg/composables"
)

const insertMessageQuery = `
INSERT INTO notification_outbox (event_type, payload, status, attempts, next_attempt_at)
VALUES ($1, $2, 'pending', 0, now())`

// Enqueue writes an event row using the caller's transaction so the event
// commits (or rolls back) together with the transition that produced it.
func Enqueue(ctx context.Context, eventType string, event any) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal outbox event")
	}
	if _, err := tx.Exec(ctx, insertMessageQuery, eventType, payload); err != nil {
		return errors.Wrap(err, "enqueue outbox event")
	}
	return nil
}

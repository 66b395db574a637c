package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/harborcredit/loanscreen/pkg/metrics"
	"github.com/harborcredit/loanscreen/pkg/types"
)

// advisory lock key for the relay; only one node drains the outbox at a time.
const relayLockKey = int64(0x6c6f616e_6f7574)

type RelayOptions struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	Logger       *logrus.Logger
	Clock        types.Clock
}

func (o *RelayOptions) setDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 25
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
	if o.Clock == nil {
		o.Clock = types.RealClock()
	}
}

// Relay polls the notification outbox and hands pending messages to the
// dispatcher. It runs outside the workflow transaction boundary and never
// touches application rows; a dead letter here cannot undo a transition.
type Relay struct {
	pool       *pgxpool.Pool
	dispatcher Dispatcher
	opts       RelayOptions
}

func NewRelay(pool *pgxpool.Pool, dispatcher Dispatcher, opts RelayOptions) *Relay {
	opts.setDefaults()
	return &Relay{pool: pool, dispatcher: dispatcher, opts: opts}
}

func (r *Relay) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.opts.Clock.After(r.opts.PollInterval):
		}
		if err := r.drainOnce(ctx); err != nil && ctx.Err() == nil {
			r.opts.Logger.WithError(err).Warn("outbox: drain failed")
		}
	}
}

const selectBatchQuery = `
SELECT id, event_type, payload, attempts, created_at
FROM notification_outbox
WHERE status = 'pending' AND next_attempt_at <= now()
ORDER BY created_at
LIMIT $1
FOR UPDATE SKIP LOCKED`

func (r *Relay) drainOnce(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked bool
	if err := tx.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1)`, relayLockKey).Scan(&locked); err != nil {
		return err
	}
	if !locked {
		return nil
	}

	rows, err := tx.Query(ctx, selectBatchQuery, r.opts.BatchSize)
	if err != nil {
		return err
	}
	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Message, error) {
		var m Message
		err := row.Scan(&m.ID, &m.EventType, &m.Payload, &m.Attempts, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		r.dispatchOne(ctx, tx, msg)
	}
	return tx.Commit(ctx)
}

func (r *Relay) dispatchOne(ctx context.Context, tx pgx.Tx, msg Message) {
	m := metrics.Workflow()
	if err := r.dispatcher.Dispatch(ctx, msg); err != nil {
		m.OutboxDispatched.WithLabelValues("failure").Inc()
		attempts := msg.Attempts + 1
		if attempts >= r.opts.MaxAttempts {
			if _, uErr := tx.Exec(ctx,
				`UPDATE notification_outbox SET status = 'dead', attempts = $2, last_error = $3 WHERE id = $1`,
				msg.ID, attempts, err.Error(),
			); uErr != nil {
				r.opts.Logger.WithError(uErr).Error("outbox: failed to mark message dead")
			}
			r.opts.Logger.WithError(err).WithField("message_id", msg.ID).Error("outbox: message dead-lettered")
			return
		}
		if _, uErr := tx.Exec(ctx,
			`UPDATE notification_outbox
			 SET attempts = $2, last_error = $3, next_attempt_at = now() + $4::interval
			 WHERE id = $1`,
			msg.ID, attempts, err.Error(), backoff(attempts).String(),
		); uErr != nil {
			r.opts.Logger.WithError(uErr).Error("outbox: failed to schedule retry")
		}
		return
	}

	m.OutboxDispatched.WithLabelValues("success").Inc()
	if _, err := tx.Exec(ctx,
		`UPDATE notification_outbox SET status = 'dispatched', dispatched_at = now() WHERE id = $1`,
		msg.ID,
	); err != nil {
		r.opts.Logger.WithError(err).Error("outbox: failed to mark message dispatched")
	}
}

// backoff doubles per attempt, capped at five minutes.
func backoff(attempts int) time.Duration {
	d := time.Second
	for i := 1; i < attempts && d < 5*time.Minute; i++ {
		d *= 2
	}
	if d > 5*time.Minute {
		d = 5 * time.Minute
	}
	return d
}

package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/harborcredit/loanscreen/pkg/types"
)

type CleanerOptions struct {
	Interval  time.Duration
	Retention time.Duration
	Logger    *logrus.Logger
	Clock     types.Clock
}

func (o *CleanerOptions) setDefaults() {
	if o.Interval <= 0 {
		o.Interval = time.Minute
	}
	if o.Retention <= 0 {
		o.Retention = 7 * 24 * time.Hour
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
	if o.Clock == nil {
		o.Clock = types.RealClock()
	}
}

// Cleaner prunes dispatched outbox rows past retention. It only ever deletes
// from notification_outbox.
type Cleaner struct {
	pool *pgxpool.Pool
	opts CleanerOptions
}

func NewCleaner(pool *pgxpool.Pool, opts CleanerOptions) *Cleaner {
	opts.setDefaults()
	return &Cleaner{pool: pool, opts: opts}
}

func (c *Cleaner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.opts.Clock.After(c.opts.Interval):
		}
		cutoff := c.opts.Clock.Now().Add(-c.opts.Retention)
		tag, err := c.pool.Exec(ctx,
			`DELETE FROM notification_outbox WHERE status = 'dispatched' AND dispatched_at < $1`,
			cutoff,
		)
		if err != nil {
			if ctx.Err() == nil {
				c.opts.Logger.WithError(err).Warn("outbox: cleanup failed")
			}
			continue
		}
		if tag.RowsAffected() > 0 {
			c.opts.Logger.WithField("rows", tag.RowsAffected()).Debug("outbox: pruned dispatched messages")
		}
	}
}

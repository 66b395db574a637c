package workflowhistory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
)

// Entry is one row of the append-only audit trail. Entries are created
// exclusively by the workflow engine as a side effect of a committed
// transition; they are never updated or deleted.
type Entry struct {
	ID              uuid.UUID
	ApplicationID   uuid.UUID
	FromStatus      application.Status
	ToStatus        application.Status
	ActingUserID    uuid.UUID
	ActingRole      string
	Comment         string
	SystemGenerated bool
	CreatedAt       time.Time
}

type FindParams struct {
	ApplicationID uuid.UUID
	Limit         int
	Offset        int
}

type Repository interface {
	// Append inserts a new entry. There is no update or delete.
	Append(ctx context.Context, entry *Entry) (*Entry, error)
	// List returns entries for an application, newest first.
	List(ctx context.Context, params *FindParams) ([]*Entry, error)
	Count(ctx context.Context, applicationID uuid.UUID) (int64, error)
}

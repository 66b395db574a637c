package officer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harborcredit/loanscreen/pkg/serrors"
)

var ErrNotFound = serrors.NewError("OFFICER_NOT_FOUND", "officer not found", "")

type FindParams struct {
	Roles  []Role
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Officer, error)
	List(ctx context.Context, params *FindParams) ([]Officer, error)
	Create(ctx context.Context, o Officer) (Officer, error)

	// EligibleCandidates returns every ACTIVE officer in the given roles with
	// its current active-case workload, computed at call time.
	EligibleCandidates(ctx context.Context, roles []Role) ([]Candidate, error)

	// TouchLastAssigned records an assignment for round-robin tie-breaking.
	TouchLastAssigned(ctx context.Context, id uuid.UUID, at time.Time) error
}

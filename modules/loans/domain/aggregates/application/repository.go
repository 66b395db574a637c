package application

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Statuses      []Status
	LoanOfficerID *uuid.UUID
	Limit         int
	Offset        int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	List(ctx context.Context, params *FindParams) ([]Application, int64, error)
	Create(ctx context.Context, app Application) (Application, error)

	// UpdateWithVersion persists the aggregate if and only if the stored
	// version still equals expectedVersion, incrementing it by one. A stale
	// expectation fails with ErrVersionConflict and writes nothing.
	UpdateWithVersion(ctx context.Context, app Application, expectedVersion int64) (Application, error)
}

package docrequest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harborcredit/loanscreen/pkg/serrors"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusFulfilled  Status = "FULFILLED"
	StatusExpired    Status = "EXPIRED"
	StatusSuperseded Status = "SUPERSEDED"
)

var ErrNoPendingRequest = serrors.NewError("LOAN_NOT_FOUND", "no pending document request", "")

// Request is a compliance document request. At most one PENDING request
// exists per application; issuing a new one supersedes the old instead of
// deleting it.
type Request struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	DocumentTypes []string
	Reason        string
	DeadlineDays  int
	DeadlineAt    time.Time
	Status        Status
	RequestedBy   uuid.UUID
	RequestedAt   time.Time
}

// Expired reports whether the deadline has elapsed at the given instant.
func (r *Request) Expired(now time.Time) bool {
	return r.Status == StatusPending && now.After(r.DeadlineAt)
}

type Repository interface {
	Create(ctx context.Context, req *Request) (*Request, error)
	GetPending(ctx context.Context, applicationID uuid.UUID) (*Request, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*Request, error)

	// UpdateStatus moves a single request between PENDING and its resolved
	// states.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// SupersedePending marks any PENDING request for the application as
	// SUPERSEDED and returns how many rows changed.
	SupersedePending(ctx context.Context, applicationID uuid.UUID) (int64, error)
}

package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/docrequest"
	"github.com/harborcredit/loanscreen/pkg/composables"
)

const docRequestColumns = `
	id, application_id, document_types, reason,
	deadline_days, deadline_at, status, requested_by, requested_at`

type DocRequestRepository struct{}

func NewDocRequestRepository() docrequest.Repository {
	return &DocRequestRepository{}
}

func scanDocRequest(row pgx.Row) (*docrequest.Request, error) {
	var (
		id, appID, requestedBy  pgtype.UUID
		docTypes                []string
		reason, status          string
		deadlineDays            int32
		deadlineAt, requestedAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &appID, &docTypes, &reason, &deadlineDays, &deadlineAt, &status, &requestedBy, &requestedAt)
	if err != nil {
		return nil, err
	}
	return &docrequest.Request{
		ID:            asUUID(id),
		ApplicationID: asUUID(appID),
		DocumentTypes: docTypes,
		Reason:        reason,
		DeadlineDays:  int(deadlineDays),
		DeadlineAt:    asTime(deadlineAt),
		Status:        docrequest.Status(status),
		RequestedBy:   asUUID(requestedBy),
		RequestedAt:   asTime(requestedAt),
	}, nil
}

func (r *DocRequestRepository) Create(ctx context.Context, req *docrequest.Request) (*docrequest.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	created, err := scanDocRequest(tx.QueryRow(ctx, `
		INSERT INTO compliance_document_requests (
			application_id, document_types, reason,
			deadline_days, deadline_at, status, requested_by, requested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+docRequestColumns,
		pgUUID(req.ApplicationID),
		req.DocumentTypes,
		req.Reason,
		req.DeadlineDays,
		pgtype.Timestamptz{Time: req.DeadlineAt, Valid: true},
		string(req.Status),
		pgUUID(req.RequestedBy),
		pgtype.Timestamptz{Time: req.RequestedAt, Valid: true},
	))
	if err != nil {
		return nil, gerrors.Wrap(err, "create document request")
	}
	return created, nil
}

func (r *DocRequestRepository) GetPending(ctx context.Context, applicationID uuid.UUID) (*docrequest.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	req, err := scanDocRequest(tx.QueryRow(ctx,
		`SELECT `+docRequestColumns+`
		 FROM compliance_document_requests
		 WHERE application_id = $1 AND status = $2`,
		pgUUID(applicationID), string(docrequest.StatusPending),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docrequest.ErrNoPendingRequest
		}
		return nil, gerrors.Wrap(err, "get pending document request")
	}
	return req, nil
}

func (r *DocRequestRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*docrequest.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT `+docRequestColumns+`
		 FROM compliance_document_requests
		 WHERE application_id = $1
		 ORDER BY requested_at DESC`,
		pgUUID(applicationID),
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "list document requests")
	}
	defer rows.Close()

	var out []*docrequest.Request
	for rows.Next() {
		req, err := scanDocRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *DocRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status docrequest.Status) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE compliance_document_requests SET status = $2 WHERE id = $1`,
		pgUUID(id), string(status),
	)
	if err != nil {
		return gerrors.Wrap(err, "update document request status")
	}
	if tag.RowsAffected() == 0 {
		return docrequest.ErrNoPendingRequest
	}
	return nil
}

func (r *DocRequestRepository) SupersedePending(ctx context.Context, applicationID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE compliance_document_requests
		 SET status = $2
		 WHERE application_id = $1 AND status = $3`,
		pgUUID(applicationID),
		string(docrequest.StatusSuperseded),
		string(docrequest.StatusPending),
	)
	if err != nil {
		return 0, gerrors.Wrap(err, "supersede pending document requests")
	}
	return tag.RowsAffected(), nil
}

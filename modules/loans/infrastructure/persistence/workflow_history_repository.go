package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/workflowhistory"
	"github.com/harborcredit/loanscreen/pkg/composables"
)

type WorkflowHistoryRepository struct{}

func NewWorkflowHistoryRepository() workflowhistory.Repository {
	return &WorkflowHistoryRepository{}
}

func (r *WorkflowHistoryRepository) Append(ctx context.Context, entry *workflowhistory.Entry) (*workflowhistory.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var id pgtype.UUID
	var createdAt pgtype.Timestamptz
	err = tx.QueryRow(ctx, `
		INSERT INTO workflow_history (
			application_id, from_status, to_status,
			acting_user_id, acting_role, comment, system_generated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		pgUUID(entry.ApplicationID),
		string(entry.FromStatus),
		string(entry.ToStatus),
		pgUUID(entry.ActingUserID),
		entry.ActingRole,
		entry.Comment,
		entry.SystemGenerated,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, gerrors.Wrap(err, "append workflow history")
	}

	out := *entry
	out.ID = asUUID(id)
	out.CreatedAt = asTime(createdAt)
	return &out, nil
}

func (r *WorkflowHistoryRepository) List(ctx context.Context, params *workflowhistory.FindParams) ([]*workflowhistory.Entry, error) {
	if params == nil {
		return nil, gerrors.New("find params are required")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := tx.Query(ctx, `
		SELECT id, application_id, from_status, to_status,
		       acting_user_id, acting_role, comment, system_generated, created_at
		FROM workflow_history
		WHERE application_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		pgUUID(params.ApplicationID), limit, offset,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "list workflow history")
	}
	defer rows.Close()

	out := make([]*workflowhistory.Entry, 0, limit)
	for rows.Next() {
		var (
			id, appID, actorID   pgtype.UUID
			from, to, role, note string
			system               bool
			createdAt            pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &appID, &from, &to, &actorID, &role, &note, &system, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, &workflowhistory.Entry{
			ID:              asUUID(id),
			ApplicationID:   asUUID(appID),
			FromStatus:      application.Status(from),
			ToStatus:        application.Status(to),
			ActingUserID:    asUUID(actorID),
			ActingRole:      role,
			Comment:         note,
			SystemGenerated: system,
			CreatedAt:       asTime(createdAt),
		})
	}
	return out, rows.Err()
}

func (r *WorkflowHistoryRepository) Count(ctx context.Context, applicationID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM workflow_history WHERE application_id = $1`,
		pgUUID(applicationID),
	).Scan(&total)
	if err != nil {
		return 0, gerrors.Wrap(err, "count workflow history")
	}
	return total, nil
}

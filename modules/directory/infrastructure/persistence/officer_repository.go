package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/pkg/composables"
)

const officerColumns = `id, name, role, status, last_assigned_at, created_at, updated_at`

type OfficerRepository struct{}

func NewOfficerRepository() officer.Repository {
	return &OfficerRepository{}
}

func scanOfficer(row pgx.Row) (officer.Officer, error) {
	var (
		id                             pgtype.UUID
		name, role, status             string
		lastAssigned, created, updated pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &role, &status, &lastAssigned, &created, &updated); err != nil {
		return officer.Officer{}, err
	}
	var lastAssignedAt *time.Time
	if lastAssigned.Valid {
		t := lastAssigned.Time
		lastAssignedAt = &t
	}
	return officer.Hydrate(
		uuid.UUID(id.Bytes),
		name,
		officer.Role(role),
		officer.Status(status),
		lastAssignedAt,
		created.Time,
		updated.Time,
	), nil
}

func (r *OfficerRepository) GetByID(ctx context.Context, id uuid.UUID) (officer.Officer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return officer.Officer{}, err
	}

	o, err := scanOfficer(tx.QueryRow(ctx,
		`SELECT `+officerColumns+` FROM officers WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true},
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return officer.Officer{}, officer.ErrNotFound
		}
		return officer.Officer{}, gerrors.Wrap(err, "get officer")
	}
	return o, nil
}

func (r *OfficerRepository) List(ctx context.Context, params *officer.FindParams) ([]officer.Officer, error) {
	if params == nil {
		params = &officer.FindParams{}
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

	var roles []string
	for _, role := range params.Roles {
		roles = append(roles, string(role))
	}

	rows, err := tx.Query(ctx, `
		SELECT `+officerColumns+`
		FROM officers
		WHERE (cardinality($1::text[]) = 0 OR role = ANY ($1))
		  AND ($2 = '' OR status = $2)
		ORDER BY name
		LIMIT $3 OFFSET $4`,
		roles, string(params.Status), limit, offset,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "list officers")
	}
	defer rows.Close()

	var out []officer.Officer
	for rows.Next() {
		o, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OfficerRepository) Create(ctx context.Context, o officer.Officer) (officer.Officer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return officer.Officer{}, err
	}

	created, err := scanOfficer(tx.QueryRow(ctx, `
		INSERT INTO officers (name, role, status)
		VALUES ($1, $2, $3)
		RETURNING `+officerColumns,
		o.Name(), string(o.Role()), string(o.Status()),
	))
	if err != nil {
		return officer.Officer{}, gerrors.Wrap(err, "create officer")
	}
	return created, nil
}

// EligibleCandidates computes workloads inline with a single query: every
// active officer in the requested roles joined against the applications it
// currently holds, counting only non-terminal cases. Counting at read time
// keeps the balance honest under concurrent assignment.
func (r *OfficerRepository) EligibleCandidates(ctx context.Context, roles []officer.Role) ([]officer.Candidate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, string(role))
	}
	var activeStatuses []string
	for _, s := range application.ActiveStatuses() {
		activeStatuses = append(activeStatuses, string(s))
	}

	rows, err := tx.Query(ctx, `
		SELECT o.id, o.name, o.role, o.status, o.last_assigned_at, o.created_at, o.updated_at,
		       count(a.id) AS active_cases
		FROM officers o
		LEFT JOIN applications a
		  ON (a.loan_officer_id = o.id OR a.compliance_officer_id = o.id)
		 AND a.status = ANY ($3)
		WHERE o.role = ANY ($1) AND o.status = $2
		GROUP BY o.id
		ORDER BY active_cases, o.last_assigned_at NULLS FIRST`,
		roleNames, string(officer.StatusActive), activeStatuses,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "load eligible candidates")
	}
	defer rows.Close()

	var out []officer.Candidate
	for rows.Next() {
		var (
			id                             pgtype.UUID
			name, role, status             string
			lastAssigned, created, updated pgtype.Timestamptz
			activeCases                    int64
		)
		if err := rows.Scan(&id, &name, &role, &status, &lastAssigned, &created, &updated, &activeCases); err != nil {
			return nil, err
		}
		var lastAssignedAt *time.Time
		if lastAssigned.Valid {
			t := lastAssigned.Time
			lastAssignedAt = &t
		}
		out = append(out, officer.Candidate{
			Officer: officer.Hydrate(
				uuid.UUID(id.Bytes),
				name,
				officer.Role(role),
				officer.Status(status),
				lastAssignedAt,
				created.Time,
				updated.Time,
			),
			ActiveCases: int(activeCases),
		})
	}
	return out, rows.Err()
}

func (r *OfficerRepository) TouchLastAssigned(ctx context.Context, id uuid.UUID, at time.Time) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE officers SET last_assigned_at = $2, updated_at = now() WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true},
		pgtype.Timestamptz{Time: at, Valid: true},
	)
	if err != nil {
		return gerrors.Wrap(err, "touch last assigned")
	}
	if tag.RowsAffected() == 0 {
		return officer.ErrNotFound
	}
	return nil
}

package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/pkg/composables"
)

const applicationColumns = `
	id, applicant_id, loan_officer_id, compliance_officer_id,
	status, priority, risk_level,
	requested_amount::text, requested_tenure_months,
	credit_score, risk_score::text, risk_factors, score_attached_at,
	decision_type, decision_reason, approved_amount::text, interest_rate::text,
	decision_tenure_months, decided_by, decided_at,
	compliance_reason, compliance_summary,
	version, created_at, updated_at`

type applicationRow struct {
	ID                    pgtype.UUID
	ApplicantID           pgtype.UUID
	LoanOfficerID         pgtype.UUID
	ComplianceOfficerID   pgtype.UUID
	Status                string
	Priority              string
	RiskLevel             string
	RequestedAmount       pgtype.Text
	RequestedTenureMonths int32
	CreditScore           pgtype.Int4
	RiskScore             pgtype.Text
	RiskFactors           []string
	ScoreAttachedAt       pgtype.Timestamptz
	DecisionType          pgtype.Text
	DecisionReason        pgtype.Text
	ApprovedAmount        pgtype.Text
	InterestRate          pgtype.Text
	DecisionTenureMonths  pgtype.Int4
	DecidedBy             pgtype.UUID
	DecidedAt             pgtype.Timestamptz
	ComplianceReason      pgtype.Text
	ComplianceSummary     pgtype.Text
	Version               int64
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

func scanApplicationRow(row pgx.Row) (applicationRow, error) {
	var r applicationRow
	err := row.Scan(
		&r.ID, &r.ApplicantID, &r.LoanOfficerID, &r.ComplianceOfficerID,
		&r.Status, &r.Priority, &r.RiskLevel,
		&r.RequestedAmount, &r.RequestedTenureMonths,
		&r.CreditScore, &r.RiskScore, &r.RiskFactors, &r.ScoreAttachedAt,
		&r.DecisionType, &r.DecisionReason, &r.ApprovedAmount, &r.InterestRate,
		&r.DecisionTenureMonths, &r.DecidedBy, &r.DecidedAt,
		&r.ComplianceReason, &r.ComplianceSummary,
		&r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func toDomainApplication(r applicationRow) application.Application {
	var score *application.ScoreSnapshot
	if r.CreditScore.Valid {
		score = &application.ScoreSnapshot{
			CreditScore: int(r.CreditScore.Int32),
			RiskScore:   asDecimal(r.RiskScore),
			RiskFactors: r.RiskFactors,
			AttachedAt:  asTime(r.ScoreAttachedAt),
		}
	}

	var decision *application.Decision
	if r.DecisionType.Valid {
		decision = &application.Decision{
			Type:           application.DecisionType(r.DecisionType.String),
			Reason:         r.DecisionReason.String,
			ApprovedAmount: asDecimal(r.ApprovedAmount),
			InterestRate:   asDecimal(r.InterestRate),
			TenureMonths:   int(r.DecisionTenureMonths.Int32),
			DecidedBy:      asUUID(r.DecidedBy),
			DecidedAt:      asTime(r.DecidedAt),
		}
	}

	return application.Hydrate(
		asUUID(r.ID),
		asUUID(r.ApplicantID),
		asUUIDPtr(r.LoanOfficerID),
		asUUIDPtr(r.ComplianceOfficerID),
		application.Status(r.Status),
		application.Priority(r.Priority),
		application.RiskLevel(r.RiskLevel),
		asDecimal(r.RequestedAmount),
		int(r.RequestedTenureMonths),
		score,
		decision,
		asTextPtr(r.ComplianceReason),
		asTextPtr(r.ComplianceSummary),
		r.Version,
		asTime(r.CreatedAt),
		asTime(r.UpdatedAt),
	)
}

type ApplicationRepository struct{}

func NewApplicationRepository() application.Repository {
	return &ApplicationRepository{}
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return application.Application{}, err
	}

	row, err := scanApplicationRow(tx.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`,
		pgUUID(id),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, gerrors.Wrap(err, "get application")
	}
	return toDomainApplication(row), nil
}

func (r *ApplicationRepository) List(ctx context.Context, params *application.FindParams) ([]application.Application, int64, error) {
	if params == nil {
		params = &application.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	var statuses []string
	for _, s := range params.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := tx.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE (cardinality($1::text[]) = 0 OR status = ANY ($1))
		  AND ($2::uuid IS NULL OR loan_officer_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		statuses, pgUUIDPtr(params.LoanOfficerID), limit, offset,
	)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list applications")
	}
	defer rows.Close()

	out := make([]application.Application, 0, limit)
	for rows.Next() {
		row, err := scanApplicationRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainApplication(row))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	err = tx.QueryRow(ctx, `
		SELECT count(*)
		FROM applications
		WHERE (cardinality($1::text[]) = 0 OR status = ANY ($1))
		  AND ($2::uuid IS NULL OR loan_officer_id = $2)`,
		statuses, pgUUIDPtr(params.LoanOfficerID),
	).Scan(&total)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "count applications")
	}
	return out, total, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (application.Application, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return application.Application{}, err
	}

	row, err := scanApplicationRow(tx.QueryRow(ctx, `
		INSERT INTO applications (
			applicant_id, status, priority, risk_level,
			requested_amount, requested_tenure_months, version
		)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, 1)
		RETURNING `+applicationColumns,
		pgUUID(app.ApplicantID()),
		string(app.Status()),
		string(app.Priority()),
		string(app.RiskLevel()),
		app.RequestedAmount().String(),
		app.RequestedTenureMonths(),
	))
	if err != nil {
		return application.Application{}, gerrors.Wrap(err, "create application")
	}
	return toDomainApplication(row), nil
}

// UpdateWithVersion is the optimistic-concurrency write: the row is updated
// only when the stored version still matches, and the version advances by
// exactly one. Zero rows means either a stale version or a missing row; the
// two are told apart with a follow-up read.
func (r *ApplicationRepository) UpdateWithVersion(ctx context.Context, app application.Application, expectedVersion int64) (application.Application, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return application.Application{}, err
	}

	var creditScore pgtype.Int4
	var riskScore, approvedAmount, interestRate pgtype.Text
	var riskFactors []string
	var scoreAttachedAt, decidedAt pgtype.Timestamptz
	var decisionType, decisionReason pgtype.Text
	var decisionTenure pgtype.Int4
	var decidedBy pgtype.UUID

	if score := app.Score(); score != nil {
		creditScore = pgtype.Int4{Int32: int32(score.CreditScore), Valid: true}
		riskScore = pgtype.Text{String: score.RiskScore.String(), Valid: true}
		riskFactors = score.RiskFactors
		scoreAttachedAt = pgtype.Timestamptz{Time: score.AttachedAt, Valid: true}
	}
	if decision := app.Decision(); decision != nil {
		decisionType = pgtype.Text{String: string(decision.Type), Valid: true}
		decisionReason = pgtype.Text{String: decision.Reason, Valid: true}
		if decision.Type == application.DecisionApproved {
			approvedAmount = pgtype.Text{String: decision.ApprovedAmount.String(), Valid: true}
			interestRate = pgtype.Text{String: decision.InterestRate.String(), Valid: true}
			decisionTenure = pgtype.Int4{Int32: int32(decision.TenureMonths), Valid: true}
		}
		decidedBy = pgUUID(decision.DecidedBy)
		decidedAt = pgtype.Timestamptz{Time: decision.DecidedAt, Valid: true}
	}

	row, err := scanApplicationRow(tx.QueryRow(ctx, `
		UPDATE applications SET
			loan_officer_id = $3,
			compliance_officer_id = $4,
			status = $5,
			priority = $6,
			risk_level = $7,
			credit_score = $8,
			risk_score = $9::numeric,
			risk_factors = $10,
			score_attached_at = $11,
			decision_type = $12,
			decision_reason = $13,
			approved_amount = $14::numeric,
			interest_rate = $15::numeric,
			decision_tenure_months = $16,
			decided_by = $17,
			decided_at = $18,
			compliance_reason = $19,
			compliance_summary = $20,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING `+applicationColumns,
		pgUUID(app.ID()), expectedVersion,
		pgUUIDPtr(app.LoanOfficerID()), pgUUIDPtr(app.ComplianceOfficerID()),
		string(app.Status()), string(app.Priority()), string(app.RiskLevel()),
		creditScore, riskScore, riskFactors, scoreAttachedAt,
		decisionType, decisionReason, approvedAmount, interestRate,
		decisionTenure, decidedBy, decidedAt,
		pgText(app.ComplianceReason()), pgText(app.ComplianceSummary()),
	))
	if err == nil {
		return toDomainApplication(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return application.Application{}, gerrors.Wrap(err, "update application")
	}

	var stored int64
	if scanErr := tx.QueryRow(ctx,
		`SELECT version FROM applications WHERE id = $1`, pgUUID(app.ID()),
	).Scan(&stored); scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, gerrors.Wrap(scanErr, "re-read application version")
	}
	return application.Application{}, application.ErrVersionConflict.WithDetails(
		"expected version %d, have %d", expectedVersion, stored)
}

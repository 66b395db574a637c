package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Decision captures the terminal loan verdict recorded by a loan officer.
type Decision struct {
	Type           DecisionType
	Reason         string
	ApprovedAmount decimal.Decimal
	InterestRate   decimal.Decimal
	TenureMonths   int
	DecidedBy      uuid.UUID
	DecidedAt      time.Time
}

// ScoreSnapshot is the oracle result attached during external verification.
// The score itself is computed outside this service.
type ScoreSnapshot struct {
	CreditScore int
	RiskScore   decimal.Decimal
	RiskFactors []string
	AttachedAt  time.Time
}

// Application is the aggregate root and single consistency boundary of the
// screening workflow. Every mutation bumps version exactly once; version is
// the optimistic-concurrency token.
type Application struct {
	id                    uuid.UUID
	applicantID           uuid.UUID
	loanOfficerID         *uuid.UUID
	complianceOfficerID   *uuid.UUID
	status                Status
	priority              Priority
	riskLevel             RiskLevel
	requestedAmount       decimal.Decimal
	requestedTenureMonths int
	score                 *ScoreSnapshot
	decision              *Decision
	complianceReason      *string
	complianceSummary     *string
	version               int64
	createdAt             time.Time
	updatedAt             time.Time
}

func New(applicantID uuid.UUID, requestedAmount decimal.Decimal, requestedTenureMonths int) Application {
	return Application{
		applicantID:           applicantID,
		status:                StatusSubmitted,
		priority:              PriorityMedium,
		riskLevel:             RiskMedium,
		requestedAmount:       requestedAmount,
		requestedTenureMonths: requestedTenureMonths,
		version:               1,
	}
}

func Hydrate(
	id uuid.UUID,
	applicantID uuid.UUID,
	loanOfficerID *uuid.UUID,
	complianceOfficerID *uuid.UUID,
	status Status,
	priority Priority,
	riskLevel RiskLevel,
	requestedAmount decimal.Decimal,
	requestedTenureMonths int,
	score *ScoreSnapshot,
	decision *Decision,
	complianceReason *string,
	complianceSummary *string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) Application {
	return Application{
		id:                    id,
		applicantID:           applicantID,
		loanOfficerID:         loanOfficerID,
		complianceOfficerID:   complianceOfficerID,
		status:                status,
		priority:              priority,
		riskLevel:             riskLevel,
		requestedAmount:       requestedAmount,
		requestedTenureMonths: requestedTenureMonths,
		score:                 score,
		decision:              decision,
		complianceReason:      complianceReason,
		complianceSummary:     complianceSummary,
		version:               version,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

func (a Application) ID() uuid.UUID                    { return a.id }
func (a Application) ApplicantID() uuid.UUID           { return a.applicantID }
func (a Application) LoanOfficerID() *uuid.UUID        { return a.loanOfficerID }
func (a Application) ComplianceOfficerID() *uuid.UUID  { return a.complianceOfficerID }
func (a Application) Status() Status                   { return a.status }
func (a Application) Priority() Priority               { return a.priority }
func (a Application) RiskLevel() RiskLevel             { return a.riskLevel }
func (a Application) RequestedAmount() decimal.Decimal { return a.requestedAmount }
func (a Application) RequestedTenureMonths() int       { return a.requestedTenureMonths }
func (a Application) Score() *ScoreSnapshot            { return a.score }
func (a Application) Decision() *Decision              { return a.decision }
func (a Application) ComplianceReason() *string        { return a.complianceReason }
func (a Application) ComplianceSummary() *string       { return a.complianceSummary }
func (a Application) Version() int64                   { return a.version }
func (a Application) CreatedAt() time.Time             { return a.createdAt }
func (a Application) UpdatedAt() time.Time             { return a.updatedAt }
func (a Application) IsZero() bool                     { return a.id == uuid.Nil }

func (a Application) WithStatus(s Status) Application {
	a.status = s
	return a
}

func (a Application) WithLoanOfficer(id uuid.UUID) Application {
	a.loanOfficerID = &id
	return a
}

func (a Application) WithComplianceOfficer(id uuid.UUID) Application {
	a.complianceOfficerID = &id
	return a
}

func (a Application) WithPriority(p Priority) Application {
	a.priority = p
	return a
}

func (a Application) WithComplianceReason(reason string) Application {
	a.complianceReason = &reason
	return a
}

func (a Application) WithComplianceSummary(summary string) Application {
	a.complianceSummary = &summary
	return a
}

// WithScore attaches the oracle snapshot and derives the risk level from the
// risk score (0..100 scale: <30 low, <70 medium, else high).
func (a Application) WithScore(score ScoreSnapshot) Application {
	a.score = &score
	switch {
	case score.RiskScore.LessThan(decimal.NewFromInt(30)):
		a.riskLevel = RiskLow
	case score.RiskScore.LessThan(decimal.NewFromInt(70)):
		a.riskLevel = RiskMedium
	default:
		a.riskLevel = RiskHigh
	}
	return a
}

func (a Application) WithDecision(d Decision) Application {
	a.decision = &d
	return a
}

package officer

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleApplicant               Role = "APPLICANT"
	RoleLoanOfficer             Role = "LOAN_OFFICER"
	RoleSeniorLoanOfficer       Role = "SENIOR_LOAN_OFFICER"
	RoleComplianceOfficer       Role = "COMPLIANCE_OFFICER"
	RoleSeniorComplianceOfficer Role = "SENIOR_COMPLIANCE_OFFICER"
	RoleSystem                  Role = "SYSTEM"
)

func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleLoanOfficer, RoleSeniorLoanOfficer,
		RoleComplianceOfficer, RoleSeniorComplianceOfficer, RoleSystem:
		return true
	}
	return false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// LoanOfficerRoles and ComplianceOfficerRoles are the eligible pools the
// assignment engine selects from.
var (
	LoanOfficerRoles       = []Role{RoleLoanOfficer, RoleSeniorLoanOfficer}
	ComplianceOfficerRoles = []Role{RoleComplianceOfficer, RoleSeniorComplianceOfficer}
	SeniorComplianceRoles  = []Role{RoleSeniorComplianceOfficer}
)

type Officer struct {
	id             uuid.UUID
	name           string
	role           Role
	status         Status
	lastAssignedAt *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func New(name string, role Role) Officer {
	return Officer{
		name:   strings.TrimSpace(name),
		role:   role,
		status: StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	role Role,
	status Status,
	lastAssignedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) Officer {
	return Officer{
		id:             id,
		name:           strings.TrimSpace(name),
		role:           role,
		status:         status,
		lastAssignedAt: lastAssignedAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (o Officer) ID() uuid.UUID              { return o.id }
func (o Officer) Name() string               { return o.name }
func (o Officer) Role() Role                 { return o.role }
func (o Officer) Status() Status             { return o.status }
func (o Officer) LastAssignedAt() *time.Time { return o.lastAssignedAt }
func (o Officer) CreatedAt() time.Time       { return o.createdAt }
func (o Officer) UpdatedAt() time.Time       { return o.updatedAt }
func (o Officer) IsZero() bool               { return o.id == uuid.Nil && o.name == "" }

func (o Officer) Actor() Actor {
	return Actor{ID: o.id, Role: o.role, Capabilities: CapabilitiesFor(o.role)}
}

// Candidate pairs an officer with its live active-case count. Workloads are
// computed fresh at assignment time, never cached.
type Candidate struct {
	Officer     Officer
	ActiveCases int
}

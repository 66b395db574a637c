package services

import (
	"context"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/pkg/metrics"
	"github.com/harborcredit/loanscreen/pkg/types"
)

// AssignmentService routes applications to the least-loaded eligible
// officer. Workloads are read fresh on every call and the selection runs
// inside the caller's transaction, so a capacity failure aborts the
// triggering transition.
type AssignmentService struct {
	officers        officer.Repository
	capacityCeiling int
	clock           types.Clock
}

func NewAssignmentService(officers officer.Repository, capacityCeiling int, clock types.Clock) *AssignmentService {
	if clock == nil {
		clock = types.RealClock()
	}
	return &AssignmentService{
		officers:        officers,
		capacityCeiling: capacityCeiling,
		clock:           clock,
	}
}

func (s *AssignmentService) AssignLoanOfficer(ctx context.Context, _ application.Application) (officer.Officer, error) {
	picked, err := s.pickLeastLoaded(ctx, officer.LoanOfficerRoles)
	if err != nil {
		return officer.Officer{}, err
	}
	metrics.Workflow().Assignments.WithLabelValues("loan").Inc()
	return picked, nil
}

func (s *AssignmentService) AssignComplianceOfficer(ctx context.Context, _ application.Application) (officer.Officer, error) {
	picked, err := s.pickLeastLoaded(ctx, officer.ComplianceOfficerRoles)
	if err != nil {
		return officer.Officer{}, err
	}
	metrics.Workflow().Assignments.WithLabelValues("compliance").Inc()
	return picked, nil
}

// EscalateToSenior re-runs the assignment restricted to senior compliance
// officers. The outgoing assignee is not erased anywhere except on the
// aggregate itself; the audit trail keeps the old assignment visible.
func (s *AssignmentService) EscalateToSenior(ctx context.Context, _ application.Application) (officer.Officer, error) {
	picked, err := s.pickLeastLoaded(ctx, officer.SeniorComplianceRoles)
	if err != nil {
		return officer.Officer{}, err
	}
	metrics.Workflow().Assignments.WithLabelValues("senior_compliance").Inc()
	return picked, nil
}

func (s *AssignmentService) pickLeastLoaded(ctx context.Context, roles []officer.Role) (officer.Officer, error) {
	candidates, err := s.officers.EligibleCandidates(ctx, roles)
	if err != nil {
		return officer.Officer{}, err
	}
	if len(candidates) == 0 {
		return officer.Officer{}, application.ErrNoCapacity.WithDetails("no active officers in pool %v", roles)
	}

	best := officer.Candidate{}
	found := false
	for _, c := range candidates {
		if c.ActiveCases >= s.capacityCeiling {
			continue
		}
		if !found || lessLoaded(c, best) {
			best = c
			found = true
		}
	}
	if !found {
		return officer.Officer{}, application.ErrNoCapacity.WithDetails(
			"all %d candidates at capacity ceiling %d", len(candidates), s.capacityCeiling)
	}

	if err := s.officers.TouchLastAssigned(ctx, best.Officer.ID(), s.clock.Now()); err != nil {
		return officer.Officer{}, err
	}
	return best.Officer, nil
}

// lessLoaded orders candidates by workload, tie-broken by longest time since
// last assignment (never assigned wins a tie outright).
func lessLoaded(a, b officer.Candidate) bool {
	if a.ActiveCases != b.ActiveCases {
		return a.ActiveCases < b.ActiveCases
	}
	aAt, bAt := a.Officer.LastAssignedAt(), b.Officer.LastAssignedAt()
	switch {
	case aAt == nil && bAt == nil:
		return false
	case aAt == nil:
		return true
	case bAt == nil:
		return false
	default:
		return aAt.Before(*bAt)
	}
}

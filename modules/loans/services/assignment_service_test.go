package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
)

func TestAssignment_PicksLeastLoaded(t *testing.T) {
	env := newTestEnv()
	env.addOfficer(officer.RoleLoanOfficer, 5, nil)
	light := env.addOfficer(officer.RoleLoanOfficer, 1, nil)
	env.addOfficer(officer.RoleLoanOfficer, 3, nil)
	svc := NewAssignmentService(env.officers, 25, env.clock)

	picked, err := svc.AssignLoanOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.NoError(t, err)
	assert.Equal(t, light.ID(), picked.ID())
	require.Len(t, env.officers.touched, 1)
	assert.Equal(t, light.ID(), env.officers.touched[0], "assignment must be recorded for tie-breaking")
}

func TestAssignment_TieBreakByOldestAssignment(t *testing.T) {
	env := newTestEnv()
	recent := time.Now().Add(-time.Hour)
	old := time.Now().Add(-48 * time.Hour)
	env.addOfficer(officer.RoleLoanOfficer, 2, &recent)
	stale := env.addOfficer(officer.RoleLoanOfficer, 2, &old)
	svc := NewAssignmentService(env.officers, 25, env.clock)

	picked, err := svc.AssignLoanOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.NoError(t, err)
	assert.Equal(t, stale.ID(), picked.ID())
}

func TestAssignment_NeverAssignedWinsTie(t *testing.T) {
	env := newTestEnv()
	assignedBefore := time.Now().Add(-time.Minute)
	env.addOfficer(officer.RoleLoanOfficer, 2, &assignedBefore)
	fresh := env.addOfficer(officer.RoleLoanOfficer, 2, nil)
	svc := NewAssignmentService(env.officers, 25, env.clock)

	picked, err := svc.AssignLoanOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.NoError(t, err)
	assert.Equal(t, fresh.ID(), picked.ID())
}

func TestAssignment_SkipsOfficersAtCeiling(t *testing.T) {
	env := newTestEnv()
	env.addOfficer(officer.RoleLoanOfficer, 10, nil)
	spare := env.addOfficer(officer.RoleLoanOfficer, 12, nil)
	svc := NewAssignmentService(env.officers, 11, env.clock)

	picked, err := svc.AssignLoanOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.NoError(t, err)
	assert.NotEqual(t, spare.ID(), picked.ID())
}

func TestAssignment_NoCapacity(t *testing.T) {
	env := newTestEnv()
	svc := NewAssignmentService(env.officers, 25, env.clock)

	// empty pool
	_, err := svc.AssignLoanOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.ErrorIs(t, err, application.ErrNoCapacity)

	// every candidate saturated
	env.addOfficer(officer.RoleLoanOfficer, 25, nil)
	env.addOfficer(officer.RoleLoanOfficer, 30, nil)
	_, err = svc.AssignLoanOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.ErrorIs(t, err, application.ErrNoCapacity)
}

func TestAssignment_PoolsAreRoleScoped(t *testing.T) {
	env := newTestEnv()
	env.addOfficer(officer.RoleLoanOfficer, 0, nil)
	compliance := env.addOfficer(officer.RoleComplianceOfficer, 3, nil)
	senior := env.addOfficer(officer.RoleSeniorComplianceOfficer, 7, nil)
	svc := NewAssignmentService(env.officers, 25, env.clock)

	picked, err := svc.AssignComplianceOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.NoError(t, err)
	assert.Equal(t, compliance.ID(), picked.ID(), "compliance pool picks the least loaded compliance officer")

	escalated, err := svc.EscalateToSenior(env.ctx(officer.SystemActor()), application.Application{})
	require.NoError(t, err)
	assert.Equal(t, senior.ID(), escalated.ID(), "escalation is restricted to senior compliance officers")
}

func TestAssignment_RepositoryErrorPropagates(t *testing.T) {
	env := newTestEnv()
	env.officers.listErr = errors.New("connection reset")
	svc := NewAssignmentService(env.officers, 25, env.clock)

	_, err := svc.AssignLoanOfficer(env.ctx(officer.SystemActor()), application.Application{})
	require.Error(t, err)
	require.NotErrorIs(t, err, application.ErrNoCapacity)
}

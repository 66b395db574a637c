package officer_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
)

func TestCapabilitiesFor(t *testing.T) {
	applicant := officer.NewActor(uuid.New(), officer.RoleApplicant)
	assert.True(t, applicant.Can(officer.CanSubmitApplication))
	assert.False(t, applicant.Can(officer.CanVerifyDocuments))
	assert.False(t, applicant.Can(officer.CanDecideLoan))

	loanOfficer := officer.NewActor(uuid.New(), officer.RoleLoanOfficer)
	assert.True(t, loanOfficer.Can(officer.CanVerifyDocuments))
	assert.True(t, loanOfficer.Can(officer.CanDecideLoan))
	assert.True(t, loanOfficer.Can(officer.CanFlagCompliance))
	assert.False(t, loanOfficer.Can(officer.CanDecideCompliance))

	complianceOfficer := officer.NewActor(uuid.New(), officer.RoleComplianceOfficer)
	assert.True(t, complianceOfficer.Can(officer.CanInvestigateCompliance))
	assert.True(t, complianceOfficer.Can(officer.CanDecideCompliance))
	assert.True(t, complianceOfficer.Can(officer.CanEscalateCompliance))
	assert.False(t, complianceOfficer.Can(officer.CanDecideLoan))
	assert.False(t, complianceOfficer.Can(officer.CanFlagCompliance))

	unknown := officer.NewActor(uuid.New(), officer.Role("JANITOR"))
	assert.False(t, unknown.Can(officer.CanSubmitApplication))
}

func TestSystemActor(t *testing.T) {
	sys := officer.SystemActor()
	assert.True(t, sys.IsSystem())
	assert.Equal(t, uuid.Nil, sys.ID)
	assert.True(t, sys.Can(officer.CanProcessTimeouts))
	assert.True(t, sys.Can(officer.CanVerifyDocuments))
	assert.False(t, sys.Can(officer.CanDecideLoan), "the system never decides loans")
	assert.False(t, sys.Can(officer.CanDecideCompliance), "the system never decides compliance")
}

func TestRoleValid(t *testing.T) {
	for _, role := range []officer.Role{
		officer.RoleApplicant, officer.RoleLoanOfficer, officer.RoleSeniorLoanOfficer,
		officer.RoleComplianceOfficer, officer.RoleSeniorComplianceOfficer, officer.RoleSystem,
	} {
		assert.True(t, role.Valid(), "%s", role)
	}
	assert.False(t, officer.Role("").Valid())
	assert.False(t, officer.Role("MANAGER").Valid())
}

package application_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
)

func actorWithRole(role officer.Role) officer.Actor {
	return officer.NewActor(uuid.New(), role)
}

func TestValidateTransition_HappyPath(t *testing.T) {
	loanOfficer := actorWithRole(officer.RoleLoanOfficer)
	complianceOfficer := actorWithRole(officer.RoleComplianceOfficer)

	cases := []struct {
		name  string
		from  application.Status
		to    application.Status
		actor officer.Actor
	}{
		{"start verification", application.StatusSubmitted, application.StatusDocumentVerificationInProgress, loanOfficer},
		{"trigger external", application.StatusDocumentVerificationInProgress, application.StatusExternalVerificationPending, loanOfficer},
		{"complete external", application.StatusExternalVerificationPending, application.StatusReadyForDecision, loanOfficer},
		{"approve", application.StatusReadyForDecision, application.StatusApproved, loanOfficer},
		{"reject", application.StatusReadyForDecision, application.StatusRejected, loanOfficer},
		{"start investigation", application.StatusFlaggedForCompliance, application.StatusUnderComplianceReview, complianceOfficer},
		{"request documents", application.StatusUnderComplianceReview, application.StatusPendingComplianceDocs, complianceOfficer},
		{"documents received", application.StatusPendingComplianceDocs, application.StatusUnderComplianceReview, complianceOfficer},
		{"trigger decision", application.StatusUnderComplianceReview, application.StatusAwaitingComplianceDecision, complianceOfficer},
		{"compliance approve", application.StatusAwaitingComplianceDecision, application.StatusReadyForDecision, complianceOfficer},
		{"compliance reject", application.StatusAwaitingComplianceDecision, application.StatusRejected, complianceOfficer},
		{"quick clear", application.StatusFlaggedForCompliance, application.StatusReadyForDecision, complianceOfficer},
		{"quick reject", application.StatusFlaggedForCompliance, application.StatusRejected, complianceOfficer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, application.ValidateTransition(tc.from, tc.to, tc.actor))
		})
	}
}

func TestValidateTransition_TerminalStatusesAdmitNothing(t *testing.T) {
	loanOfficer := actorWithRole(officer.RoleLoanOfficer)
	for _, terminal := range []application.Status{application.StatusApproved, application.StatusRejected} {
		for _, to := range application.ActiveStatuses() {
			err := application.ValidateTransition(terminal, to, loanOfficer)
			require.ErrorIs(t, err, application.ErrInvalidTransition, "from %s to %s", terminal, to)
		}
	}
}

func TestValidateTransition_CapabilityRequired(t *testing.T) {
	applicant := actorWithRole(officer.RoleApplicant)
	complianceOfficer := actorWithRole(officer.RoleComplianceOfficer)
	loanOfficer := actorWithRole(officer.RoleLoanOfficer)

	// applicants hold no workflow capabilities past submission
	err := application.ValidateTransition(application.StatusSubmitted, application.StatusDocumentVerificationInProgress, applicant)
	require.ErrorIs(t, err, application.ErrInvalidTransition)

	// compliance officers cannot take the loan decision edge
	err = application.ValidateTransition(application.StatusReadyForDecision, application.StatusApproved, complianceOfficer)
	require.ErrorIs(t, err, application.ErrInvalidTransition)

	// loan officers cannot drive compliance investigation
	err = application.ValidateTransition(application.StatusFlaggedForCompliance, application.StatusUnderComplianceReview, loanOfficer)
	require.ErrorIs(t, err, application.ErrInvalidTransition)
}

func TestValidateTransition_NoSkippingStages(t *testing.T) {
	loanOfficer := actorWithRole(officer.RoleLoanOfficer)

	err := application.ValidateTransition(application.StatusSubmitted, application.StatusApproved, loanOfficer)
	require.ErrorIs(t, err, application.ErrInvalidTransition)

	err = application.ValidateTransition(application.StatusSubmitted, application.StatusReadyForDecision, loanOfficer)
	require.ErrorIs(t, err, application.ErrInvalidTransition)

	err = application.ValidateTransition(application.StatusDocumentVerificationInProgress, application.StatusReadyForDecision, loanOfficer)
	require.ErrorIs(t, err, application.ErrInvalidTransition)
}

func TestValidateTransition_FlagForCompliance(t *testing.T) {
	loanOfficer := actorWithRole(officer.RoleLoanOfficer)
	complianceOfficer := actorWithRole(officer.RoleComplianceOfficer)

	// legal from every active non-compliance status
	for _, from := range []application.Status{
		application.StatusSubmitted,
		application.StatusDocumentVerificationInProgress,
		application.StatusExternalVerificationPending,
		application.StatusReadyForDecision,
	} {
		require.NoError(t, application.ValidateTransition(from, application.StatusFlaggedForCompliance, loanOfficer), "from %s", from)
	}

	// never from inside the compliance sub-workflow
	for _, from := range []application.Status{
		application.StatusFlaggedForCompliance,
		application.StatusUnderComplianceReview,
		application.StatusPendingComplianceDocs,
		application.StatusAwaitingComplianceDecision,
	} {
		err := application.ValidateTransition(from, application.StatusFlaggedForCompliance, loanOfficer)
		require.ErrorIs(t, err, application.ErrInvalidTransition, "from %s", from)
	}

	// flagging needs the flagging capability, which compliance officers lack
	err := application.ValidateTransition(application.StatusReadyForDecision, application.StatusFlaggedForCompliance, complianceOfficer)
	require.ErrorIs(t, err, application.ErrInvalidTransition)
}

func TestValidateTransition_UnknownTarget(t *testing.T) {
	loanOfficer := actorWithRole(officer.RoleLoanOfficer)
	err := application.ValidateTransition(application.StatusSubmitted, application.Status("NOT_A_STATUS"), loanOfficer)
	require.ErrorIs(t, err, application.ErrInvalidTransition)
}

package application_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
)

func TestNew_Defaults(t *testing.T) {
	applicantID := uuid.New()
	app := application.New(applicantID, decimal.NewFromInt(50000), 36)

	assert.Equal(t, application.StatusSubmitted, app.Status())
	assert.Equal(t, application.PriorityMedium, app.Priority())
	assert.Equal(t, application.RiskMedium, app.RiskLevel())
	assert.Equal(t, int64(1), app.Version())
	assert.Equal(t, applicantID, app.ApplicantID())
	assert.Nil(t, app.LoanOfficerID())
	assert.Nil(t, app.Score())
	assert.Nil(t, app.Decision())
}

func TestWithStatus_ValueCopy(t *testing.T) {
	app := application.New(uuid.New(), decimal.NewFromInt(1000), 12)
	moved := app.WithStatus(application.StatusDocumentVerificationInProgress)

	assert.Equal(t, application.StatusSubmitted, app.Status(), "original must be untouched")
	assert.Equal(t, application.StatusDocumentVerificationInProgress, moved.Status())
}

func TestWithScore_DerivesRiskLevel(t *testing.T) {
	app := application.New(uuid.New(), decimal.NewFromInt(1000), 12)
	cases := []struct {
		riskScore int64
		want      application.RiskLevel
	}{
		{0, application.RiskLow},
		{29, application.RiskLow},
		{30, application.RiskMedium},
		{69, application.RiskMedium},
		{70, application.RiskHigh},
		{100, application.RiskHigh},
	}
	for _, tc := range cases {
		scored := app.WithScore(application.ScoreSnapshot{
			CreditScore: 700,
			RiskScore:   decimal.NewFromInt(tc.riskScore),
			AttachedAt:  time.Now(),
		})
		assert.Equal(t, tc.want, scored.RiskLevel(), "risk score %d", tc.riskScore)
	}
}

func TestStatusClassification(t *testing.T) {
	require.True(t, application.StatusApproved.IsTerminal())
	require.True(t, application.StatusRejected.IsTerminal())

	for _, s := range application.ActiveStatuses() {
		assert.False(t, s.IsTerminal(), "%s", s)
		assert.True(t, s.IsActive(), "%s", s)
	}

	assert.True(t, application.StatusFlaggedForCompliance.InCompliance())
	assert.True(t, application.StatusUnderComplianceReview.InCompliance())
	assert.True(t, application.StatusPendingComplianceDocs.InCompliance())
	assert.True(t, application.StatusAwaitingComplianceDecision.InCompliance())
	assert.False(t, application.StatusSubmitted.InCompliance())
	assert.False(t, application.StatusReadyForDecision.InCompliance())
}

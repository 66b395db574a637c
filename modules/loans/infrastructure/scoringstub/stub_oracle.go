package scoringstub

import (
	"context"
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborcredit/loanscreen/modules/loans/domain/scoring"
)

// StubOracle is a deterministic stand-in for the external scoring system.
// The score derives from the applicant id, so the same applicant always
// scores the same. Real deployments swap this for the bureau client.
type StubOracle struct{}

func New() scoring.Oracle {
	return &StubOracle{}
}

func (o *StubOracle) Calculate(_ context.Context, applicantID uuid.UUID) (scoring.Score, error) {
	seed := binary.BigEndian.Uint64(applicantID[:8])

	credit := 450 + int(seed%400)
	risk := decimal.NewFromInt(int64(seed % 100))

	var factors []string
	if credit < 550 {
		factors = append(factors, "thin_credit_file")
	}
	if risk.GreaterThanOrEqual(decimal.NewFromInt(70)) {
		factors = append(factors, "elevated_risk_band")
	}
	return scoring.Score{
		CreditScore: credit,
		RiskScore:   risk,
		RiskFactors: factors,
	}, nil
}

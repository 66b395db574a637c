package scoring

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Score is the opaque result of the external credit/fraud scoring system.
type Score struct {
	CreditScore int
	RiskScore   decimal.Decimal
	RiskFactors []string
}

// Oracle is the narrow interface to the external scoring system. The
// computation itself is out of scope; failures surface as bounded errors,
// never as raw panics.
type Oracle interface {
	Calculate(ctx context.Context, applicantID uuid.UUID) (Score, error)
}

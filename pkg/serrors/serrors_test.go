package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcredit/loanscreen/pkg/serrors"
)

func TestWithDetails_MatchesOriginal(t *testing.T) {
	base := serrors.NewError("LOAN_VERSION_CONFLICT", "application was modified concurrently", "")
	detailed := base.WithDetails("expected version %d, have %d", 3, 5)

	require.ErrorIs(t, detailed, base)
	assert.Contains(t, detailed.Error(), "expected version 3, have 5")
	assert.Empty(t, base.Details, "the original must stay untouched")
}

func TestIs_MatchesOnCodeOnly(t *testing.T) {
	a := serrors.NewError("LOAN_FORBIDDEN", "one message", "")
	b := serrors.NewError("LOAN_FORBIDDEN", "another message", "details")
	other := serrors.NewError("LOAN_NOT_FOUND", "one message", "")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, other)
	assert.NotErrorIs(t, a, errors.New("LOAN_FORBIDDEN"))
}

func TestWrappedErrorStillMatches(t *testing.T) {
	base := serrors.NewError("LOAN_NO_CAPACITY", "no eligible officer available", "")
	wrapped := fmt.Errorf("assign loan officer: %w", base.WithDetails("pool empty"))

	require.ErrorIs(t, wrapped, base)

	var target *serrors.Base
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "LOAN_NO_CAPACITY", target.Code)
}

package docrequest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/docrequest"
)

func TestExpired(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	req := &docrequest.Request{Status: docrequest.StatusPending, DeadlineAt: deadline}

	assert.False(t, req.Expired(deadline.Add(-time.Hour)))
	assert.False(t, req.Expired(deadline), "the deadline instant itself has not elapsed")
	assert.True(t, req.Expired(deadline.Add(time.Second)))

	// only pending requests can expire
	for _, status := range []docrequest.Status{
		docrequest.StatusFulfilled, docrequest.StatusExpired, docrequest.StatusSuperseded,
	} {
		resolved := &docrequest.Request{Status: status, DeadlineAt: deadline}
		assert.False(t, resolved.Expired(deadline.Add(time.Hour)), "%s", status)
	}
}

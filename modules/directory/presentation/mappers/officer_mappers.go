package mappers

import (
	"time"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/directory/presentation/viewmodels"
)

func OfficerToViewModel(o officer.Officer) *viewmodels.Officer {
	vm := &viewmodels.Officer{
		ID:        o.ID().String(),
		Name:      o.Name(),
		Role:      string(o.Role()),
		Status:    string(o.Status()),
		CreatedAt: o.CreatedAt().Format(time.RFC3339),
	}
	if at := o.LastAssignedAt(); at != nil {
		vm.LastAssignedAt = at.Format(time.RFC3339)
	}
	return vm
}

func CandidateToViewModel(c officer.Candidate) *viewmodels.Candidate {
	return &viewmodels.Candidate{
		Officer:     OfficerToViewModel(c.Officer),
		ActiveCases: c.ActiveCases,
	}
}

package mappers

import (
	"time"

	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/docrequest"
	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/workflowhistory"
	"github.com/harborcredit/loanscreen/modules/loans/presentation/viewmodels"
)

func ApplicationToViewModel(app application.Application) *viewmodels.Application {
	vm := &viewmodels.Application{
		ID:                    app.ID().String(),
		ApplicantID:           app.ApplicantID().String(),
		Status:                string(app.Status()),
		Priority:              string(app.Priority()),
		RiskLevel:             string(app.RiskLevel()),
		RequestedAmount:       app.RequestedAmount().String(),
		RequestedTenureMonths: app.RequestedTenureMonths(),
		Version:               app.Version(),
		CreatedAt:             app.CreatedAt().Format(time.RFC3339),
		UpdatedAt:             app.UpdatedAt().Format(time.RFC3339),
	}
	if id := app.LoanOfficerID(); id != nil {
		vm.LoanOfficerID = id.String()
	}
	if id := app.ComplianceOfficerID(); id != nil {
		vm.ComplianceOfficerID = id.String()
	}
	if reason := app.ComplianceReason(); reason != nil {
		vm.ComplianceReason = *reason
	}
	if summary := app.ComplianceSummary(); summary != nil {
		vm.ComplianceSummary = *summary
	}
	if score := app.Score(); score != nil {
		vm.Score = &viewmodels.Score{
			CreditScore: score.CreditScore,
			RiskScore:   score.RiskScore.String(),
			RiskFactors: score.RiskFactors,
			AttachedAt:  score.AttachedAt.Format(time.RFC3339),
		}
	}
	if decision := app.Decision(); decision != nil {
		dvm := &viewmodels.Decision{
			Type:      string(decision.Type),
			Reason:    decision.Reason,
			DecidedBy: decision.DecidedBy.String(),
			DecidedAt: decision.DecidedAt.Format(time.RFC3339),
		}
		if decision.Type == application.DecisionApproved {
			dvm.ApprovedAmount = decision.ApprovedAmount.String()
			dvm.InterestRate = decision.InterestRate.String()
			dvm.TenureMonths = decision.TenureMonths
		}
		vm.Decision = dvm
	}
	return vm
}

func HistoryEntryToViewModel(entry *workflowhistory.Entry) *viewmodels.HistoryEntry {
	return &viewmodels.HistoryEntry{
		ID:              entry.ID.String(),
		FromStatus:      string(entry.FromStatus),
		ToStatus:        string(entry.ToStatus),
		ActingUserID:    entry.ActingUserID.String(),
		ActingRole:      entry.ActingRole,
		Comment:         entry.Comment,
		SystemGenerated: entry.SystemGenerated,
		CreatedAt:       entry.CreatedAt.Format(time.RFC3339),
	}
}

func DocumentRequestToViewModel(req *docrequest.Request) *viewmodels.DocumentRequest {
	return &viewmodels.DocumentRequest{
		ID:            req.ID.String(),
		DocumentTypes: req.DocumentTypes,
		Reason:        req.Reason,
		DeadlineDays:  req.DeadlineDays,
		DeadlineAt:    req.DeadlineAt.Format(time.RFC3339),
		Status:        string(req.Status),
		RequestedBy:   req.RequestedBy.String(),
		RequestedAt:   req.RequestedAt.Format(time.RFC3339),
	}
}

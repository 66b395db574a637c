package application

type Status string

const (
	StatusSubmitted                      Status = "SUBMITTED"
	StatusDocumentVerificationInProgress Status = "DOCUMENT_VERIFICATION_IN_PROGRESS"
	StatusExternalVerificationPending    Status = "EXTERNAL_VERIFICATION_PENDING"
	StatusReadyForDecision               Status = "READY_FOR_DECISION"
	StatusApproved                       Status = "APPROVED"
	StatusRejected                       Status = "REJECTED"
	StatusFlaggedForCompliance           Status = "FLAGGED_FOR_COMPLIANCE"
	StatusUnderComplianceReview          Status = "UNDER_COMPLIANCE_REVIEW"
	StatusPendingComplianceDocs          Status = "PENDING_COMPLIANCE_DOCS"
	StatusAwaitingComplianceDecision     Status = "AWAITING_COMPLIANCE_DECISION"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusDocumentVerificationInProgress,
		StatusExternalVerificationPending, StatusReadyForDecision,
		StatusApproved, StatusRejected, StatusFlaggedForCompliance,
		StatusUnderComplianceReview, StatusPendingComplianceDocs,
		StatusAwaitingComplianceDecision:
		return true
	}
	return false
}

// Terminal statuses admit no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Active statuses count toward an officer's workload.
func (s Status) IsActive() bool {
	return s.Valid() && !s.IsTerminal()
}

func (s Status) InCompliance() bool {
	switch s {
	case StatusFlaggedForCompliance, StatusUnderComplianceReview,
		StatusPendingComplianceDocs, StatusAwaitingComplianceDecision:
		return true
	}
	return false
}

// ActiveStatuses is the workload subset, exported for repository queries.
func ActiveStatuses() []Status {
	return []Status{
		StatusSubmitted,
		StatusDocumentVerificationInProgress,
		StatusExternalVerificationPending,
		StatusReadyForDecision,
		StatusFlaggedForCompliance,
		StatusUnderComplianceReview,
		StatusPendingComplianceDocs,
		StatusAwaitingComplianceDecision,
	}
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type DecisionType string

const (
	DecisionApproved DecisionType = "APPROVED"
	DecisionRejected DecisionType = "REJECTED"
)

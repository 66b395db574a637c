package viewmodels

// Application is the flat read projection returned by the API. Money and
// rate fields travel as strings to keep decimal precision intact on the wire.
type Application struct {
	ID                    string    `json:"id"`
	ApplicantID           string    `json:"applicant_id"`
	LoanOfficerID         string    `json:"loan_officer_id,omitempty"`
	ComplianceOfficerID   string    `json:"compliance_officer_id,omitempty"`
	Status                string    `json:"status"`
	Priority              string    `json:"priority"`
	RiskLevel             string    `json:"risk_level"`
	RequestedAmount       string    `json:"requested_amount"`
	RequestedTenureMonths int       `json:"requested_tenure_months"`
	Score                 *Score    `json:"score,omitempty"`
	Decision              *Decision `json:"decision,omitempty"`
	ComplianceReason      string    `json:"compliance_reason,omitempty"`
	ComplianceSummary     string    `json:"compliance_summary,omitempty"`
	Version               int64     `json:"version"`
	CreatedAt             string    `json:"created_at"`
	UpdatedAt             string    `json:"updated_at"`
}

type Score struct {
	CreditScore int      `json:"credit_score"`
	RiskScore   string   `json:"risk_score"`
	RiskFactors []string `json:"risk_factors,omitempty"`
	AttachedAt  string   `json:"attached_at"`
}

type Decision struct {
	Type           string `json:"type"`
	Reason         string `json:"reason,omitempty"`
	ApprovedAmount string `json:"approved_amount,omitempty"`
	InterestRate   string `json:"interest_rate,omitempty"`
	TenureMonths   int    `json:"tenure_months,omitempty"`
	DecidedBy      string `json:"decided_by"`
	DecidedAt      string `json:"decided_at"`
}

type HistoryEntry struct {
	ID              string `json:"id"`
	FromStatus      string `json:"from_status"`
	ToStatus        string `json:"to_status"`
	ActingUserID    string `json:"acting_user_id"`
	ActingRole      string `json:"acting_role"`
	Comment         string `json:"comment,omitempty"`
	SystemGenerated bool   `json:"system_generated"`
	CreatedAt       string `json:"created_at"`
}

type DocumentRequest struct {
	ID            string   `json:"id"`
	DocumentTypes []string `json:"document_types"`
	Reason        string   `json:"reason"`
	DeadlineDays  int      `json:"deadline_days"`
	DeadlineAt    string   `json:"deadline_at"`
	Status        string   `json:"status"`
	RequestedBy   string   `json:"requested_by"`
	RequestedAt   string   `json:"requested_at"`
}

type ApplicationList struct {
	Items []*Application `json:"items"`
	Total int64          `json:"total"`
}

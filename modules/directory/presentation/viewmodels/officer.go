package viewmodels

type Officer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	LastAssignedAt string `json:"last_assigned_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type Candidate struct {
	Officer     *Officer `json:"officer"`
	ActiveCases int      `json:"active_cases"`
}

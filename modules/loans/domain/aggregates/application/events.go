package application

import (
	"time"

	"github.com/google/uuid"
)

// Domain events emitted after a committed transition. They are both published
// on the in-process bus and enqueued on the notification outbox.

const (
	EventTransitionCommitted = "loan.transition_committed"
	EventOfficerAssigned     = "loan.officer_assigned"
	EventDecisionRecorded    = "loan.decision_recorded"
	EventDocumentsRequested  = "loan.documents_requested"
)

type TransitionCommittedEvent struct {
	ApplicationID   uuid.UUID `json:"application_id"`
	FromStatus      Status    `json:"from_status"`
	ToStatus        Status    `json:"to_status"`
	ActorID         uuid.UUID `json:"actor_id"`
	ActorRole       string    `json:"actor_role"`
	Comment         string    `json:"comment,omitempty"`
	SystemGenerated bool      `json:"system_generated"`
	Version         int64     `json:"version"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type OfficerAssignedEvent struct {
	ApplicationID uuid.UUID `json:"application_id"`
	OfficerID     uuid.UUID `json:"officer_id"`
	Pool          string    `json:"pool"`
	Escalation    bool      `json:"escalation"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type DecisionRecordedEvent struct {
	ApplicationID uuid.UUID    `json:"application_id"`
	Type          DecisionType `json:"type"`
	Reason        string       `json:"reason,omitempty"`
	DecidedBy     uuid.UUID    `json:"decided_by"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

type DocumentsRequestedEvent struct {
	ApplicationID uuid.UUID `json:"application_id"`
	RequestID     uuid.UUID `json:"request_id"`
	DeadlineAt    time.Time `json:"deadline_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

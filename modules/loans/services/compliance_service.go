package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/docrequest"
	"github.com/harborcredit/loanscreen/pkg/composables"
	"github.com/harborcredit/loanscreen/pkg/outbox"
	"github.com/harborcredit/loanscreen/pkg/types"
)

// ComplianceService drives the nested compliance machine. Compliance states
// are application statuses, so every operation here funnels through the
// workflow engine's transition path and inherits its atomicity and
// concurrency guarantees.
type ComplianceService struct {
	workflow    *WorkflowService
	docreqs     docrequest.Repository
	assignments *AssignmentService
	clock       types.Clock
}

func NewComplianceService(
	workflow *WorkflowService,
	docreqs docrequest.Repository,
	assignments *AssignmentService,
	clock types.Clock,
) *ComplianceService {
	if clock == nil {
		clock = types.RealClock()
	}
	return &ComplianceService{
		workflow:    workflow,
		docreqs:     docreqs,
		assignments: assignments,
		clock:       clock,
	}
}

func (s *ComplianceService) StartInvestigation(ctx context.Context, id uuid.UUID, expectedVersion int64, comment string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusUnderComplianceReview,
		comment: comment,
		guard:   requireAssignedComplianceOfficer,
	})
}

type RequestDocumentsDTO struct {
	DocumentTypes []string `json:"document_types" validate:"required,min=1,dive,required"`
	Reason        string   `json:"reason" validate:"required"`
	DeadlineDays  int      `json:"deadline_days" validate:"required,gt=0,lte=90"`
}

// RequestDocuments supersedes any prior pending request, files a new one and
// parks the application in PENDING_COMPLIANCE_DOCS. All of it commits with
// the transition or not at all.
func (s *ComplianceService) RequestDocuments(ctx context.Context, id uuid.UUID, expectedVersion int64, dto *RequestDocumentsDTO) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	if dto == nil || len(dto.DocumentTypes) == 0 || dto.Reason == "" || dto.DeadlineDays <= 0 {
		return application.Application{}, application.ErrValidation.WithDetails("document types, reason and a positive deadline are required")
	}

	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusPendingComplianceDocs,
		comment: dto.Reason,
		guard:   requireAssignedComplianceOfficer,
		mutate: func(txCtx context.Context, app application.Application) (application.Application, error) {
			if _, err := s.docreqs.SupersedePending(txCtx, app.ID()); err != nil {
				return app, err
			}
			now := s.clock.Now()
			req, err := s.docreqs.Create(txCtx, &docrequest.Request{
				ApplicationID: app.ID(),
				DocumentTypes: dto.DocumentTypes,
				Reason:        dto.Reason,
				DeadlineDays:  dto.DeadlineDays,
				DeadlineAt:    now.AddDate(0, 0, dto.DeadlineDays),
				Status:        docrequest.StatusPending,
				RequestedBy:   actor.ID,
				RequestedAt:   now,
			})
			if err != nil {
				return app, err
			}
			return app, outbox.Enqueue(txCtx, application.EventDocumentsRequested, application.DocumentsRequestedEvent{
				ApplicationID: app.ID(),
				RequestID:     req.ID,
				DeadlineAt:    req.DeadlineAt,
				OccurredAt:    now,
			})
		},
	})
}

// HandleDocumentSubmission marks the open request fulfilled and resumes the
// investigation. Document binaries live in the external store; only the
// request state is tracked here.
func (s *ComplianceService) HandleDocumentSubmission(ctx context.Context, id uuid.UUID, expectedVersion int64, comment string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusUnderComplianceReview,
		comment: comment,
		guard:   requireAssignedComplianceOfficer,
		mutate: func(txCtx context.Context, app application.Application) (application.Application, error) {
			pending, err := s.docreqs.GetPending(txCtx, app.ID())
			if err != nil {
				return app, err
			}
			return app, s.docreqs.UpdateStatus(txCtx, pending.ID, docrequest.StatusFulfilled)
		},
	})
}

// ProcessTimeout handles an elapsed document deadline: the request expires,
// the application returns to review and the case escalates to a senior
// compliance officer. It deliberately never auto-approves or auto-rejects.
func (s *ComplianceService) ProcessTimeout(ctx context.Context, id uuid.UUID, expectedVersion int64) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	if !actor.IsSystem() && !actor.Can(officer.CanInvestigateCompliance) {
		return application.Application{}, application.ErrForbidden.WithDetails("role %s cannot process document timeouts", actor.Role)
	}

	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:              application.StatusUnderComplianceReview,
		comment:         "document request deadline elapsed",
		systemGenerated: true,
		mutate: func(txCtx context.Context, app application.Application) (application.Application, error) {
			pending, err := s.docreqs.GetPending(txCtx, app.ID())
			if err != nil {
				return app, err
			}
			if !pending.Expired(s.clock.Now()) {
				return app, application.ErrValidation.WithDetails("document request deadline has not elapsed")
			}
			if err := s.docreqs.UpdateStatus(txCtx, pending.ID, docrequest.StatusExpired); err != nil {
				return app, err
			}

			senior, err := s.assignments.EscalateToSenior(txCtx, app)
			if err != nil {
				return app, err
			}
			app = app.WithComplianceOfficer(senior.ID())
			return app, outbox.Enqueue(txCtx, application.EventOfficerAssigned, application.OfficerAssignedEvent{
				ApplicationID: app.ID(),
				OfficerID:     senior.ID(),
				Pool:          "senior_compliance",
				Escalation:    true,
				OccurredAt:    s.clock.Now(),
			})
		},
	})
}

// TriggerDecision freezes the investigation summary and opens the decision
// phase.
func (s *ComplianceService) TriggerDecision(ctx context.Context, id uuid.UUID, expectedVersion int64, summary string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	if summary == "" {
		return application.Application{}, application.ErrValidation.WithDetails("summary notes are required")
	}
	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusAwaitingComplianceDecision,
		comment: "compliance decision triggered",
		guard:   requireAssignedComplianceOfficer,
		mutate: func(_ context.Context, app application.Application) (application.Application, error) {
			return app.WithComplianceSummary(summary), nil
		},
	})
}

// SubmitDecision resolves the two-phase compliance verdict. APPROVE clears
// the case back to the loan officer's desk; compliance never finalizes an
// approval. REJECT is terminal.
func (s *ComplianceService) SubmitDecision(ctx context.Context, id uuid.UUID, expectedVersion int64, decision application.DecisionType, notes string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}

	switch decision {
	case application.DecisionApproved:
		return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
			to:      application.StatusReadyForDecision,
			comment: notes,
			guard:   requireAssignedComplianceOfficer,
		})
	case application.DecisionRejected:
		return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
			to:      application.StatusRejected,
			comment: notes,
			guard:   requireAssignedComplianceOfficer,
			mutate:  s.workflow.rejectionMutator(actor, notes),
		})
	default:
		return application.Application{}, application.ErrValidation.WithDetails("decision must be APPROVED or REJECTED")
	}
}

// QuickClear sends a freshly flagged case straight back to the loan officer.
func (s *ComplianceService) QuickClear(ctx context.Context, id uuid.UUID, expectedVersion int64, comment string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusReadyForDecision,
		comment: comment,
		guard:   requireAssignedComplianceOfficer,
	})
}

// QuickReject terminally rejects a freshly flagged case.
func (s *ComplianceService) QuickReject(ctx context.Context, id uuid.UUID, expectedVersion int64, reason string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	if reason == "" {
		return application.Application{}, application.ErrValidation.WithDetails("rejection reason is required")
	}
	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusRejected,
		comment: reason,
		guard:   requireAssignedComplianceOfficer,
		mutate:  s.workflow.rejectionMutator(actor, reason),
	})
}

// EscalateToSenior reassigns the case to a senior compliance officer without
// changing status. The outgoing assignment stays visible through the history
// entry this writes.
func (s *ComplianceService) EscalateToSenior(ctx context.Context, id uuid.UUID, expectedVersion int64, reason string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	return s.workflow.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		sameStatus: true,
		capability: officer.CanEscalateCompliance,
		allowedFrom: []application.Status{
			application.StatusFlaggedForCompliance,
			application.StatusUnderComplianceReview,
		},
		comment: reason,
		mutate: func(txCtx context.Context, app application.Application) (application.Application, error) {
			senior, err := s.assignments.EscalateToSenior(txCtx, app)
			if err != nil {
				return app, err
			}
			app = app.WithComplianceOfficer(senior.ID())
			return app, outbox.Enqueue(txCtx, application.EventOfficerAssigned, application.OfficerAssignedEvent{
				ApplicationID: app.ID(),
				OfficerID:     senior.ID(),
				Pool:          "senior_compliance",
				Escalation:    true,
				OccurredAt:    s.clock.Now(),
			})
		},
	})
}

// DocumentRequests lists every request filed for an application, newest
// first.
func (s *ComplianceService) DocumentRequests(ctx context.Context, id uuid.UUID) ([]*docrequest.Request, error) {
	return s.docreqs.ListByApplication(ctx, id)
}

// requireAssignedComplianceOfficer enforces ownership on compliance-side
// operations once a compliance officer is attached.
func requireAssignedComplianceOfficer(app application.Application, actor officer.Actor) error {
	if actor.IsSystem() {
		return nil
	}
	assigned := app.ComplianceOfficerID()
	if assigned == nil {
		return nil
	}
	if *assigned != actor.ID {
		return application.ErrForbidden.WithDetails("application is assigned to another compliance officer")
	}
	return nil
}

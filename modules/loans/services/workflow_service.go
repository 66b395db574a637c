package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/modules/loans/domain/aggregates/application"
	"github.com/harborcredit/loanscreen/modules/loans/domain/entities/workflowhistory"
	"github.com/harborcredit/loanscreen/modules/loans/domain/scoring"
	"github.com/harborcredit/loanscreen/pkg/composables"
	"github.com/harborcredit/loanscreen/pkg/eventbus"
	"github.com/harborcredit/loanscreen/pkg/metrics"
	"github.com/harborcredit/loanscreen/pkg/outbox"
	"github.com/harborcredit/loanscreen/pkg/types"
)

// WorkflowService is the single authority over Application.status. Every
// transition commits status, version bump, history entry and outbox event as
// one unit, then publishes the domain event on the in-process bus.
type WorkflowService struct {
	apps        application.Repository
	history     workflowhistory.Repository
	assignments *AssignmentService
	oracle      scoring.Oracle
	bus         eventbus.EventBus
	clock       types.Clock
}

func NewWorkflowService(
	apps application.Repository,
	history workflowhistory.Repository,
	assignments *AssignmentService,
	oracle scoring.Oracle,
	bus eventbus.EventBus,
	clock types.Clock,
) *WorkflowService {
	if clock == nil {
		clock = types.RealClock()
	}
	return &WorkflowService{
		apps:        apps,
		history:     history,
		assignments: assignments,
		oracle:      oracle,
		bus:         bus,
		clock:       clock,
	}
}

// transitionSpec describes one requested transition. When sameStatus is set
// the status does not change (escalation reassignments); the required
// capability is then checked directly instead of through the edge table.
type transitionSpec struct {
	to              application.Status
	comment         string
	systemGenerated bool
	sameStatus      bool
	capability      officer.Capability
	allowedFrom     []application.Status
	guard           func(app application.Application, actor officer.Actor) error
	mutate          func(ctx context.Context, app application.Application) (application.Application, error)
}

// ApplyTransition validates and commits a transition under optimistic
// concurrency. The caller's expectedVersion must match the stored version;
// a losing writer gets ErrVersionConflict and must re-fetch and retry.
func (s *WorkflowService) ApplyTransition(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
	actor officer.Actor,
	spec transitionSpec,
) (application.Application, error) {
	var updated application.Application
	var from application.Status

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		app, err := s.apps.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		from = app.Status()

		if spec.sameStatus {
			if err := s.validateSameStatus(app, actor, spec); err != nil {
				return err
			}
			spec.to = from
		} else {
			if err := application.ValidateTransition(from, spec.to, actor); err != nil {
				return err
			}
		}
		if spec.guard != nil {
			if err := spec.guard(app, actor); err != nil {
				return err
			}
		}
		if app.Version() != expectedVersion {
			metrics.Workflow().VersionConflicts.Inc()
			return application.ErrVersionConflict.WithDetails(
				"expected version %d, have %d", expectedVersion, app.Version())
		}
		app = app.WithStatus(spec.to)
		if spec.mutate != nil {
			app, err = spec.mutate(txCtx, app)
			if err != nil {
				return err
			}
		}
		if err := s.checkEntryGuards(app, from, spec.to); err != nil {
			return err
		}

		app, err = s.autoAssign(txCtx, app, spec.to)
		if err != nil {
			return err
		}

		updated, err = s.apps.UpdateWithVersion(txCtx, app, expectedVersion)
		if err != nil {
			return err
		}

		if _, err := s.history.Append(txCtx, &workflowhistory.Entry{
			ApplicationID:   updated.ID(),
			FromStatus:      from,
			ToStatus:        updated.Status(),
			ActingUserID:    actor.ID,
			ActingRole:      string(actor.Role),
			Comment:         spec.comment,
			SystemGenerated: spec.systemGenerated || actor.IsSystem(),
		}); err != nil {
			return err
		}

		return outbox.Enqueue(txCtx, application.EventTransitionCommitted, s.transitionEvent(updated, from, actor, spec))
	})
	if err != nil {
		return application.Application{}, err
	}

	metrics.Workflow().Transitions.WithLabelValues(string(from), string(updated.Status())).Inc()
	s.bus.Publish(s.transitionEvent(updated, from, actor, spec))
	return updated, nil
}

func (s *WorkflowService) validateSameStatus(app application.Application, actor officer.Actor, spec transitionSpec) error {
	if app.Status().IsTerminal() {
		return application.ErrInvalidTransition.WithDetails("application is terminal in status %s", app.Status())
	}
	allowed := false
	for _, st := range spec.allowedFrom {
		if app.Status() == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return application.ErrInvalidTransition.WithDetails("reassignment not allowed from status %s", app.Status())
	}
	if !actor.Can(spec.capability) {
		return application.ErrInvalidTransition.WithDetails("actor %s lacks capability %s", actor.Role, spec.capability)
	}
	return nil
}

// checkEntryGuards enforces edge preconditions beyond the capability table.
func (s *WorkflowService) checkEntryGuards(app application.Application, from, to application.Status) error {
	if to == application.StatusReadyForDecision &&
		from == application.StatusExternalVerificationPending &&
		app.Score() == nil {
		return application.ErrInvalidTransition.WithDetails("external verification has no score result attached")
	}
	return nil
}

// autoAssign attaches an officer of the relevant pool on entry to the
// verification and compliance stages if none is attached yet. Assignment
// shares the transition's transaction, so a capacity error rolls everything
// back.
func (s *WorkflowService) autoAssign(ctx context.Context, app application.Application, to application.Status) (application.Application, error) {
	now := s.clock.Now()

	if to == application.StatusDocumentVerificationInProgress && app.LoanOfficerID() == nil {
		assigned, err := s.assignments.AssignLoanOfficer(ctx, app)
		if err != nil {
			return app, err
		}
		app = app.WithLoanOfficer(assigned.ID())
		if err := outbox.Enqueue(ctx, application.EventOfficerAssigned, application.OfficerAssignedEvent{
			ApplicationID: app.ID(),
			OfficerID:     assigned.ID(),
			Pool:          "loan",
			OccurredAt:    now,
		}); err != nil {
			return app, err
		}
	}

	if to == application.StatusFlaggedForCompliance && app.ComplianceOfficerID() == nil {
		assigned, err := s.assignments.AssignComplianceOfficer(ctx, app)
		if err != nil {
			return app, err
		}
		app = app.WithComplianceOfficer(assigned.ID())
		if err := outbox.Enqueue(ctx, application.EventOfficerAssigned, application.OfficerAssignedEvent{
			ApplicationID: app.ID(),
			OfficerID:     assigned.ID(),
			Pool:          "compliance",
			OccurredAt:    now,
		}); err != nil {
			return app, err
		}
	}

	return app, nil
}

func (s *WorkflowService) transitionEvent(
	app application.Application,
	from application.Status,
	actor officer.Actor,
	spec transitionSpec,
) application.TransitionCommittedEvent {
	return application.TransitionCommittedEvent{
		ApplicationID:   app.ID(),
		FromStatus:      from,
		ToStatus:        app.Status(),
		ActorID:         actor.ID,
		ActorRole:       string(actor.Role),
		Comment:         spec.comment,
		SystemGenerated: spec.systemGenerated || actor.IsSystem(),
		Version:         app.Version(),
		OccurredAt:      s.clock.Now(),
	}
}

// ---- operations ----

// Submit creates a new SUBMITTED aggregate for the acting applicant.
func (s *WorkflowService) Submit(ctx context.Context, dto *application.CreateDTO) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	if !actor.Can(officer.CanSubmitApplication) {
		return application.Application{}, application.ErrForbidden.WithDetails("role %s cannot submit applications", actor.Role)
	}
	if dto == nil {
		return application.Application{}, application.ErrValidation.WithDetails("missing request body")
	}
	if errs, ok := dto.Ok(); !ok {
		return application.Application{}, application.ErrValidation.WithDetails("%v", errs)
	}
	amount, err := decimal.NewFromString(dto.RequestedAmount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return application.Application{}, application.ErrValidation.WithDetails("requested_amount must be a positive decimal")
	}

	var created application.Application
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		created, err = s.apps.Create(txCtx, application.New(actor.ID, amount, dto.RequestedTenureMonths))
		return err
	})
	if err != nil {
		return application.Application{}, err
	}
	return created, nil
}

func (s *WorkflowService) Get(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return s.apps.GetByID(ctx, id)
}

func (s *WorkflowService) List(ctx context.Context, params *application.FindParams) ([]application.Application, int64, error) {
	return s.apps.List(ctx, params)
}

func (s *WorkflowService) History(ctx context.Context, id uuid.UUID) ([]*workflowhistory.Entry, error) {
	if _, err := s.apps.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.List(ctx, &workflowhistory.FindParams{ApplicationID: id})
}

// StartVerification moves SUBMITTED into document verification, assigning a
// loan officer when none is attached.
func (s *WorkflowService) StartVerification(ctx context.Context, id uuid.UUID, expectedVersion int64, comment string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	return s.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusDocumentVerificationInProgress,
		comment: comment,
	})
}

func (s *WorkflowService) TriggerExternalVerification(ctx context.Context, id uuid.UUID, expectedVersion int64, comment string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	return s.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusExternalVerificationPending,
		comment: comment,
		guard:   requireAssignedLoanOfficer,
	})
}

// CompleteExternalVerification consults the score oracle, then commits the
// transition with the snapshot attached. The oracle is called outside the
// transaction; its failure is surfaced as an external-service error and the
// aggregate is left untouched.
func (s *WorkflowService) CompleteExternalVerification(ctx context.Context, id uuid.UUID, expectedVersion int64, comment string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	score, err := s.oracle.Calculate(ctx, app.ApplicantID())
	if err != nil {
		composables.UseLogger(ctx).WithError(err).Error("score oracle call failed")
		return application.Application{}, application.ErrExternalService.WithDetails("score oracle: %v", err)
	}

	return s.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusReadyForDecision,
		comment: comment,
		guard:   requireAssignedLoanOfficer,
		mutate: func(_ context.Context, app application.Application) (application.Application, error) {
			return app.WithScore(application.ScoreSnapshot{
				CreditScore: score.CreditScore,
				RiskScore:   score.RiskScore,
				RiskFactors: score.RiskFactors,
				AttachedAt:  s.clock.Now(),
			}), nil
		},
	})
}

type ApproveDTO struct {
	Reason         string `json:"reason"`
	ApprovedAmount string `json:"approved_amount" validate:"required"`
	InterestRate   string `json:"interest_rate" validate:"required"`
	TenureMonths   int    `json:"tenure_months" validate:"required,gt=0,lte=480"`
}

func (s *WorkflowService) Approve(ctx context.Context, id uuid.UUID, expectedVersion int64, dto *ApproveDTO) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	if dto == nil {
		return application.Application{}, application.ErrValidation.WithDetails("missing request body")
	}
	amount, err := decimal.NewFromString(dto.ApprovedAmount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return application.Application{}, application.ErrValidation.WithDetails("approved_amount must be a positive decimal")
	}
	rate, err := decimal.NewFromString(dto.InterestRate)
	if err != nil || rate.LessThan(decimal.Zero) {
		return application.Application{}, application.ErrValidation.WithDetails("interest_rate must be a non-negative decimal")
	}
	if dto.TenureMonths <= 0 {
		return application.Application{}, application.ErrValidation.WithDetails("tenure_months must be positive")
	}

	return s.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusApproved,
		comment: dto.Reason,
		guard:   requireAssignedLoanOfficer,
		mutate: func(txCtx context.Context, app application.Application) (application.Application, error) {
			decided := application.Decision{
				Type:           application.DecisionApproved,
				Reason:         dto.Reason,
				ApprovedAmount: amount,
				InterestRate:   rate,
				TenureMonths:   dto.TenureMonths,
				DecidedBy:      actor.ID,
				DecidedAt:      s.clock.Now(),
			}
			app = app.WithDecision(decided)
			return app, outbox.Enqueue(txCtx, application.EventDecisionRecorded, application.DecisionRecordedEvent{
				ApplicationID: app.ID(),
				Type:          application.DecisionApproved,
				Reason:        dto.Reason,
				DecidedBy:     actor.ID,
				OccurredAt:    s.clock.Now(),
			})
		},
	})
}

func (s *WorkflowService) Reject(ctx context.Context, id uuid.UUID, expectedVersion int64, reason string) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	return s.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusRejected,
		comment: reason,
		guard:   requireAssignedLoanOfficer,
		mutate:  s.rejectionMutator(actor, reason),
	})
}

// FlagForCompliance diverts any active application into the compliance
// sub-workflow, carrying a reason and a review priority.
func (s *WorkflowService) FlagForCompliance(ctx context.Context, id uuid.UUID, expectedVersion int64, reason string, priority application.Priority) (application.Application, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return application.Application{}, err
	}
	if reason == "" {
		return application.Application{}, application.ErrValidation.WithDetails("flag reason is required")
	}
	if !priority.Valid() {
		return application.Application{}, application.ErrValidation.WithDetails("invalid priority %q", priority)
	}
	return s.ApplyTransition(ctx, id, expectedVersion, actor, transitionSpec{
		to:      application.StatusFlaggedForCompliance,
		comment: reason,
		mutate: func(_ context.Context, app application.Application) (application.Application, error) {
			return app.WithComplianceReason(reason).WithPriority(priority), nil
		},
	})
}

// rejectionMutator records a terminal REJECTED decision and its event.
func (s *WorkflowService) rejectionMutator(actor officer.Actor, reason string) func(context.Context, application.Application) (application.Application, error) {
	return func(txCtx context.Context, app application.Application) (application.Application, error) {
		app = app.WithDecision(application.Decision{
			Type:      application.DecisionRejected,
			Reason:    reason,
			DecidedBy: actor.ID,
			DecidedAt: s.clock.Now(),
		})
		return app, outbox.Enqueue(txCtx, application.EventDecisionRecorded, application.DecisionRecordedEvent{
			ApplicationID: app.ID(),
			Type:          application.DecisionRejected,
			Reason:        reason,
			DecidedBy:     actor.ID,
			OccurredAt:    s.clock.Now(),
		})
	}
}

// requireAssignedLoanOfficer enforces ownership: only the attached loan
// officer (or the system) may drive the loan-side stages once assigned.
func requireAssignedLoanOfficer(app application.Application, actor officer.Actor) error {
	if actor.IsSystem() {
		return nil
	}
	assigned := app.LoanOfficerID()
	if assigned == nil {
		return nil
	}
	if *assigned != actor.ID {
		return application.ErrForbidden.WithDetails("application is assigned to another loan officer")
	}
	return nil
}

// IsRetryable reports whether a transition error is worth a re-fetch and
// retry by the caller.
func IsRetryable(err error) bool {
	return errors.Is(err, application.ErrVersionConflict)
}

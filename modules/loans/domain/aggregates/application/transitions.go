package application

import (
	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
)

// transitionTable maps (from) -> (to) -> capability required to take the
// edge. Flagging for compliance is not listed per-row: it is legal from every
// active non-compliance status and handled in ValidateTransition.
var transitionTable = map[Status]map[Status]officer.Capability{
	StatusSubmitted: {
		StatusDocumentVerificationInProgress: officer.CanVerifyDocuments,
	},
	StatusDocumentVerificationInProgress: {
		StatusExternalVerificationPending: officer.CanVerifyDocuments,
	},
	StatusExternalVerificationPending: {
		StatusReadyForDecision: officer.CanVerifyDocuments,
	},
	StatusReadyForDecision: {
		StatusApproved: officer.CanDecideLoan,
		StatusRejected: officer.CanDecideLoan,
	},
	StatusFlaggedForCompliance: {
		StatusUnderComplianceReview: officer.CanInvestigateCompliance,
		StatusPendingComplianceDocs: officer.CanRequestComplianceDocs,
		// quick-clear and quick-reject bypass the two-phase decision path.
		StatusReadyForDecision: officer.CanDecideCompliance,
		StatusRejected:         officer.CanDecideCompliance,
	},
	StatusPendingComplianceDocs: {
		StatusUnderComplianceReview: officer.CanInvestigateCompliance,
	},
	StatusUnderComplianceReview: {
		StatusAwaitingComplianceDecision: officer.CanDecideCompliance,
		StatusPendingComplianceDocs:      officer.CanRequestComplianceDocs,
	},
	StatusAwaitingComplianceDecision: {
		StatusReadyForDecision: officer.CanDecideCompliance,
		StatusRejected:         officer.CanDecideCompliance,
	},
}

// ValidateTransition checks the edge and the actor's capability against the
// static table. Terminal statuses admit nothing; a missing edge and a missing
// capability both fail as an invalid transition, matching the single
// validation authority the workflow engine exposes.
func ValidateTransition(from, to Status, actor officer.Actor) error {
	if from.IsTerminal() {
		return ErrInvalidTransition.WithDetails("application is terminal in status %s", from)
	}
	if !to.Valid() {
		return ErrInvalidTransition.WithDetails("unknown target status %q", to)
	}

	if to == StatusFlaggedForCompliance {
		if from.InCompliance() {
			return ErrInvalidTransition.WithDetails("application is already in compliance review (%s)", from)
		}
		if !actor.Can(officer.CanFlagCompliance) {
			return ErrInvalidTransition.WithDetails("actor %s cannot flag for compliance", actor.Role)
		}
		return nil
	}

	capability, ok := transitionTable[from][to]
	if !ok {
		return ErrInvalidTransition.WithDetails("no edge from %s to %s", from, to)
	}
	if !actor.Can(capability) {
		return ErrInvalidTransition.WithDetails("actor %s lacks capability %s", actor.Role, capability)
	}
	return nil
}

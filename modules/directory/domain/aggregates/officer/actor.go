package officer

import "github.com/google/uuid"

type Capability string

const (
	CanSubmitApplication     Capability = "submit_application"
	CanVerifyDocuments       Capability = "verify_documents"
	CanDecideLoan            Capability = "decide_loan"
	CanFlagCompliance        Capability = "flag_compliance"
	CanInvestigateCompliance Capability = "investigate_compliance"
	CanRequestComplianceDocs Capability = "request_compliance_docs"
	CanDecideCompliance      Capability = "decide_compliance"
	CanEscalateCompliance    Capability = "escalate_compliance"
	CanProcessTimeouts       Capability = "process_timeouts"
)

type CapabilitySet map[Capability]struct{}

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// CapabilitiesFor maps a role to its capability set. Transition guards check
// capabilities, never roles, so a new role only needs an entry here.
func CapabilitiesFor(role Role) CapabilitySet {
	switch role {
	case RoleApplicant:
		return NewCapabilitySet(CanSubmitApplication)
	case RoleLoanOfficer:
		return NewCapabilitySet(CanVerifyDocuments, CanDecideLoan, CanFlagCompliance)
	case RoleSeniorLoanOfficer:
		return NewCapabilitySet(CanVerifyDocuments, CanDecideLoan, CanFlagCompliance)
	case RoleComplianceOfficer:
		return NewCapabilitySet(
			CanInvestigateCompliance,
			CanRequestComplianceDocs,
			CanDecideCompliance,
			CanEscalateCompliance,
		)
	case RoleSeniorComplianceOfficer:
		return NewCapabilitySet(
			CanInvestigateCompliance,
			CanRequestComplianceDocs,
			CanDecideCompliance,
			CanEscalateCompliance,
		)
	case RoleSystem:
		return NewCapabilitySet(
			CanVerifyDocuments,
			CanInvestigateCompliance,
			CanProcessTimeouts,
		)
	default:
		return NewCapabilitySet()
	}
}

// Actor is the capability-tagged identity attached to every request.
type Actor struct {
	ID           uuid.UUID
	Role         Role
	Capabilities CapabilitySet
}

func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role, Capabilities: CapabilitiesFor(role)}
}

// SystemActor is used for transitions the engine performs on its own, such as
// the document-deadline fallback. History entries it writes are flagged as
// system generated.
func SystemActor() Actor {
	return Actor{ID: uuid.Nil, Role: RoleSystem, Capabilities: CapabilitiesFor(RoleSystem)}
}

func (a Actor) Can(c Capability) bool {
	return a.Capabilities.Has(c)
}

func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/pkg/composables"
	"github.com/harborcredit/loanscreen/pkg/constants"
	"github.com/harborcredit/loanscreen/pkg/serrors"
)

var errInvalidOfficer = serrors.NewError("LOAN_VALIDATION_FAILED", "invalid officer payload", "")

type CreateOfficerDTO struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Role string `json:"role" validate:"required"`
}

// DirectoryService manages the officer roster the assignment engine selects
// from. It has no workflow knowledge; workloads are derived from live
// application rows at query time.
type DirectoryService struct {
	officers officer.Repository
}

func NewDirectoryService(officers officer.Repository) *DirectoryService {
	return &DirectoryService{officers: officers}
}

func (s *DirectoryService) Create(ctx context.Context, dto *CreateOfficerDTO) (officer.Officer, error) {
	if dto == nil {
		return officer.Officer{}, errInvalidOfficer.WithDetails("missing request body")
	}
	if err := constants.Validate.Struct(dto); err != nil {
		return officer.Officer{}, errInvalidOfficer.WithDetails("%v", err)
	}
	role := officer.Role(dto.Role)
	if !role.Valid() || role == officer.RoleSystem {
		return officer.Officer{}, errInvalidOfficer.WithDetails("unknown role %q", dto.Role)
	}

	var created officer.Officer
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.officers.Create(txCtx, officer.New(dto.Name, role))
		return err
	})
	if err != nil {
		return officer.Officer{}, err
	}
	return created, nil
}

func (s *DirectoryService) GetByID(ctx context.Context, id uuid.UUID) (officer.Officer, error) {
	return s.officers.GetByID(ctx, id)
}

func (s *DirectoryService) List(ctx context.Context, params *officer.FindParams) ([]officer.Officer, error) {
	return s.officers.List(ctx, params)
}

// EligibleOfficers exposes the assignment engine's candidate view: active
// officers in the given roles with their current workloads.
func (s *DirectoryService) EligibleOfficers(ctx context.Context, roles []officer.Role) ([]officer.Candidate, error) {
	return s.officers.EligibleCandidates(ctx, roles)
}

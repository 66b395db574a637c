package application

import "github.com/harborcredit/loanscreen/pkg/serrors"

var (
	ErrValidation        = serrors.NewError("LOAN_VALIDATION_FAILED", "request validation failed", "")
	ErrInvalidTransition = serrors.NewError("LOAN_INVALID_TRANSITION", "transition not permitted", "")
	ErrForbidden         = serrors.NewError("LOAN_FORBIDDEN", "actor lacks ownership or role", "")
	ErrVersionConflict   = serrors.NewError("LOAN_VERSION_CONFLICT", "application was modified concurrently", "")
	ErrNoCapacity        = serrors.NewError("LOAN_NO_CAPACITY", "no eligible officer has free capacity", "")
	ErrNotFound          = serrors.NewError("LOAN_NOT_FOUND", "application not found", "")
	ErrExternalService   = serrors.NewError("LOAN_EXTERNAL_FAILURE", "external collaborator failed", "")
)

package cabinet

import (
	"fmt"

	"brokerdesk/internal/pkg/apperr"
)

var (
	ErrCabinetNotFound         = fmt.Errorf("%w: cabinet not found", apperr.ErrNotFound)
	ErrNotAuthorized           = fmt.Errorf("%w: only a cabinet admin can do this", apperr.ErrNotAuthorized)
	ErrNotCabinetMember        = fmt.Errorf("%w: only cabinet members can view it", apperr.ErrNotAuthorized)
	ErrAlreadyInAnotherCabinet = fmt.Errorf("%w: courtier already belongs to a cabinet", apperr.ErrConflict)
	ErrIsCabinetAdmin          = fmt.Errorf("%w: courtier is the cabinet admin, transfer admin first", apperr.ErrConflict)
	ErrNotAMember              = fmt.Errorf("%w: courtier is not a member of this cabinet", apperr.ErrConflict)
	ErrAdminRoleViaTransfer    = fmt.Errorf("%w: the admin role is only granted by transferring admin", apperr.ErrValidation)
	ErrMissingName             = fmt.Errorf("%w: cabinet name is required", apperr.ErrValidation)
)

package courtier

import (
	"fmt"

	"brokerdesk/internal/pkg/apperr"
)

var (
	ErrCourtierNotFound    = fmt.Errorf("%w: courtier not found", apperr.ErrNotFound)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered by another courtier", apperr.ErrConflict)
	ErrInvalidRole         = fmt.Errorf("%w: invalid role", apperr.ErrValidation)
	ErrRoleNotSelfService  = fmt.Errorf("%w: this role is granted through cabinet membership", apperr.ErrValidation)
	ErrInvalidAvailability = fmt.Errorf("%w: invalid availability", apperr.ErrValidation)
)

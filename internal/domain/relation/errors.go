package relation

import (
	"fmt"

	"brokerdesk/internal/pkg/apperr"
)

var (
	ErrRelationNotFound = fmt.Errorf("%w: relation not found", apperr.ErrNotFound)
	ErrInvalidCursor    = fmt.Errorf("%w: invalid cursor", apperr.ErrValidation)
	ErrMissingBroker    = fmt.Errorf("%w: broker id is required", apperr.ErrValidation)
	ErrMissingClient    = fmt.Errorf("%w: client id is required", apperr.ErrValidation)
	ErrMissingName      = fmt.Errorf("%w: client name is required", apperr.ErrValidation)

	// ErrPairTaken is returned when an insert loses the race for a
	// (broker, client) pair.
	ErrPairTaken = fmt.Errorf("%w: relation for this broker and client already exists", apperr.ErrConflict)
)

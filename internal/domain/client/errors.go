package client

import (
	"fmt"

	"brokerdesk/internal/pkg/apperr"
)

var (
	ErrClientNotFound        = fmt.Errorf("%w: client not found", apperr.ErrNotFound)
	ErrInvalidEmail          = fmt.Errorf("%w: invalid email", apperr.ErrValidation)
	ErrMissingName           = fmt.Errorf("%w: first and last name are required", apperr.ErrValidation)
	ErrAccountHolderReadOnly = fmt.Errorf("%w: account holder profiles can only be edited by their owner", apperr.ErrNotAuthorized)
	ErrEmailTaken            = fmt.Errorf("%w: email already belongs to another account", apperr.ErrConflict)
	ErrUnknownKind           = fmt.Errorf("%w: unknown client kind", apperr.ErrValidation)

	// ErrLookupFailed means identity resolution could not reach the store.
	// Callers decide whether to retry or proceed with explicit confirmation.
	ErrLookupFailed = fmt.Errorf("%w: client lookup failed", apperr.ErrStoreUnavailable)
)

package conflict

import "errors"

// Conflict-resolution errors
var (
	ErrInvalidCardID      = errors.New("invalid card ID")
	ErrInvalidBaseVersion = errors.New("invalid base version: must be >= 1")
	ErrMissingActor       = errors.New("edit requires an actor")
	ErrInvalidResolution  = errors.New("invalid resolution")
	ErrMissingPayload     = errors.New("manual resolution requires a merged payload")
	ErrConflictNotFound   = errors.New("conflict case not found or expired")
)

package ledger

import "errors"

// Ledger-related errors
var (
	ErrInvalidCardID  = errors.New("invalid card ID")
	ErrInvalidVersion = errors.New("invalid version: must be >= 1")
	ErrMissingActor   = errors.New("commit requires an actor")
	ErrEmptyTitle     = errors.New("card title cannot be empty")
)

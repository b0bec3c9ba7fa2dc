package relationship

import "errors"

// Relationship-related errors
var (
	// Validation errors
	ErrInvalidCardID  = errors.New("invalid card ID")
	ErrInvalidBoardID = errors.New("invalid board ID")
	ErrInvalidKind    = errors.New("invalid relationship kind")
	ErrSelfRelation   = errors.New("circular dependency: card cannot have a relationship with itself")
)

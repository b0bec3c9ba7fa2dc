package analyzer

import "errors"

// Analyzer-related errors
var (
	ErrInvalidBoardID = errors.New("invalid board ID")
	ErrInvalidCardID  = errors.New("invalid card ID")

	// ErrGraphNotAcyclic indicates the stored blocking graph contains a
	// cycle, which the cycle guard should have made impossible.
	ErrGraphNotAcyclic = errors.New("blocking graph contains a cycle")
)

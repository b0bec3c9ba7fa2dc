package models

import (
	"fmt"
	"strings"

	"github.com/tablero-dev/tablero/internal/types"
)

// CircularDependencyError reports that a proposed edge would close a
// dependency cycle. Cycle holds the offending path, starting and ending
// at the proposed edge's source, so callers can explain why the edge was
// rejected rather than just that it was.
type CircularDependencyError struct {
	Kind  RelationshipKind
	Cycle []types.CardID
}

func (e *CircularDependencyError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("circular %s dependency: %s", e.Kind, strings.Join(parts, " -> "))
}

// DuplicateEdgeError reports that an identical (source, target, kind)
// edge already exists.
type DuplicateEdgeError struct {
	Source types.CardID
	Target types.CardID
	Kind   RelationshipKind
}

func (e *DuplicateEdgeError) Error() string {
	return fmt.Sprintf("relationship %d -%s-> %d already exists", e.Source, e.Kind, e.Target)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string // "card", "board", "conflict"
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NewCardNotFound builds a NotFoundError for a card ID.
func NewCardNotFound(id types.CardID) *NotFoundError {
	return &NotFoundError{Entity: "card", ID: fmt.Sprintf("%d", id)}
}

// NewBoardNotFound builds a NotFoundError for a board ID.
func NewBoardNotFound(id types.BoardID) *NotFoundError {
	return &NotFoundError{Entity: "board", ID: fmt.Sprintf("%d", id)}
}

package models

import (
	"time"

	"github.com/tablero-dev/tablero/internal/types"
)

// RelationshipEdge is a directed typed relationship between two cards on
// the same board. Edges are unique per (source, target, kind) triple and
// are created and removed only through the relationship store.
type RelationshipEdge struct {
	BoardID     types.BoardID
	Source      types.CardID
	Target      types.CardID
	Kind        RelationshipKind
	Description string
	CreatedAt   time.Time
}

// Touches reports whether the edge has the card as source or target.
func (e *RelationshipEdge) Touches(card types.CardID) bool {
	return e.Source == card || e.Target == card
}

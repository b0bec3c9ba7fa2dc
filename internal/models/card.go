package models

import (
	"time"

	"github.com/tablero-dev/tablero/internal/types"
)

// Board groups cards and owns their relationship graph
type Board struct {
	ID        types.BoardID
	Name      string
	CreatedAt time.Time
}

// Card represents a single card on a board
type Card struct {
	ID             types.CardID
	BoardID        types.BoardID
	Title          string
	Description    string
	Completed      bool
	Version        types.Version
	LastModifiedBy types.ActorID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Snapshot extracts the mutable field values of the card at its current version.
func (c *Card) Snapshot() CardSnapshot {
	return CardSnapshot{
		Title:       c.Title,
		Description: c.Description,
		Completed:   c.Completed,
	}
}

// CardSnapshot is the set of card field values carried by a single version.
// It is what clients submit as a proposed change and what conflict cases
// compare field by field.
type CardSnapshot struct {
	Title       string
	Description string
	Completed   bool
}

// CardRevision is one accepted commit in a card's history: the snapshot
// stored at that version plus the actor who wrote it.
type CardRevision struct {
	CardID    types.CardID
	Version   types.Version
	Actor     types.ActorID
	Snapshot  CardSnapshot
	CreatedAt time.Time
}

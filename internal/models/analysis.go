package models

import "github.com/tablero-dev/tablero/internal/types"

// CriticalPathResult is the longest chain of blocking dependencies on a
// board, ordered from the most-upstream card to a terminal card that
// blocks nothing. Recomputed on demand; never mutated in place.
type CriticalPathResult struct {
	Path   []types.CardID
	Length int // number of cards on the path
}

// DependencyClosure lists the cards directly and transitively connected
// to a card through blocking edges, used for board highlighting.
// Direct is a subset of All; both are sorted by card ID.
type DependencyClosure struct {
	Card   types.CardID
	Direct []types.CardID
	All    []types.CardID
}

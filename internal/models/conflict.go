package models

import (
	"time"

	"github.com/tablero-dev/tablero/internal/types"
)

// Resolution is the choice a user makes when presented with a conflict case.
type Resolution string

const (
	// ResolutionLocal keeps the submitting client's field values,
	// overwriting the server's newer version with explicit consent.
	ResolutionLocal Resolution = "local"

	// ResolutionRemote discards the local change; the client reloads
	// the server snapshot and nothing is committed.
	ResolutionRemote Resolution = "remote"

	// ResolutionManual commits a merged payload supplied by the client.
	ResolutionManual Resolution = "manual"
)

// Valid reports whether the resolution is one of the known choices.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionLocal, ResolutionRemote, ResolutionManual:
		return true
	}
	return false
}

// ConflictCase packages a detected version mismatch for a client to
// resolve. It is ephemeral: held in memory until resolved or expired,
// never persisted.
type ConflictCase struct {
	ID             types.ConflictID
	CardID         types.CardID
	BoardID        types.BoardID
	BaseVersion    types.Version // version the client last observed
	CurrentVersion types.Version // authoritative version at detection time
	LocalChange    CardSnapshot  // what the client tried to write
	RemoteChange   CardSnapshot  // what the server currently holds
	Diffs          []FieldDiff
	CreatedAt      time.Time
}

// FieldDiff describes one card field as seen by both sides of a conflict,
// so the UI can show the user exactly what diverged.
type FieldDiff struct {
	Field       string
	LocalValue  string
	RemoteValue string
	Overlapping bool // both sides changed this field away from each other
}

// VersionConflict is the expected, non-error outcome of a commit whose
// expected version no longer matches the authoritative one.
type VersionConflict struct {
	Current   types.Version // authoritative version on the server
	Attempted types.Version // version the client expected
}

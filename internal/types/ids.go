package types

// ID type aliases provide semantic meaning and reduce repetitive int conversions.
// These aliases document what each integer represents in the domain model,
// making code more readable and enabling future optimizations without refactoring.

// BoardID identifies a unique board in the system
type BoardID int

// CardID identifies a unique card within a board
type CardID int

// Version is the monotonic revision counter of a single card.
// It starts at 1 and increases by exactly one per accepted commit.
type Version int

// ActorID identifies the collaborator who performed a mutation
type ActorID string

// ConflictID identifies an in-flight conflict case. Conflict cases are
// ephemeral, so these IDs are random UUIDs rather than database rows.
type ConflictID string

// ToInt converts type alias back to int for query parameters
func (id BoardID) ToInt() int {
	return int(id)
}

func (id CardID) ToInt() int {
	return int(id)
}

func (v Version) ToInt() int {
	return int(v)
}

// BoardIDFromInt creates a BoardID from a raw int value
func BoardIDFromInt(i int) BoardID {
	return BoardID(i)
}

// CardIDFromInt creates a CardID from a raw int value
func CardIDFromInt(i int) CardID {
	return CardID(i)
}

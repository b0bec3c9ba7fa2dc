package models

import "fmt"

// RelationshipKind is the closed set of typed relationships between cards.
// Consumers must switch exhaustively over these values; adding a new kind
// is a deliberate change to every dispatch site, not a silent passthrough.
type RelationshipKind string

const (
	KindBlocks      RelationshipKind = "blocks"
	KindRelatesTo   RelationshipKind = "relates_to"
	KindDuplicate   RelationshipKind = "duplicate"
	KindParentChild RelationshipKind = "parent_child"
)

// Kinds returns all relationship kinds in display order.
func Kinds() []RelationshipKind {
	return []RelationshipKind{KindBlocks, KindRelatesTo, KindDuplicate, KindParentChild}
}

// ParseKind converts a stored string into a RelationshipKind.
func ParseKind(s string) (RelationshipKind, error) {
	switch RelationshipKind(s) {
	case KindBlocks, KindRelatesTo, KindDuplicate, KindParentChild:
		return RelationshipKind(s), nil
	default:
		return "", fmt.Errorf("unknown relationship kind %q", s)
	}
}

// Valid reports whether the kind is one of the four known values.
func (k RelationshipKind) Valid() bool {
	switch k {
	case KindBlocks, KindRelatesTo, KindDuplicate, KindParentChild:
		return true
	}
	return false
}

// IsBlocking reports whether edges of this kind make the source card
// incomplete until the target card is done.
func (k RelationshipKind) IsBlocking() bool {
	switch k {
	case KindBlocks:
		return true
	case KindRelatesTo, KindDuplicate, KindParentChild:
		return false
	}
	return false
}

// RequiresAcyclicity reports whether edges of this kind must keep their
// subgraph cycle-free. Blocks edges form the dependency DAG; ParentChild
// edges are guarded too so a card can never become its own ancestor.
// RelatesTo and Duplicate are symmetric in spirit and exempt.
func (k RelationshipKind) RequiresAcyclicity() bool {
	switch k {
	case KindBlocks, KindParentChild:
		return true
	case KindRelatesTo, KindDuplicate:
		return false
	}
	return false
}

// Label is the relationship name from the source card's perspective.
func (k RelationshipKind) Label() string {
	switch k {
	case KindBlocks:
		return "Blocked By"
	case KindRelatesTo:
		return "Related To"
	case KindDuplicate:
		return "Duplicate Of"
	case KindParentChild:
		return "Parent"
	}
	return string(k)
}

// InverseLabel is the relationship name from the target card's perspective.
func (k RelationshipKind) InverseLabel() string {
	switch k {
	case KindBlocks:
		return "Blocker"
	case KindRelatesTo:
		return "Related To"
	case KindDuplicate:
		return "Duplicated By"
	case KindParentChild:
		return "Child"
	}
	return string(k)
}

// Color is the hex color used when rendering edges of this kind.
func (k RelationshipKind) Color() string {
	switch k {
	case KindBlocks:
		return "#EF4444"
	case KindRelatesTo:
		return "#3B82F6"
	case KindDuplicate:
		return "#EAB308"
	case KindParentChild:
		return "#6B7280"
	}
	return "#6B7280"
}

// Package analyzer computes derived read-only views over a board's
// relationship graph: the blocked-card set, the critical path, dependency
// closures, and per-card topological depth. All views are pure functions of
// the current edge set, cached per edge-set revision.
package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/tablero-dev/tablero/internal/database"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// Service defines all graph-analysis operations
type Service interface {
	// BlockedCards returns the cards that are the source of at least one
	// blocking edge whose target is not yet completed, sorted by ID. This
	// is the set a UI should warn about before starting active work.
	BlockedCards(ctx context.Context, boardID types.BoardID) ([]types.CardID, error)

	// CriticalPath returns the longest chain of blocking dependencies on
	// the board. Ties are broken by the lexicographically smallest card
	// sequence so results are deterministic.
	CriticalPath(ctx context.Context, boardID types.BoardID) (*models.CriticalPathResult, error)

	// DependentsOf returns the cards that depend on the given card through
	// blocking edges, directly and transitively.
	DependentsOf(ctx context.Context, card types.CardID) (*models.DependencyClosure, error)

	// DependenciesOf returns the cards the given card depends on through
	// blocking edges, directly and transitively.
	DependenciesOf(ctx context.Context, card types.CardID) (*models.DependencyClosure, error)

	// TopologicalDepths returns, for every card on the blocking graph, the
	// length in edges of the longest blocking chain leading into it.
	TopologicalDepths(ctx context.Context, boardID types.BoardID) (map[types.CardID]int, error)
}

// service implements Service interface
type service struct {
	repo  database.DataStore
	cache *snapshotCache
}

// NewService creates a new analyzer service
func NewService(repo database.DataStore) Service {
	return &service{
		repo:  repo,
		cache: newSnapshotCache(),
	}
}

// BlockedCards computes the outstanding-blocker set. The completed-card set
// is read fresh on every call: completing a card unblocks its dependents
// without any edge changing, so it must not be folded into the edge cache.
func (s *service) BlockedCards(ctx context.Context, boardID types.BoardID) ([]types.CardID, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}

	snap, err := s.snapshot(ctx, boardID)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CompletedCards(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed cards: %w", err)
	}

	blocked := make(map[types.CardID]bool)
	for _, e := range snap.edges {
		if !completed[e.Target] {
			blocked[e.Source] = true
		}
	}

	return sortedCardSet(blocked), nil
}

// CriticalPath computes the longest directed path in the blocking DAG via a
// single relaxation pass in reverse topological order, in the same spirit as
// critical-path-method scheduling.
func (s *service) CriticalPath(ctx context.Context, boardID types.BoardID) (*models.CriticalPathResult, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}

	snap, err := s.snapshot(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if len(snap.order) == 0 {
		return &models.CriticalPathResult{}, nil
	}

	// best[v] is the longest path starting at v; walking the order backwards
	// guarantees every successor's best path is final before v needs it.
	best := make(map[types.CardID][]types.CardID, len(snap.order))
	for i := len(snap.order) - 1; i >= 0; i-- {
		v := snap.order[i]
		path := []types.CardID{v}
		for _, next := range snap.successors[v] {
			candidate := append([]types.CardID{v}, best[next]...)
			if pathLess(path, candidate) {
				path = candidate
			}
		}
		best[v] = path
	}

	result := best[snap.order[0]]
	for _, v := range snap.order[1:] {
		if pathLess(result, best[v]) {
			result = best[v]
		}
	}

	return &models.CriticalPathResult{Path: result, Length: len(result)}, nil
}

// DependentsOf walks blocking edges backwards from the card
func (s *service) DependentsOf(ctx context.Context, card types.CardID) (*models.DependencyClosure, error) {
	return s.closure(ctx, card, func(snap *boardSnapshot) map[types.CardID][]types.CardID {
		return snap.preds
	})
}

// DependenciesOf walks blocking edges forward from the card
func (s *service) DependenciesOf(ctx context.Context, card types.CardID) (*models.DependencyClosure, error) {
	return s.closure(ctx, card, func(snap *boardSnapshot) map[types.CardID][]types.CardID {
		return snap.successors
	})
}

// TopologicalDepths relaxes depths in topological order: a card's depth is
// one more than the deepest card blocking into it, and 0 for roots.
func (s *service) TopologicalDepths(ctx context.Context, boardID types.BoardID) (map[types.CardID]int, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}

	snap, err := s.snapshot(ctx, boardID)
	if err != nil {
		return nil, err
	}

	depths := make(map[types.CardID]int, len(snap.order))
	for _, v := range snap.order {
		depth := 0
		for _, prev := range snap.preds[v] {
			if d := depths[prev] + 1; d > depth {
				depth = d
			}
		}
		depths[v] = depth
	}

	return depths, nil
}

func (s *service) closure(ctx context.Context, card types.CardID, direction func(*boardSnapshot) map[types.CardID][]types.CardID) (*models.DependencyClosure, error) {
	if card <= 0 {
		return nil, ErrInvalidCardID
	}

	owner, err := s.repo.GetCardByID(ctx, card)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, owner.BoardID)
	if err != nil {
		return nil, err
	}

	adjacency := direction(snap)

	direct := append([]types.CardID(nil), adjacency[card]...)

	all := make(map[types.CardID]bool)
	frontier := append([]types.CardID(nil), adjacency[card]...)
	for len(frontier) > 0 {
		next := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if all[next] {
			continue
		}
		all[next] = true
		frontier = append(frontier, adjacency[next]...)
	}

	return &models.DependencyClosure{
		Card:   card,
		Direct: direct,
		All:    sortedCardSet(all),
	}, nil
}

// pathLess orders paths by length first, then lexicographically smaller
// sequence wins; it returns true when b should replace a.
func pathLess(a, b []types.CardID) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return b[i] < a[i]
		}
	}
	return false
}

func sortedCardSet(set map[types.CardID]bool) []types.CardID {
	cards := make([]types.CardID, 0, len(set))
	for id := range set {
		cards = append(cards, id)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i] < cards[j] })
	return cards
}

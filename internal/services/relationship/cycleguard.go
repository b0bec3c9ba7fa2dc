package relationship

import (
	"sort"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// findCycle decides whether inserting source -> target into the given edge
// set (already filtered to a single acyclicity-guarded kind) would close a
// cycle. Inserting the edge creates a cycle iff a path target -> ... -> source
// already exists, so it searches forward from target. On detection it returns
// the full offending cycle [source, target, ..., source]; otherwise nil.
//
// Neighbor lists are visited in ascending card order so the reported cycle is
// deterministic. O(V+E) per check, which is fine for board-sized graphs.
func findCycle(edges []*models.RelationshipEdge, source, target types.CardID) []types.CardID {
	adjacency := make(map[types.CardID][]types.CardID)
	for _, e := range edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}
	for _, next := range adjacency {
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	}

	path := dfsPath(adjacency, target, source, map[types.CardID]bool{})
	if path == nil {
		return nil
	}

	// path runs target -> ... -> source; the cycle closes through the
	// proposed edge, so it reads source, target, ..., source.
	cycle := make([]types.CardID, 0, len(path)+1)
	cycle = append(cycle, source)
	cycle = append(cycle, path...)
	return cycle
}

// dfsPath returns the path from current to goal following the adjacency
// lists, including both endpoints, or nil if goal is unreachable.
func dfsPath(adjacency map[types.CardID][]types.CardID, current, goal types.CardID, visited map[types.CardID]bool) []types.CardID {
	if current == goal {
		return []types.CardID{current}
	}
	visited[current] = true

	for _, next := range adjacency[current] {
		if visited[next] {
			continue
		}
		if rest := dfsPath(adjacency, next, goal, visited); rest != nil {
			return append([]types.CardID{current}, rest...)
		}
	}

	return nil
}

package analyzer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// boardSnapshot is one immutable view of a board's blocking graph, valid for
// a single edge-set revision. All derived views are computed from it; it is
// rebuilt from the store whenever the revision moves.
type boardSnapshot struct {
	revision   int64
	edges      []*models.RelationshipEdge
	successors map[types.CardID][]types.CardID
	preds      map[types.CardID][]types.CardID
	order      []types.CardID // topological order over blocking nodes
}

// snapshotCache caches at most one snapshot per board, keyed by the edge-set
// revision reported by the store. Readers share cached snapshots freely;
// they are never mutated after construction.
type snapshotCache struct {
	mu     sync.RWMutex
	boards map[types.BoardID]*boardSnapshot
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{boards: make(map[types.BoardID]*boardSnapshot)}
}

func (c *snapshotCache) get(boardID types.BoardID, revision int64) *boardSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if snap, ok := c.boards[boardID]; ok && snap.revision == revision {
		return snap
	}
	return nil
}

func (c *snapshotCache) put(boardID types.BoardID, snap *boardSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards[boardID] = snap
}

// snapshot returns the current blocking-graph view for a board, rebuilding
// it if the edge set changed since the cached copy was taken.
func (s *service) snapshot(ctx context.Context, boardID types.BoardID) (*boardSnapshot, error) {
	revision := s.repo.GraphRevision(boardID)
	if snap := s.cache.get(boardID, revision); snap != nil {
		return snap, nil
	}

	edges, err := s.repo.EdgesByKind(ctx, boardID, models.KindBlocks)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocking edges: %w", err)
	}

	snap, err := buildSnapshot(revision, edges)
	if err != nil {
		return nil, err
	}

	s.cache.put(boardID, snap)
	return snap, nil
}

// buildSnapshot assembles the adjacency maps and topological order for a set
// of blocking edges. The nodes of the graph are exactly the cards touched by
// at least one blocking edge.
func buildSnapshot(revision int64, edges []*models.RelationshipEdge) (*boardSnapshot, error) {
	snap := &boardSnapshot{
		revision:   revision,
		edges:      edges,
		successors: make(map[types.CardID][]types.CardID),
		preds:      make(map[types.CardID][]types.CardID),
	}

	g := simple.NewDirectedGraph()
	for _, e := range edges {
		from := simple.Node(int64(e.Source))
		to := simple.Node(int64(e.Target))
		if g.Node(int64(e.Source)) == nil {
			g.AddNode(from)
		}
		if g.Node(int64(e.Target)) == nil {
			g.AddNode(to)
		}
		g.SetEdge(g.NewEdge(from, to))

		snap.successors[e.Source] = append(snap.successors[e.Source], e.Target)
		snap.preds[e.Target] = append(snap.preds[e.Target], e.Source)
	}

	for _, next := range snap.successors {
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	}
	for _, prev := range snap.preds {
		sort.Slice(prev, func(i, j int) bool { return prev[i] < prev[j] })
	}

	// Stabilized sort keeps the order deterministic across runs; the cycle
	// guard guarantees the graph is a DAG, so an unorderable result means
	// the store was corrupted outside the mutation API.
	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	})
	if err != nil {
		return nil, ErrGraphNotAcyclic
	}

	snap.order = make([]types.CardID, len(sorted))
	for i, n := range sorted {
		snap.order[i] = types.CardID(n.ID())
	}

	return snap, nil
}

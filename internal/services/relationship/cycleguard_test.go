package relationship

import (
	"testing"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

func edgeSet(pairs ...[2]types.CardID) []*models.RelationshipEdge {
	edges := make([]*models.RelationshipEdge, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, &models.RelationshipEdge{
			Source: p[0],
			Target: p[1],
			Kind:   models.KindBlocks,
		})
	}
	return edges
}

func cardsEqual(a, b []types.CardID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindCycle_NoExistingEdges(t *testing.T) {
	t.Parallel()

	if cycle := findCycle(nil, 1, 2); cycle != nil {
		t.Errorf("Expected no cycle on empty graph, got %v", cycle)
	}
}

func TestFindCycle_DirectCycle(t *testing.T) {
	t.Parallel()

	// 1 -> 2 exists; adding 2 -> 1 closes the loop
	edges := edgeSet([2]types.CardID{1, 2})

	cycle := findCycle(edges, 2, 1)
	if cycle == nil {
		t.Fatal("Expected a cycle")
	}

	want := []types.CardID{2, 1, 2}
	if !cardsEqual(cycle, want) {
		t.Errorf("Expected cycle %v, got %v", want, cycle)
	}
}

func TestFindCycle_TransitiveCycle(t *testing.T) {
	t.Parallel()

	// 1 -> 2 -> 3 exists; adding 3 -> 1 closes the loop through both
	edges := edgeSet([2]types.CardID{1, 2}, [2]types.CardID{2, 3})

	cycle := findCycle(edges, 3, 1)
	if cycle == nil {
		t.Fatal("Expected a cycle")
	}

	want := []types.CardID{3, 1, 2, 3}
	if !cardsEqual(cycle, want) {
		t.Errorf("Expected cycle %v, got %v", want, cycle)
	}
}

func TestFindCycle_NoCycleOnDiamond(t *testing.T) {
	t.Parallel()

	// 1 -> 2, 1 -> 3, 2 -> 4, 3 -> 4: adding 1 -> 4 is fine
	edges := edgeSet(
		[2]types.CardID{1, 2},
		[2]types.CardID{1, 3},
		[2]types.CardID{2, 4},
		[2]types.CardID{3, 4},
	)

	if cycle := findCycle(edges, 1, 4); cycle != nil {
		t.Errorf("Expected no cycle on diamond, got %v", cycle)
	}
}

func TestFindCycle_ReverseOfTransitive(t *testing.T) {
	t.Parallel()

	// 1 -> 2 -> 3: adding 1 -> 3 merely shortcuts, no cycle
	edges := edgeSet([2]types.CardID{1, 2}, [2]types.CardID{2, 3})

	if cycle := findCycle(edges, 1, 3); cycle != nil {
		t.Errorf("Expected no cycle on shortcut edge, got %v", cycle)
	}
}

func TestFindCycle_DeterministicPath(t *testing.T) {
	t.Parallel()

	// Two routes from 1 back to 5: via 2 and via 4. The guard must report
	// the route through the smallest card IDs every time.
	edges := edgeSet(
		[2]types.CardID{1, 2},
		[2]types.CardID{1, 4},
		[2]types.CardID{2, 5},
		[2]types.CardID{4, 5},
	)

	cycle := findCycle(edges, 5, 1)
	if cycle == nil {
		t.Fatal("Expected a cycle")
	}

	want := []types.CardID{5, 1, 2, 5}
	if !cardsEqual(cycle, want) {
		t.Errorf("Expected cycle %v, got %v", want, cycle)
	}
}

func TestFindCycle_IgnoresDisconnectedEdges(t *testing.T) {
	t.Parallel()

	edges := edgeSet(
		[2]types.CardID{10, 11},
		[2]types.CardID{11, 12},
	)

	if cycle := findCycle(edges, 1, 2); cycle != nil {
		t.Errorf("Expected no cycle across disconnected component, got %v", cycle)
	}
}

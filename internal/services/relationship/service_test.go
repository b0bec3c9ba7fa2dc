package relationship

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tablero-dev/tablero/internal/database"
	"github.com/tablero-dev/tablero/internal/events"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/testutil"
	"github.com/tablero-dev/tablero/internal/types"
)

// recordingPublisher captures published events for verification
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Connect(ctx context.Context) error { return nil }
func (p *recordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
func (p *recordingPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	return nil, nil
}
func (p *recordingPublisher) Subscribe(boardID int) error { return nil }
func (p *recordingPublisher) Close() error                { return nil }

func (p *recordingPublisher) recorded() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type fixture struct {
	repo    *database.Repository
	svc     Service
	pub     *recordingPublisher
	boardID types.BoardID
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	pub := &recordingPublisher{}
	return &fixture{
		repo:    repo,
		svc:     NewService(repo, pub),
		pub:     pub,
		boardID: testutil.CreateTestBoard(t, repo, "Board"),
	}
}

func (f *fixture) card(t *testing.T, title string) types.CardID {
	t.Helper()
	return testutil.CreateTestCard(t, f.repo, f.boardID, title)
}

func (f *fixture) propose(source, target types.CardID, kind models.RelationshipKind) (*models.RelationshipEdge, error) {
	return f.svc.ProposeEdge(context.Background(), ProposeEdgeRequest{
		BoardID: f.boardID,
		Source:  source,
		Target:  target,
		Kind:    kind,
		Actor:   "tester",
	})
}

func TestProposeEdge(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	edge, err := f.propose(a, b, models.KindBlocks)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if edge.Source != a || edge.Target != b {
		t.Errorf("Expected edge %d -> %d, got %d -> %d", a, b, edge.Source, edge.Target)
	}

	recorded := f.pub.recorded()
	if len(recorded) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(recorded))
	}
	if recorded[0].Type != events.EventEdgeAdded {
		t.Errorf("Expected edge_added event, got %v", recorded[0].Type)
	}
	if recorded[0].CardID != a || recorded[0].TargetID != b {
		t.Errorf("Expected event for edge %d -> %d, got %d -> %d",
			a, b, recorded[0].CardID, recorded[0].TargetID)
	}
}

func TestProposeEdge_RejectsCycle(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")
	c := f.card(t, "C")

	// A blocks B, B blocks C
	if _, err := f.propose(a, b, models.KindBlocks); err != nil {
		t.Fatalf("First edge failed: %v", err)
	}
	if _, err := f.propose(b, c, models.KindBlocks); err != nil {
		t.Fatalf("Second edge failed: %v", err)
	}

	// C blocks A would close the loop
	_, err := f.propose(c, a, models.KindBlocks)
	if err == nil {
		t.Fatal("Expected cycle rejection")
	}

	var cde *models.CircularDependencyError
	if !errors.As(err, &cde) {
		t.Fatalf("Expected CircularDependencyError, got %T: %v", err, err)
	}

	want := []types.CardID{c, a, b, c}
	if !cardsEqual(cde.Cycle, want) {
		t.Errorf("Expected cycle %v, got %v", want, cde.Cycle)
	}

	// The rejection must leave the edge set untouched
	edges, err := f.repo.EdgesByBoard(context.Background(), f.boardID)
	if err != nil {
		t.Fatalf("Failed to load edges: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("Expected edge set unchanged at 2 edges, got %d", len(edges))
	}
}

func TestProposeEdge_ParentChildAlsoGuarded(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	if _, err := f.propose(a, b, models.KindParentChild); err != nil {
		t.Fatalf("First edge failed: %v", err)
	}

	_, err := f.propose(b, a, models.KindParentChild)
	if err == nil {
		t.Fatal("Expected cycle rejection for parent_child loop")
	}

	var cde *models.CircularDependencyError
	if !errors.As(err, &cde) {
		t.Fatalf("Expected CircularDependencyError, got %T: %v", err, err)
	}
	if cde.Kind != models.KindParentChild {
		t.Errorf("Expected parent_child kind in error, got %v", cde.Kind)
	}
}

func TestProposeEdge_CycleGuardScopedToKind(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	// A blocks B, but a parent_child edge B -> A does not loop within its
	// own kind and must be allowed
	if _, err := f.propose(a, b, models.KindBlocks); err != nil {
		t.Fatalf("First edge failed: %v", err)
	}

	if _, err := f.propose(b, a, models.KindParentChild); err != nil {
		t.Fatalf("Expected cross-kind edge to be allowed, got %v", err)
	}
}

func TestProposeEdge_UnguardedKindAllowsLoop(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	if _, err := f.propose(a, b, models.KindRelatesTo); err != nil {
		t.Fatalf("First edge failed: %v", err)
	}

	// relates_to carries no ordering semantics, so the reverse edge is fine
	if _, err := f.propose(b, a, models.KindRelatesTo); err != nil {
		t.Fatalf("Expected reverse relates_to edge to be allowed, got %v", err)
	}
}

func TestProposeEdge_SelfRelation(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")

	_, err := f.propose(a, a, models.KindBlocks)
	if err != ErrSelfRelation {
		t.Errorf("Expected ErrSelfRelation, got %v", err)
	}
}

func TestProposeEdge_InvalidKind(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	_, err := f.propose(a, b, models.RelationshipKind("depends_on"))
	if err != ErrInvalidKind {
		t.Errorf("Expected ErrInvalidKind, got %v", err)
	}
}

func TestProposeEdge_MissingCard(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")

	_, err := f.propose(a, 9999, models.KindBlocks)
	if err == nil {
		t.Fatal("Expected error for missing target card")
	}

	var nfe *models.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("Expected NotFoundError, got %T: %v", err, err)
	}
}

func TestProposeEdge_Duplicate(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	if _, err := f.propose(a, b, models.KindBlocks); err != nil {
		t.Fatalf("First edge failed: %v", err)
	}

	_, err := f.propose(a, b, models.KindBlocks)
	if err == nil {
		t.Fatal("Expected duplicate edge error")
	}

	var dup *models.DuplicateEdgeError
	if !errors.As(err, &dup) {
		t.Errorf("Expected DuplicateEdgeError, got %T: %v", err, err)
	}
}

func TestRemoveEdge(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")
	if _, err := f.propose(a, b, models.KindBlocks); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if err := f.svc.RemoveEdge(context.Background(), f.boardID, a, b, models.KindBlocks); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	edges, err := f.svc.EdgesFor(context.Background(), a)
	if err != nil {
		t.Fatalf("Failed to load edges: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("Expected no edges after removal, got %d", len(edges))
	}

	recorded := f.pub.recorded()
	if len(recorded) != 2 {
		t.Fatalf("Expected add and remove events, got %d", len(recorded))
	}
	if recorded[1].Type != events.EventEdgeRemoved {
		t.Errorf("Expected edge_removed event, got %v", recorded[1].Type)
	}
}

func TestRemoveEdge_AbsentIsNotAnError(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	if err := f.svc.RemoveEdge(context.Background(), f.boardID, a, b, models.KindBlocks); err != nil {
		t.Errorf("Expected removing an absent edge to succeed, got %v", err)
	}
}

func TestRemoveThenReAdd_ReversedDirection(t *testing.T) {
	t.Parallel()

	f := setupFixture(t)
	a := f.card(t, "A")
	b := f.card(t, "B")

	if _, err := f.propose(a, b, models.KindBlocks); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	if err := f.svc.RemoveEdge(context.Background(), f.boardID, a, b, models.KindBlocks); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	// With the original edge gone the reverse direction no longer cycles
	if _, err := f.propose(b, a, models.KindBlocks); err != nil {
		t.Fatalf("Expected reversed edge after removal to be allowed, got %v", err)
	}
}

func TestProposeEdge_NilEventClient(t *testing.T) {
	t.Parallel()

	repo := testutil.SetupTestRepo(t)
	svc := NewService(repo, nil)
	boardID := testutil.CreateTestBoard(t, repo, "Board")
	a := testutil.CreateTestCard(t, repo, boardID, "A")
	b := testutil.CreateTestCard(t, repo, boardID, "B")

	if _, err := svc.ProposeEdge(context.Background(), ProposeEdgeRequest{
		BoardID: boardID,
		Source:  a,
		Target:  b,
		Kind:    models.KindBlocks,
		Actor:   "tester",
	}); err != nil {
		t.Fatalf("Expected no error without an event client, got %v", err)
	}
}

package relationship

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tablero-dev/tablero/internal/database"
	"github.com/tablero-dev/tablero/internal/events"
	"github.com/tablero-dev/tablero/internal/metrics"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// Service defines all relationship-graph business operations
type Service interface {
	// ProposeEdge validates and inserts a new edge. For acyclicity-guarded
	// kinds it runs the cycle guard first and rejects with a
	// CircularDependencyError naming the offending cycle.
	ProposeEdge(ctx context.Context, req ProposeEdgeRequest) (*models.RelationshipEdge, error)

	// RemoveEdge deletes an edge; removing an absent edge is not an error.
	RemoveEdge(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind) error

	// EdgesFor returns all edges where the card is source or target.
	EdgesFor(ctx context.Context, card types.CardID) ([]*models.RelationshipEdge, error)
}

// ProposeEdgeRequest encapsulates all data needed to propose an edge
type ProposeEdgeRequest struct {
	BoardID     types.BoardID
	Source      types.CardID
	Target      types.CardID
	Kind        models.RelationshipKind
	Description string
	Actor       types.ActorID
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.EventPublisher

	// Per-board write locks keep the cycle guard's view and the insert
	// atomic with respect to other edge mutations on the same board.
	boardLocks sync.Map // types.BoardID -> *sync.Mutex
}

// NewService creates a new relationship service
func NewService(repo database.DataStore, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// ProposeEdge handles edge creation with validation and cycle prevention
func (s *service) ProposeEdge(ctx context.Context, req ProposeEdgeRequest) (*models.RelationshipEdge, error) {
	if err := s.validateProposeEdge(req); err != nil {
		return nil, err
	}

	if err := s.checkCardExists(ctx, req.Source); err != nil {
		return nil, err
	}
	if err := s.checkCardExists(ctx, req.Target); err != nil {
		return nil, err
	}

	lock := s.boardLock(req.BoardID)
	lock.Lock()
	defer lock.Unlock()

	if req.Kind.RequiresAcyclicity() {
		edges, err := s.repo.EdgesByKind(ctx, req.BoardID, req.Kind)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s edges: %w", req.Kind, err)
		}
		if cycle := findCycle(edges, req.Source, req.Target); cycle != nil {
			metrics.CycleRejectionsTotal.Inc()
			return nil, &models.CircularDependencyError{Kind: req.Kind, Cycle: cycle}
		}
	}

	edge, err := s.repo.AddEdge(ctx, req.BoardID, req.Source, req.Target, req.Kind, req.Description)
	if err != nil {
		return nil, err
	}

	s.publishEdgeEvent(events.EventEdgeAdded, edge, req.Actor)

	return edge, nil
}

// RemoveEdge handles edge removal
func (s *service) RemoveEdge(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind) error {
	if source <= 0 || target <= 0 {
		return ErrInvalidCardID
	}
	if boardID <= 0 {
		return ErrInvalidBoardID
	}
	if !kind.Valid() {
		return ErrInvalidKind
	}

	lock := s.boardLock(boardID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.RemoveEdge(ctx, boardID, source, target, kind); err != nil {
		return fmt.Errorf("failed to remove edge: %w", err)
	}

	s.publishEdgeEvent(events.EventEdgeRemoved, &models.RelationshipEdge{
		BoardID: boardID,
		Source:  source,
		Target:  target,
		Kind:    kind,
	}, "")

	return nil
}

// EdgesFor retrieves all edges touching a card
func (s *service) EdgesFor(ctx context.Context, card types.CardID) ([]*models.RelationshipEdge, error) {
	if card <= 0 {
		return nil, ErrInvalidCardID
	}
	return s.repo.EdgesForCard(ctx, card)
}

// validateProposeEdge validates a ProposeEdgeRequest
func (s *service) validateProposeEdge(req ProposeEdgeRequest) error {
	if req.Source <= 0 || req.Target <= 0 {
		return ErrInvalidCardID
	}
	if req.BoardID <= 0 {
		return ErrInvalidBoardID
	}
	if req.Source == req.Target {
		return ErrSelfRelation
	}
	if !req.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (s *service) checkCardExists(ctx context.Context, card types.CardID) error {
	exists, err := s.repo.CardExists(ctx, card)
	if err != nil {
		return fmt.Errorf("failed to check card %d: %w", card, err)
	}
	if !exists {
		return models.NewCardNotFound(card)
	}
	return nil
}

func (s *service) boardLock(boardID types.BoardID) *sync.Mutex {
	if l, ok := s.boardLocks.Load(boardID); ok {
		return l.(*sync.Mutex)
	}
	l, _ := s.boardLocks.LoadOrStore(boardID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

// publishEdgeEvent publishes an edge event if the event client exists
func (s *service) publishEdgeEvent(eventType events.EventType, edge *models.RelationshipEdge, actor types.ActorID) {
	if s.eventClient == nil {
		return
	}

	_ = events.PublishWithRetry(s.eventClient, events.Event{
		Type:      eventType,
		BoardID:   edge.BoardID,
		CardID:    edge.Source,
		TargetID:  edge.Target,
		Kind:      string(edge.Kind),
		Actor:     actor,
		Timestamp: time.Now(),
	}, 3)
}

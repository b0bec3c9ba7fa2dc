// Package ledger is the single source of truth for what version each card is
// at and who wrote it. Commit is the only path that advances a version; a
// mismatched expected version comes back as a VersionConflict value because
// contention is an expected outcome of multi-user editing, not an exception.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/tablero-dev/tablero/internal/database"
	"github.com/tablero-dev/tablero/internal/events"
	"github.com/tablero-dev/tablero/internal/metrics"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// Service defines the version-ledger operations
type Service interface {
	// CurrentVersion returns the authoritative version of a card.
	CurrentVersion(ctx context.Context, card types.CardID) (types.Version, error)

	// Commit atomically advances the card to ExpectedVersion+1 when the
	// expected version still matches, recording actor and snapshot. A
	// mismatch returns a CommitResult carrying a VersionConflict.
	Commit(ctx context.Context, req CommitRequest) (CommitResult, error)

	// RevisionAt returns the stored snapshot of a card at a past version.
	RevisionAt(ctx context.Context, card types.CardID, version types.Version) (*models.CardRevision, error)
}

// CommitRequest encapsulates all data needed to commit a card mutation
type CommitRequest struct {
	CardID          types.CardID
	ExpectedVersion types.Version
	Actor           types.ActorID
	Snapshot        models.CardSnapshot
}

// CommitResult is the outcome of a commit attempt. Exactly one of
// NewVersion (on acceptance) or Conflict is meaningful.
type CommitResult struct {
	NewVersion types.Version
	Conflict   *models.VersionConflict
}

// Accepted reports whether the commit advanced the card's version.
func (r CommitResult) Accepted() bool {
	return r.Conflict == nil
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	eventClient events.EventPublisher
}

// NewService creates a new ledger service
func NewService(repo database.DataStore, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// CurrentVersion retrieves the authoritative version of a card
func (s *service) CurrentVersion(ctx context.Context, card types.CardID) (types.Version, error) {
	if card <= 0 {
		return 0, ErrInvalidCardID
	}
	return s.repo.CurrentVersion(ctx, card)
}

// Commit performs the check-and-increment. The repository runs the
// compare-and-set inside a single transaction, so two concurrent commits
// against the same expected version can never both succeed.
func (s *service) Commit(ctx context.Context, req CommitRequest) (CommitResult, error) {
	if req.CardID <= 0 {
		return CommitResult{}, ErrInvalidCardID
	}
	if req.ExpectedVersion < 1 {
		return CommitResult{}, ErrInvalidVersion
	}
	if req.Actor == "" {
		return CommitResult{}, ErrMissingActor
	}
	if req.Snapshot.Title == "" {
		return CommitResult{}, ErrEmptyTitle
	}

	newVersion, conflict, err := s.repo.CommitCard(ctx, req.CardID, req.ExpectedVersion, req.Actor, req.Snapshot)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to commit card %d: %w", req.CardID, err)
	}

	if conflict != nil {
		metrics.CommitsTotal.WithLabelValues("conflict").Inc()
		return CommitResult{Conflict: conflict}, nil
	}

	metrics.CommitsTotal.WithLabelValues("accepted").Inc()
	s.publishCommitEvent(ctx, req, newVersion)

	return CommitResult{NewVersion: newVersion}, nil
}

// RevisionAt retrieves a historical snapshot
func (s *service) RevisionAt(ctx context.Context, card types.CardID, version types.Version) (*models.CardRevision, error) {
	if card <= 0 {
		return nil, ErrInvalidCardID
	}
	if version < 1 {
		return nil, ErrInvalidVersion
	}
	return s.repo.GetCardRevision(ctx, card, version)
}

// publishCommitEvent publishes a card_committed event if the event client exists
func (s *service) publishCommitEvent(ctx context.Context, req CommitRequest, newVersion types.Version) {
	if s.eventClient == nil {
		return
	}

	card, err := s.repo.GetCardByID(ctx, req.CardID)
	if err != nil {
		// The commit already succeeded; the event is best-effort.
		return
	}

	_ = events.PublishWithRetry(s.eventClient, events.Event{
		Type:      events.EventCardCommitted,
		BoardID:   card.BoardID,
		CardID:    req.CardID,
		Version:   newVersion,
		Actor:     req.Actor,
		Timestamp: time.Now(),
	}, 3)
}

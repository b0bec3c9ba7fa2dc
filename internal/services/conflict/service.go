// Package conflict turns version mismatches into actionable conflict cases
// and applies the resolution a user chooses. Cases live in memory only: a
// client that disconnects simply abandons its case, and nothing needs to be
// rolled back because nothing was committed.
package conflict

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tablero-dev/tablero/internal/database"
	"github.com/tablero-dev/tablero/internal/metrics"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/services/ledger"
	"github.com/tablero-dev/tablero/internal/types"
)

// resolveAttempts bounds the keep-local retry loop. Each retry re-reads the
// current version, so it only loops while other writers keep landing commits
// between the read and the compare-and-set.
const resolveAttempts = 5

// Service defines the optimistic-concurrency edit operations
type Service interface {
	// SubmitEdit attempts to commit a card change against the version the
	// client last observed. On a version mismatch it returns a ConflictCase
	// instead of committing anything.
	SubmitEdit(ctx context.Context, req EditRequest) (*EditOutcome, error)

	// ResolveConflict applies the user's choice to a previously returned
	// conflict case. Local and Manual re-submit at the now-current version;
	// Remote abandons the local change.
	ResolveConflict(ctx context.Context, req ResolveRequest) (*EditOutcome, error)

	// Close stops the expiry sweeper.
	Close()
}

// EditRequest encapsulates a client's proposed card change
type EditRequest struct {
	CardID      types.CardID
	BaseVersion types.Version // version the client last observed
	Actor       types.ActorID
	Change      models.CardSnapshot
}

// ResolveRequest encapsulates a resolution choice for an open conflict case
type ResolveRequest struct {
	ConflictID types.ConflictID
	Resolution models.Resolution
	Actor      types.ActorID
	Merged     *models.CardSnapshot // required for ResolutionManual
}

// EditOutcome is the result of a submit or resolve call. Exactly one of
// NewVersion, Conflict, or Abandoned is meaningful.
type EditOutcome struct {
	NewVersion types.Version
	Conflict   *models.ConflictCase
	Abandoned  bool // resolution discarded the local change; reload the server snapshot
}

// Accepted reports whether a commit happened.
func (o *EditOutcome) Accepted() bool {
	return o.Conflict == nil && !o.Abandoned
}

// service implements Service interface
type service struct {
	repo   database.DataStore
	ledger ledger.Service

	mu    sync.Mutex
	cases map[types.ConflictID]*models.ConflictCase

	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

// NewService creates a new conflict resolver. Cases older than ttl are
// swept periodically; a ttl of zero disables expiry.
func NewService(repo database.DataStore, ledgerSvc ledger.Service, ttl time.Duration) Service {
	s := &service{
		repo:   repo,
		ledger: ledgerSvc,
		cases:  make(map[types.ConflictID]*models.ConflictCase),
		ttl:    ttl,
		stop:   make(chan struct{}),
	}

	if ttl > 0 {
		go s.sweepLoop()
	}

	return s
}

// SubmitEdit handles the optimistic commit path
func (s *service) SubmitEdit(ctx context.Context, req EditRequest) (*EditOutcome, error) {
	if req.CardID <= 0 {
		return nil, ErrInvalidCardID
	}
	if req.BaseVersion < 1 {
		return nil, ErrInvalidBaseVersion
	}
	if req.Actor == "" {
		return nil, ErrMissingActor
	}

	result, err := s.ledger.Commit(ctx, ledger.CommitRequest{
		CardID:          req.CardID,
		ExpectedVersion: req.BaseVersion,
		Actor:           req.Actor,
		Snapshot:        req.Change,
	})
	if err != nil {
		return nil, err
	}

	if result.Accepted() {
		return &EditOutcome{NewVersion: result.NewVersion}, nil
	}

	cc, err := s.buildCase(ctx, req, result.Conflict)
	if err != nil {
		return nil, err
	}

	return &EditOutcome{Conflict: cc}, nil
}

// ResolveConflict applies the chosen resolution and discards the case
func (s *service) ResolveConflict(ctx context.Context, req ResolveRequest) (*EditOutcome, error) {
	if !req.Resolution.Valid() {
		return nil, ErrInvalidResolution
	}
	if req.Actor == "" {
		return nil, ErrMissingActor
	}
	if req.Resolution == models.ResolutionManual && req.Merged == nil {
		return nil, ErrMissingPayload
	}

	cc, err := s.takeCase(req.ConflictID)
	if err != nil {
		return nil, err
	}

	switch req.Resolution {
	case models.ResolutionRemote:
		// Nothing to commit; the client reloads the server snapshot.
		metrics.ConflictsResolvedTotal.WithLabelValues(string(models.ResolutionRemote)).Inc()
		return &EditOutcome{Abandoned: true}, nil

	case models.ResolutionLocal:
		return s.overwrite(ctx, cc, req.Actor, cc.LocalChange, models.ResolutionLocal)

	case models.ResolutionManual:
		return s.overwrite(ctx, cc, req.Actor, *req.Merged, models.ResolutionManual)
	}

	return nil, ErrInvalidResolution
}

// Close stops the expiry sweeper
func (s *service) Close() {
	s.once.Do(func() { close(s.stop) })
}

// overwrite re-submits a snapshot at the now-current version, converting the
// conflict into a plain overwrite with the user's explicit consent.
func (s *service) overwrite(ctx context.Context, cc *models.ConflictCase, actor types.ActorID, snapshot models.CardSnapshot, resolution models.Resolution) (*EditOutcome, error) {
	for attempt := 0; attempt < resolveAttempts; attempt++ {
		current, err := s.ledger.CurrentVersion(ctx, cc.CardID)
		if err != nil {
			return nil, err
		}

		result, err := s.ledger.Commit(ctx, ledger.CommitRequest{
			CardID:          cc.CardID,
			ExpectedVersion: current,
			Actor:           actor,
			Snapshot:        snapshot,
		})
		if err != nil {
			return nil, err
		}

		if result.Accepted() {
			metrics.ConflictsResolvedTotal.WithLabelValues(string(resolution)).Inc()
			return &EditOutcome{NewVersion: result.NewVersion}, nil
		}

		// Another writer landed between the read and the commit; the next
		// iteration adopts the even newer version.
		slog.Debug("resolution commit raced, retrying",
			"card_id", cc.CardID,
			"attempt", attempt+1)
	}

	return nil, fmt.Errorf("card %d: resolution kept racing other writers", cc.CardID)
}

// buildCase packages both sides of the mismatch for the client
func (s *service) buildCase(ctx context.Context, req EditRequest, vc *models.VersionConflict) (*models.ConflictCase, error) {
	card, err := s.repo.GetCardByID(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	// The base revision shows what the client edited from, which lets the
	// diff mark fields both sides moved. If history is missing, diff against
	// the remote side so every divergence still surfaces.
	base := card.Snapshot()
	if rev, err := s.ledger.RevisionAt(ctx, req.CardID, req.BaseVersion); err == nil {
		base = rev.Snapshot
	}

	cc := &models.ConflictCase{
		ID:             types.ConflictID(uuid.NewString()),
		CardID:         req.CardID,
		BoardID:        card.BoardID,
		BaseVersion:    req.BaseVersion,
		CurrentVersion: vc.Current,
		LocalChange:    req.Change,
		RemoteChange:   card.Snapshot(),
		Diffs:          diffSnapshots(base, req.Change, card.Snapshot()),
		CreatedAt:      time.Now(),
	}

	s.mu.Lock()
	s.cases[cc.ID] = cc
	s.mu.Unlock()

	slog.Debug("conflict case opened",
		"conflict_id", cc.ID,
		"card_id", cc.CardID,
		"base_version", cc.BaseVersion,
		"current_version", cc.CurrentVersion)

	return cc, nil
}

// takeCase removes and returns an open case, enforcing expiry lazily
func (s *service) takeCase(id types.ConflictID) (*models.ConflictCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cc, ok := s.cases[id]
	if !ok {
		return nil, ErrConflictNotFound
	}
	delete(s.cases, id)

	if s.ttl > 0 && time.Since(cc.CreatedAt) > s.ttl {
		metrics.ConflictsExpiredTotal.Inc()
		return nil, ErrConflictNotFound
	}

	return cc, nil
}

// sweepLoop drops abandoned cases past their TTL
func (s *service) sweepLoop() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, cc := range s.cases {
				if now.Sub(cc.CreatedAt) > s.ttl {
					delete(s.cases, id)
					metrics.ConflictsExpiredTotal.Inc()
				}
			}
			s.mu.Unlock()
		}
	}
}

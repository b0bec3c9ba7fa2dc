package database

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// ============================================================================
// Relationship Edge Operations
// ============================================================================

// EdgeRepo is the relationship store: a dumb ledger of directed typed edges.
// It enforces nothing beyond triple uniqueness; cycle checks and existence
// validation belong to the relationship service.
//
// Each successful mutation bumps an in-process per-board graph revision,
// which the analyzer uses to invalidate its cached views. The counters are
// process-local by design: caches die with the process anyway.
type EdgeRepo struct {
	db   *sql.DB
	revs sync.Map // types.BoardID -> *atomic.Int64
}

// Add inserts a new edge. Returns a DuplicateEdgeError if an identical
// (source, target, kind) triple already exists.
func (r *EdgeRepo) Add(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind, description string) (*models.RelationshipEdge, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM card_relationships
		 WHERE source_id = ? AND target_id = ? AND kind = ?)`,
		source.ToInt(), target.ToInt(), string(kind),
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &models.DuplicateEdgeError{Source: source, Target: target, Kind: kind}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO card_relationships (board_id, source_id, target_id, kind, description)
		 VALUES (?, ?, ?, ?, ?)`,
		boardID.ToInt(), source.ToInt(), target.ToInt(), string(kind), description,
	)
	if err != nil {
		return nil, err
	}

	r.bumpRevision(boardID)

	edge := &models.RelationshipEdge{}
	err = r.db.QueryRowContext(ctx,
		`SELECT board_id, source_id, target_id, kind, description, created_at
		 FROM card_relationships
		 WHERE source_id = ? AND target_id = ? AND kind = ?`,
		source.ToInt(), target.ToInt(), string(kind),
	).Scan(&edge.BoardID, &edge.Source, &edge.Target, &edge.Kind, &edge.Description, &edge.CreatedAt)
	if err != nil {
		return nil, err
	}

	return edge, nil
}

// Remove deletes an edge. Idempotent: removing an absent edge is not an
// error and leaves the graph revision untouched.
func (r *EdgeRepo) Remove(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM card_relationships
		 WHERE source_id = ? AND target_id = ? AND kind = ?`,
		source.ToInt(), target.ToInt(), string(kind),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		r.bumpRevision(boardID)
	}

	return nil
}

// EdgesFor retrieves all edges where the card is source or target
func (r *EdgeRepo) EdgesFor(ctx context.Context, card types.CardID) ([]*models.RelationshipEdge, error) {
	return r.queryEdges(ctx,
		`SELECT board_id, source_id, target_id, kind, description, created_at
		 FROM card_relationships
		 WHERE source_id = ? OR target_id = ?
		 ORDER BY source_id, target_id, kind`,
		card.ToInt(), card.ToInt(),
	)
}

// EdgesByBoard retrieves all edges on a board
func (r *EdgeRepo) EdgesByBoard(ctx context.Context, boardID types.BoardID) ([]*models.RelationshipEdge, error) {
	return r.queryEdges(ctx,
		`SELECT board_id, source_id, target_id, kind, description, created_at
		 FROM card_relationships
		 WHERE board_id = ?
		 ORDER BY source_id, target_id, kind`,
		boardID.ToInt(),
	)
}

// EdgesByKind retrieves all edges of one kind on a board
func (r *EdgeRepo) EdgesByKind(ctx context.Context, boardID types.BoardID, kind models.RelationshipKind) ([]*models.RelationshipEdge, error) {
	return r.queryEdges(ctx,
		`SELECT board_id, source_id, target_id, kind, description, created_at
		 FROM card_relationships
		 WHERE board_id = ? AND kind = ?
		 ORDER BY source_id, target_id`,
		boardID.ToInt(), string(kind),
	)
}

// GraphRevision returns the current edge-set revision for a board. The value
// changes exactly when the board's edge set changes.
func (r *EdgeRepo) GraphRevision(boardID types.BoardID) int64 {
	return r.counter(boardID).Load()
}

func (r *EdgeRepo) bumpRevision(boardID types.BoardID) {
	r.counter(boardID).Add(1)
}

func (r *EdgeRepo) counter(boardID types.BoardID) *atomic.Int64 {
	if c, ok := r.revs.Load(boardID); ok {
		return c.(*atomic.Int64)
	}
	c, _ := r.revs.LoadOrStore(boardID, &atomic.Int64{})
	return c.(*atomic.Int64)
}

func (r *EdgeRepo) queryEdges(ctx context.Context, query string, args ...any) ([]*models.RelationshipEdge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*models.RelationshipEdge
	for rows.Next() {
		edge := &models.RelationshipEdge{}
		if err := rows.Scan(
			&edge.BoardID, &edge.Source, &edge.Target,
			&edge.Kind, &edge.Description, &edge.CreatedAt,
		); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return edges, nil
}

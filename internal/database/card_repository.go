package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// ============================================================================
// Card Operations
// ============================================================================

// CardRepo provides card data access, including the version ledger: every
// card carries a strictly increasing version number, and Commit is the only
// write path that advances it.
type CardRepo struct {
	db *sql.DB
}

// Create creates a new card at version 1, recording the creating actor as
// the first writer and the initial snapshot as revision 1.
func (r *CardRepo) Create(ctx context.Context, boardID types.BoardID, title, description string, actor types.ActorID) (*models.Card, error) {
	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO cards (board_id, title, description, last_modified_by)
			 VALUES (?, ?, ?, ?)`,
			boardID.ToInt(), title, description, string(actor),
		)
		if err != nil {
			return err
		}

		id, err = result.LastInsertId()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO card_revisions (card_id, version, actor, title, description, completed)
			 VALUES (?, 1, ?, ?, ?, 0)`,
			id, string(actor), title, description,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, types.CardID(id))
}

// GetByID retrieves a card by ID
func (r *CardRepo) GetByID(ctx context.Context, id types.CardID) (*models.Card, error) {
	card := &models.Card{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, board_id, title, description, completed, version, last_modified_by, created_at, updated_at
		 FROM cards WHERE id = ?`,
		id.ToInt(),
	).Scan(
		&card.ID, &card.BoardID, &card.Title, &card.Description, &card.Completed,
		&card.Version, &card.LastModifiedBy, &card.CreatedAt, &card.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewCardNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Exists reports whether the card exists
func (r *CardRepo) Exists(ctx context.Context, id types.CardID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM cards WHERE id = ?)`, id.ToInt(),
	).Scan(&exists)
	return exists, err
}

// CardsInBoard retrieves the IDs of all cards on a board, ordered by ID
func (r *CardRepo) CardsInBoard(ctx context.Context, boardID types.BoardID) ([]types.CardID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM cards WHERE board_id = ? ORDER BY id`, boardID.ToInt())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []types.CardID
	for rows.Next() {
		var id types.CardID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// CompletedCards retrieves the set of completed cards on a board. The graph
// analyzer uses it to decide which blocking targets are still outstanding.
func (r *CardRepo) CompletedCards(ctx context.Context, boardID types.BoardID) (map[types.CardID]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM cards WHERE board_id = ? AND completed = 1`, boardID.ToInt())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := make(map[types.CardID]bool)
	for rows.Next() {
		var id types.CardID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		completed[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return completed, nil
}

// CurrentVersion retrieves the authoritative version of a card
func (r *CardRepo) CurrentVersion(ctx context.Context, id types.CardID) (types.Version, error) {
	var version types.Version
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM cards WHERE id = ?`, id.ToInt(),
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.NewCardNotFound(id)
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// Commit atomically advances a card to expectedVersion+1 if and only if the
// stored version still equals expectedVersion. The compare-and-set UPDATE and
// the revision insert run in one transaction over the single writer
// connection, so two commits against the same expected version can never both
// succeed. A mismatch is returned as a VersionConflict value, not an error.
func (r *CardRepo) Commit(ctx context.Context, id types.CardID, expectedVersion types.Version, actor types.ActorID, snapshot models.CardSnapshot) (types.Version, *models.VersionConflict, error) {
	var newVersion types.Version
	var conflict *models.VersionConflict

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE cards
			 SET title = ?, description = ?, completed = ?,
			     version = version + 1, last_modified_by = ?,
			     updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND version = ?`,
			snapshot.Title, snapshot.Description, snapshot.Completed,
			string(actor), id.ToInt(), expectedVersion.ToInt(),
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if affected == 0 {
			var current types.Version
			err := tx.QueryRowContext(ctx,
				`SELECT version FROM cards WHERE id = ?`, id.ToInt(),
			).Scan(&current)
			if errors.Is(err, sql.ErrNoRows) {
				return models.NewCardNotFound(id)
			}
			if err != nil {
				return err
			}
			conflict = &models.VersionConflict{Current: current, Attempted: expectedVersion}
			return nil
		}

		newVersion = expectedVersion + 1
		_, err = tx.ExecContext(ctx,
			`INSERT INTO card_revisions (card_id, version, actor, title, description, completed)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id.ToInt(), newVersion.ToInt(), string(actor),
			snapshot.Title, snapshot.Description, snapshot.Completed,
		)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	return newVersion, conflict, nil
}

// GetRevision retrieves the stored snapshot of a card at a specific version
func (r *CardRepo) GetRevision(ctx context.Context, id types.CardID, version types.Version) (*models.CardRevision, error) {
	rev := &models.CardRevision{}
	err := r.db.QueryRowContext(ctx,
		`SELECT card_id, version, actor, title, description, completed, created_at
		 FROM card_revisions WHERE card_id = ? AND version = ?`,
		id.ToInt(), version.ToInt(),
	).Scan(
		&rev.CardID, &rev.Version, &rev.Actor,
		&rev.Snapshot.Title, &rev.Snapshot.Description, &rev.Snapshot.Completed,
		&rev.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewCardNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// Delete removes a card; relationships and revisions cascade
func (r *CardRepo) Delete(ctx context.Context, id types.CardID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id.ToInt())
	return err
}

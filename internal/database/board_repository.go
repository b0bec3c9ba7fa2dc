package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// ============================================================================
// Board Operations
// ============================================================================

// BoardRepo provides board data access
type BoardRepo struct {
	db *sql.DB
}

// Create creates a new board
func (r *BoardRepo) Create(ctx context.Context, name string) (*models.Board, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (name) VALUES (?)`, name)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, types.BoardID(id))
}

// GetByID retrieves a board by ID
func (r *BoardRepo) GetByID(ctx context.Context, id types.BoardID) (*models.Board, error) {
	board := &models.Board{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM boards WHERE id = ?`,
		id.ToInt(),
	).Scan(&board.ID, &board.Name, &board.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewBoardNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return board, nil
}

// GetAll retrieves all boards ordered by creation time
func (r *BoardRepo) GetAll(ctx context.Context) ([]*models.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM boards ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		board := &models.Board{}
		if err := rows.Scan(&board.ID, &board.Name, &board.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return boards, nil
}

// Delete removes a board; cards and relationships cascade
func (r *BoardRepo) Delete(ctx context.Context, id types.BoardID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id.ToInt())
	return err
}

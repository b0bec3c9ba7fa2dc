package database

import (
	"context"
	"database/sql"
)

// runMigrations creates the database schema if it does not exist yet
func runMigrations(ctx context.Context, db *sql.DB) error {
	schema := `
	-- Boards table
	CREATE TABLE IF NOT EXISTS boards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Cards table; version and last_modified_by back the version ledger
	CREATE TABLE IF NOT EXISTS cards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		last_modified_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	);

	-- Typed directed relationships between cards
	CREATE TABLE IF NOT EXISTS card_relationships (
		board_id INTEGER NOT NULL,
		source_id INTEGER NOT NULL,
		target_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (source_id, target_id, kind),
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
		FOREIGN KEY (source_id) REFERENCES cards(id) ON DELETE CASCADE,
		FOREIGN KEY (target_id) REFERENCES cards(id) ON DELETE CASCADE
	);

	-- One row per accepted commit; the ledger's history
	CREATE TABLE IF NOT EXISTS card_revisions (
		card_id INTEGER NOT NULL,
		version INTEGER NOT NULL,
		actor TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (card_id, version),
		FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
	);

	-- Indexes for graph and ledger queries
	CREATE INDEX IF NOT EXISTS idx_cards_board ON cards(board_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_board ON card_relationships(board_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_source ON card_relationships(source_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_target ON card_relationships(target_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_board_kind ON card_relationships(board_id, kind);
	CREATE INDEX IF NOT EXISTS idx_revisions_card ON card_revisions(card_id);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}

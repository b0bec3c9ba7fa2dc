package database

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// setupTestDB creates an in-memory database and runs migrations.
// This is the unified test database setup used by all tests in this package.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

// setupTestRepo creates a composed repository over an in-memory database
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(setupTestDB(t))
}

// createTestBoard creates a test board and returns its ID
func createTestBoard(t *testing.T, repo *Repository, name string) types.BoardID {
	t.Helper()
	board, err := repo.CreateBoard(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create test board: %v", err)
	}
	return board.ID
}

// createTestCard creates a test card and returns its ID
func createTestCard(t *testing.T, repo *Repository, boardID types.BoardID, title string) types.CardID {
	t.Helper()
	card, err := repo.CreateCard(context.Background(), boardID, title, "", "tester")
	if err != nil {
		t.Fatalf("Failed to create test card %q: %v", title, err)
	}
	return card.ID
}

// createTestEdge creates a relationship edge between two cards
func createTestEdge(t *testing.T, repo *Repository, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind) {
	t.Helper()
	if _, err := repo.AddEdge(context.Background(), boardID, source, target, kind, ""); err != nil {
		t.Fatalf("Failed to create test edge %d -> %d: %v", source, target, err)
	}
}

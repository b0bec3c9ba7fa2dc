package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tablero-dev/tablero/internal/database"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// SetupTestDB creates an in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
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

// SetupTestRepo creates a repository over an in-memory database
func SetupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t))
}

// CreateTestBoard creates a test board and returns its ID
func CreateTestBoard(t *testing.T, repo *database.Repository, name string) types.BoardID {
	t.Helper()
	board, err := repo.CreateBoard(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create test board: %v", err)
	}
	return board.ID
}

// CreateTestCard creates a test card and returns its ID
func CreateTestCard(t *testing.T, repo *database.Repository, boardID types.BoardID, title string) types.CardID {
	t.Helper()
	card, err := repo.CreateCard(context.Background(), boardID, title, "", "tester")
	if err != nil {
		t.Fatalf("Failed to create test card %q: %v", title, err)
	}
	return card.ID
}

// CreateTestEdge creates a relationship edge between two cards
func CreateTestEdge(t *testing.T, repo *database.Repository, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind) {
	t.Helper()
	if _, err := repo.AddEdge(context.Background(), boardID, source, target, kind, ""); err != nil {
		t.Fatalf("Failed to create test edge %d -> %d: %v", source, target, err)
	}
}

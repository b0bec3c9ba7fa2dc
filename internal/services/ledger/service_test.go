package ledger

import (
	"context"
	"testing"

	"github.com/tablero-dev/tablero/internal/database"
	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/testutil"
	"github.com/tablero-dev/tablero/internal/types"
)

func setupService(t *testing.T) (Service, *database.Repository, types.CardID) {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	boardID := testutil.CreateTestBoard(t, repo, "Board")
	cardID := testutil.CreateTestCard(t, repo, boardID, "Card")
	return NewService(repo, nil), repo, cardID
}

func TestCommit(t *testing.T) {
	t.Parallel()

	svc, repo, cardID := setupService(t)

	result, err := svc.Commit(context.Background(), CommitRequest{
		CardID:          cardID,
		ExpectedVersion: 1,
		Actor:           "alice",
		Snapshot:        models.CardSnapshot{Title: "Updated"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Accepted() {
		t.Fatalf("Expected commit to be accepted, got conflict %+v", result.Conflict)
	}
	if result.NewVersion != 2 {
		t.Errorf("Expected new version 2, got %d", result.NewVersion)
	}

	card, err := repo.GetCardByID(context.Background(), cardID)
	if err != nil {
		t.Fatalf("Failed to reload card: %v", err)
	}
	if card.Title != "Updated" {
		t.Errorf("Expected title 'Updated', got %q", card.Title)
	}
}

func TestCommit_VersionsAreMonotonic(t *testing.T) {
	t.Parallel()

	svc, _, cardID := setupService(t)

	for want := types.Version(2); want <= 5; want++ {
		result, err := svc.Commit(context.Background(), CommitRequest{
			CardID:          cardID,
			ExpectedVersion: want - 1,
			Actor:           "alice",
			Snapshot:        models.CardSnapshot{Title: "Card"},
		})
		if err != nil {
			t.Fatalf("Commit to version %d failed: %v", want, err)
		}
		if !result.Accepted() {
			t.Fatalf("Commit to version %d unexpectedly conflicted", want)
		}
		if result.NewVersion != want {
			t.Errorf("Expected version %d, got %d", want, result.NewVersion)
		}
	}
}

func TestCommit_StaleVersionConflicts(t *testing.T) {
	t.Parallel()

	svc, _, cardID := setupService(t)

	first, err := svc.Commit(context.Background(), CommitRequest{
		CardID:          cardID,
		ExpectedVersion: 1,
		Actor:           "alice",
		Snapshot:        models.CardSnapshot{Title: "Alice"},
	})
	if err != nil {
		t.Fatalf("First commit failed: %v", err)
	}
	if !first.Accepted() {
		t.Fatal("First commit unexpectedly conflicted")
	}

	// Bob still holds version 1; at most one writer per expected version wins
	second, err := svc.Commit(context.Background(), CommitRequest{
		CardID:          cardID,
		ExpectedVersion: 1,
		Actor:           "bob",
		Snapshot:        models.CardSnapshot{Title: "Bob"},
	})
	if err != nil {
		t.Fatalf("Expected conflict result, got error: %v", err)
	}
	if second.Accepted() {
		t.Fatal("Expected second commit against version 1 to conflict")
	}
	if second.Conflict.Current != 2 {
		t.Errorf("Expected current version 2 in conflict, got %d", second.Conflict.Current)
	}
	if second.Conflict.Attempted != 1 {
		t.Errorf("Expected attempted version 1 in conflict, got %d", second.Conflict.Attempted)
	}
}

func TestCommit_Validation(t *testing.T) {
	t.Parallel()

	svc, _, cardID := setupService(t)

	tests := []struct {
		name    string
		req     CommitRequest
		wantErr error
	}{
		{
			name:    "invalid card",
			req:     CommitRequest{CardID: 0, ExpectedVersion: 1, Actor: "alice", Snapshot: models.CardSnapshot{Title: "x"}},
			wantErr: ErrInvalidCardID,
		},
		{
			name:    "invalid version",
			req:     CommitRequest{CardID: cardID, ExpectedVersion: 0, Actor: "alice", Snapshot: models.CardSnapshot{Title: "x"}},
			wantErr: ErrInvalidVersion,
		},
		{
			name:    "missing actor",
			req:     CommitRequest{CardID: cardID, ExpectedVersion: 1, Snapshot: models.CardSnapshot{Title: "x"}},
			wantErr: ErrMissingActor,
		},
		{
			name:    "empty title",
			req:     CommitRequest{CardID: cardID, ExpectedVersion: 1, Actor: "alice"},
			wantErr: ErrEmptyTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Commit(context.Background(), tt.req)
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCurrentVersion(t *testing.T) {
	t.Parallel()

	svc, _, cardID := setupService(t)

	version, err := svc.CurrentVersion(context.Background(), cardID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if version != 1 {
		t.Errorf("Expected version 1, got %d", version)
	}

	if _, err := svc.Commit(context.Background(), CommitRequest{
		CardID:          cardID,
		ExpectedVersion: 1,
		Actor:           "alice",
		Snapshot:        models.CardSnapshot{Title: "Card"},
	}); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	version, err = svc.CurrentVersion(context.Background(), cardID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if version != 2 {
		t.Errorf("Expected version 2, got %d", version)
	}
}

func TestRevisionAt(t *testing.T) {
	t.Parallel()

	svc, _, cardID := setupService(t)

	if _, err := svc.Commit(context.Background(), CommitRequest{
		CardID:          cardID,
		ExpectedVersion: 1,
		Actor:           "alice",
		Snapshot:        models.CardSnapshot{Title: "Second draft"},
	}); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Both the creation snapshot and the commit are retrievable
	rev, err := svc.RevisionAt(context.Background(), cardID, 1)
	if err != nil {
		t.Fatalf("Expected revision 1, got %v", err)
	}
	if rev.Snapshot.Title != "Card" {
		t.Errorf("Expected revision 1 title 'Card', got %q", rev.Snapshot.Title)
	}

	rev, err = svc.RevisionAt(context.Background(), cardID, 2)
	if err != nil {
		t.Fatalf("Expected revision 2, got %v", err)
	}
	if rev.Snapshot.Title != "Second draft" {
		t.Errorf("Expected revision 2 title 'Second draft', got %q", rev.Snapshot.Title)
	}
	if rev.Actor != "alice" {
		t.Errorf("Expected revision actor 'alice', got %q", rev.Actor)
	}
}

// Package database defines repository interfaces for data access
package database

import (
	"context"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// DataStore defines the unified interface for all data operations needed by
// the services. Consumers can depend on the smaller interfaces below for
// better testability and clearer dependencies.
type DataStore interface {
	BoardStore
	CardStore
	EdgeStore
}

// BoardStore is the board CRUD boundary
type BoardStore interface {
	CreateBoard(ctx context.Context, name string) (*models.Board, error)
	GetBoardByID(ctx context.Context, id types.BoardID) (*models.Board, error)
	GetAllBoards(ctx context.Context) ([]*models.Board, error)
	DeleteBoard(ctx context.Context, id types.BoardID) error
}

// CardStore covers card lookup and the version ledger
type CardStore interface {
	CreateCard(ctx context.Context, boardID types.BoardID, title, description string, actor types.ActorID) (*models.Card, error)
	GetCardByID(ctx context.Context, id types.CardID) (*models.Card, error)
	CardExists(ctx context.Context, id types.CardID) (bool, error)
	CardsInBoard(ctx context.Context, boardID types.BoardID) ([]types.CardID, error)
	CompletedCards(ctx context.Context, boardID types.BoardID) (map[types.CardID]bool, error)
	CurrentVersion(ctx context.Context, id types.CardID) (types.Version, error)
	CommitCard(ctx context.Context, id types.CardID, expectedVersion types.Version, actor types.ActorID, snapshot models.CardSnapshot) (types.Version, *models.VersionConflict, error)
	GetCardRevision(ctx context.Context, id types.CardID, version types.Version) (*models.CardRevision, error)
	DeleteCard(ctx context.Context, id types.CardID) error
}

// EdgeStore is the relationship store boundary
type EdgeStore interface {
	AddEdge(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind, description string) (*models.RelationshipEdge, error)
	RemoveEdge(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind) error
	EdgesForCard(ctx context.Context, card types.CardID) ([]*models.RelationshipEdge, error)
	EdgesByBoard(ctx context.Context, boardID types.BoardID) ([]*models.RelationshipEdge, error)
	EdgesByKind(ctx context.Context, boardID types.BoardID, kind models.RelationshipKind) ([]*models.RelationshipEdge, error)
	GraphRevision(boardID types.BoardID) int64
}

// Compile-time verification that *Repository satisfies DataStore
var _ DataStore = (*Repository)(nil)

package database

import (
	"context"
	"database/sql"

	"github.com/tablero-dev/tablero/internal/models"
	"github.com/tablero-dev/tablero/internal/types"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*BoardRepo
	*CardRepo
	*EdgeRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		BoardRepo: &BoardRepo{db: db},
		CardRepo:  &CardRepo{db: db},
		EdgeRepo:  &EdgeRepo{db: db},
	}
}

// Wrapper methods for BoardRepo to give the composed type a flat API

func (r *Repository) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	return r.BoardRepo.Create(ctx, name)
}

func (r *Repository) GetBoardByID(ctx context.Context, id types.BoardID) (*models.Board, error) {
	return r.BoardRepo.GetByID(ctx, id)
}

func (r *Repository) GetAllBoards(ctx context.Context) ([]*models.Board, error) {
	return r.BoardRepo.GetAll(ctx)
}

func (r *Repository) DeleteBoard(ctx context.Context, id types.BoardID) error {
	return r.BoardRepo.Delete(ctx, id)
}

// Wrapper methods for CardRepo

func (r *Repository) CreateCard(ctx context.Context, boardID types.BoardID, title, description string, actor types.ActorID) (*models.Card, error) {
	return r.CardRepo.Create(ctx, boardID, title, description, actor)
}

func (r *Repository) GetCardByID(ctx context.Context, id types.CardID) (*models.Card, error) {
	return r.CardRepo.GetByID(ctx, id)
}

func (r *Repository) CardExists(ctx context.Context, id types.CardID) (bool, error) {
	return r.CardRepo.Exists(ctx, id)
}

func (r *Repository) CardsInBoard(ctx context.Context, boardID types.BoardID) ([]types.CardID, error) {
	return r.CardRepo.CardsInBoard(ctx, boardID)
}

func (r *Repository) CompletedCards(ctx context.Context, boardID types.BoardID) (map[types.CardID]bool, error) {
	return r.CardRepo.CompletedCards(ctx, boardID)
}

func (r *Repository) CurrentVersion(ctx context.Context, id types.CardID) (types.Version, error) {
	return r.CardRepo.CurrentVersion(ctx, id)
}

func (r *Repository) CommitCard(ctx context.Context, id types.CardID, expectedVersion types.Version, actor types.ActorID, snapshot models.CardSnapshot) (types.Version, *models.VersionConflict, error) {
	return r.CardRepo.Commit(ctx, id, expectedVersion, actor, snapshot)
}

func (r *Repository) GetCardRevision(ctx context.Context, id types.CardID, version types.Version) (*models.CardRevision, error) {
	return r.CardRepo.GetRevision(ctx, id, version)
}

func (r *Repository) DeleteCard(ctx context.Context, id types.CardID) error {
	return r.CardRepo.Delete(ctx, id)
}

// Wrapper methods for EdgeRepo

func (r *Repository) AddEdge(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind, description string) (*models.RelationshipEdge, error) {
	return r.EdgeRepo.Add(ctx, boardID, source, target, kind, description)
}

func (r *Repository) RemoveEdge(ctx context.Context, boardID types.BoardID, source, target types.CardID, kind models.RelationshipKind) error {
	return r.EdgeRepo.Remove(ctx, boardID, source, target, kind)
}

func (r *Repository) EdgesForCard(ctx context.Context, card types.CardID) ([]*models.RelationshipEdge, error) {
	return r.EdgeRepo.EdgesFor(ctx, card)
}

func (r *Repository) EdgesByBoard(ctx context.Context, boardID types.BoardID) ([]*models.RelationshipEdge, error) {
	return r.EdgeRepo.EdgesByBoard(ctx, boardID)
}

func (r *Repository) EdgesByKind(ctx context.Context, boardID types.BoardID, kind models.RelationshipKind) ([]*models.RelationshipEdge, error) {
	return r.EdgeRepo.EdgesByKind(ctx, boardID, kind)
}

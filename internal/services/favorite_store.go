package services

import (
	"context"
	"errors"
	"fmt"

	"marcenapp/internal/database"
	"marcenapp/internal/models"
)

// ErrInvalidFavorite is returned when a favorite payload has no finish id.
var ErrInvalidFavorite = errors.New("invalid favorite payload")

// FavoriteStore persists bookmarked finishes. The finish id is the natural
// key, so favoriting is idempotent and un-favoriting a finish that was never
// bookmarked is a no-op.
type FavoriteStore struct {
	db *database.DB
}

// NewFavoriteStore creates a new favorite-finish store.
func NewFavoriteStore(db *database.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// List returns all favorite finishes ordered by name.
func (s *FavoriteStore) List(ctx context.Context) ([]models.FavoriteFinish, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, type, image, manufacturer
		FROM favorite_finishes ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []models.FavoriteFinish{}
	for rows.Next() {
		var f models.FavoriteFinish
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Type, &f.Image, &f.Manufacturer); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// Add stores the finish snapshot and returns the refreshed list. Adding an
// already-favorited finish replaces its snapshot rather than duplicating it.
func (s *FavoriteStore) Add(ctx context.Context, finish models.FavoriteFinish) ([]models.FavoriteFinish, error) {
	if finish.ID == "" {
		return nil, fmt.Errorf("%w: missing finish id", ErrInvalidFavorite)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorite_finishes (id, name, description, type, image, manufacturer)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, description = excluded.description,
			type = excluded.type, image = excluded.image, manufacturer = excluded.manufacturer`,
		finish.ID, finish.Name, finish.Description, finish.Type, finish.Image, finish.Manufacturer)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	return s.List(ctx)
}

// Remove deletes the favorite if present and returns the refreshed list.
func (s *FavoriteStore) Remove(ctx context.Context, id string) ([]models.FavoriteFinish, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM favorite_finishes WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return s.List(ctx)
}

package services

import (
	"context"
	"testing"

	"marcenapp/internal/models"
)

func TestFavoriteStore_AddListRemove(t *testing.T) {
	db := setupTestDB(t)
	store := NewFavoriteStore(db)
	ctx := context.Background()

	favorites, err := store.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list favorites: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("Expected empty favorites on fresh store, got %d", len(favorites))
	}

	finish := models.FavoriteFinish{Finish: models.Finish{
		ID:           "dtx-carvalho-hanover",
		Name:         "Carvalho Hanover",
		Type:         "MDF",
		Manufacturer: "Duratex",
	}}

	favorites, err = store.Add(ctx, finish)
	if err != nil {
		t.Fatalf("Failed to add favorite: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("Expected 1 favorite, got %d", len(favorites))
	}

	// The finish id is the natural key: a second add must not duplicate.
	finish.Description = "Padrão amadeirado claro"
	favorites, err = store.Add(ctx, finish)
	if err != nil {
		t.Fatalf("Failed to re-add favorite: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("Expected 1 favorite after re-add, got %d", len(favorites))
	}
	if favorites[0].Description != "Padrão amadeirado claro" {
		t.Errorf("Expected snapshot refreshed on re-add, got %q", favorites[0].Description)
	}

	favorites, err = store.Remove(ctx, finish.ID)
	if err != nil {
		t.Fatalf("Failed to remove favorite: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("Expected empty favorites after remove, got %d", len(favorites))
	}

	// Removing an absent favorite is a no-op.
	if _, err := store.Remove(ctx, finish.ID); err != nil {
		t.Errorf("Second remove failed: %v", err)
	}
}

func TestFavoriteStore_AddRequiresID(t *testing.T) {
	db := setupTestDB(t)
	store := NewFavoriteStore(db)

	if _, err := store.Add(context.Background(), models.FavoriteFinish{}); err == nil {
		t.Error("Expected error when adding a favorite without id")
	}
}

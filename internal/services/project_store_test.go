package services

import (
	"context"
	"testing"
	"time"

	"marcenapp/internal/models"
)

func TestProjectStore_CreateThenList(t *testing.T) {
	db := setupTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	before := time.Now().UTC()

	projects, err := store.Create(ctx, models.Project{
		Name:        "Cozinha Moderna",
		Description: "Cozinha planejada em L com ilha central",
		Style:       "Moderno",
		Views3D:     []string{"data:image/png;base64,aaa"},
	})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	if len(projects) != 1 {
		t.Fatalf("Expected 1 project after create, got %d", len(projects))
	}

	created := projects[0]
	if created.ID == "" {
		t.Error("Expected a non-empty assigned id")
	}
	if created.CreatedAt.Before(before) {
		t.Errorf("Expected timestamp >= %v, got %v", before, created.CreatedAt)
	}
	if created.Name != "Cozinha Moderna" || created.Style != "Moderno" {
		t.Errorf("Created project does not match payload: %+v", created)
	}
}

func TestProjectStore_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	for _, name := range []string{"Primeiro", "Segundo", "Terceiro"} {
		if _, err := store.Create(ctx, models.Project{Name: name}); err != nil {
			t.Fatalf("Failed to create project %s: %v", name, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	projects, err := store.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("Expected 3 projects, got %d", len(projects))
	}
	if projects[0].Name != "Terceiro" || projects[2].Name != "Primeiro" {
		t.Errorf("Expected newest-first order, got %s, %s, %s",
			projects[0].Name, projects[1].Name, projects[2].Name)
	}
}

func TestProjectStore_PartialUpdatePreservesUntouchedFields(t *testing.T) {
	db := setupTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	projects, err := store.Create(ctx, models.Project{
		Name:        "Guarda-Roupa",
		Description: "Guarda-roupa de casal com portas de correr",
		Style:       "Industrial",
	})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	id := projects[0].ID

	updated, err := store.PartialUpdate(ctx, id, map[string]any{
		"bomText": "2x chapa MDF 18mm",
	})
	if err != nil {
		t.Fatalf("Failed to patch project: %v", err)
	}
	if updated == nil {
		t.Fatal("Expected updated project, got nil")
	}

	if updated.BOMText != "2x chapa MDF 18mm" {
		t.Errorf("Expected patched bomText, got %q", updated.BOMText)
	}
	if updated.Name != "Guarda-Roupa" || updated.Description != "Guarda-roupa de casal com portas de correr" || updated.Style != "Industrial" {
		t.Errorf("Patch clobbered untouched fields: %+v", updated)
	}
	if updated.ID != id {
		t.Errorf("Patch changed the id: %s -> %s", id, updated.ID)
	}
}

func TestProjectStore_PartialUpdateCannotTouchIdentity(t *testing.T) {
	db := setupTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	projects, err := store.Create(ctx, models.Project{Name: "Painel TV"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	original := projects[0]

	updated, err := store.PartialUpdate(ctx, original.ID, map[string]any{
		"id":        "hijacked",
		"createdAt": "1999-01-01T00:00:00Z",
		"name":      "Painel TV 2.0",
	})
	if err != nil {
		t.Fatalf("Failed to patch project: %v", err)
	}

	if updated.ID != original.ID {
		t.Errorf("Expected id to stay %s, got %s", original.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("Expected createdAt to stay %v, got %v", original.CreatedAt, updated.CreatedAt)
	}
	if updated.Name != "Painel TV 2.0" {
		t.Errorf("Expected name to change, got %q", updated.Name)
	}
}

func TestProjectStore_PartialUpdateMissIsNotAnError(t *testing.T) {
	db := setupTestDB(t)
	store := NewProjectStore(db)

	updated, err := store.PartialUpdate(context.Background(), "nope", map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("Expected a miss, got error: %v", err)
	}
	if updated != nil {
		t.Errorf("Expected nil result for unknown id, got %+v", updated)
	}
}

func TestProjectStore_AppendSecondView(t *testing.T) {
	db := setupTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	projects, err := store.Create(ctx, models.Project{
		Name:    "Cozinha Moderna",
		Style:   "Moderno",
		Views3D: []string{"data:image/png;base64,first"},
	})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	original := projects[0]

	updated, err := store.AppendView(ctx, original.ID, "data:image/png;base64,second")
	if err != nil {
		t.Fatalf("Failed to append view: %v", err)
	}

	if len(updated.Views3D) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(updated.Views3D))
	}
	if updated.Views3D[0] != "data:image/png;base64,first" {
		t.Errorf("First view changed: %q", updated.Views3D[0])
	}
	if updated.Views3D[1] != "data:image/png;base64,second" {
		t.Errorf("Unexpected second view: %q", updated.Views3D[1])
	}
	if updated.ID != original.ID || !updated.CreatedAt.Equal(original.CreatedAt) {
		t.Error("Append changed project identity or timestamp")
	}
}

func TestProjectStore_DeleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	projects, err := store.Create(ctx, models.Project{Name: "Estante"})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	id := projects[0].ID

	remaining, err := store.Delete(ctx, id)
	if err != nil {
		t.Fatalf("First delete failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected empty list after delete, got %d records", len(remaining))
	}

	remaining, err = store.Delete(ctx, id)
	if err != nil {
		t.Fatalf("Second delete of same id failed: %v", err)
	}
	for _, p := range remaining {
		if p.ID == id {
			t.Errorf("Deleted id still present in list")
		}
	}
}

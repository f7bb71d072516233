package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"marcenapp/internal/database"
	"marcenapp/internal/models"

	"github.com/google/uuid"
)

// ProjectStore persists projects as whole-record JSON documents. Identity and
// creation timestamp are assigned here and never change afterwards.
type ProjectStore struct {
	db *database.DB
}

// NewProjectStore creates a new project store.
func NewProjectStore(db *database.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// List returns all projects, newest first. An empty store yields an empty
// slice, never an error.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM projects ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		var project models.Project
		if err := json.Unmarshal([]byte(raw), &project); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get returns a project by id, or nil when no such record exists.
func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM projects WHERE id = ?", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var project models.Project
	if err := json.Unmarshal([]byte(raw), &project); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return &project, nil
}

// Create assigns a fresh id and timestamp to project, persists it, and
// returns the refreshed full list.
func (s *ProjectStore) Create(ctx context.Context, project models.Project) ([]models.Project, error) {
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now().UTC()
	if project.Views3D == nil {
		project.Views3D = []string{}
	}

	raw, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO projects (id, created_at, data) VALUES (?, ?, ?)",
		project.ID, project.CreatedAt, string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.List(ctx)
}

// PartialUpdate shallow-merges the supplied fields over the stored document
// and returns the updated record. A missing id is a miss (nil, nil), not an
// error. Identity and creation timestamp cannot be patched. The whole
// read-merge-write runs inside one transaction so concurrent updates on the
// same record serialize instead of losing writes.
func (s *ProjectStore) PartialUpdate(ctx context.Context, id string, patch map[string]any) (*models.Project, error) {
	merged, err := s.mutateDocument(ctx, id, func(doc map[string]any) error {
		delete(patch, "id")
		delete(patch, "createdAt")
		for key, value := range patch {
			doc[key] = value
		}
		return nil
	})
	if err != nil || merged == nil {
		return nil, err
	}
	return merged, nil
}

// AppendView appends a render to the project's 3D view list. Existing entries
// are never touched. Returns nil on a missing project.
func (s *ProjectStore) AppendView(ctx context.Context, id, view string) (*models.Project, error) {
	return s.mutateDocument(ctx, id, func(doc map[string]any) error {
		views, _ := doc["views3d"].([]any)
		doc["views3d"] = append(views, view)
		return nil
	})
}

// Delete removes the project if present and returns the refreshed list.
// Deleting an id that does not exist is not an error.
func (s *ProjectStore) Delete(ctx context.Context, id string) ([]models.Project, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	return s.List(ctx)
}

// mutateDocument loads the stored JSON document, applies mutate, and writes
// the result back, all in one transaction. Returns nil on a missing id.
func (s *ProjectStore) mutateDocument(ctx context.Context, id string, mutate func(doc map[string]any) error) (*models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, "SELECT data FROM projects WHERE id = ?", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	doc := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}

	if err := mutate(doc); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE projects SET data = ? WHERE id = ?", string(updated), id); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	var project models.Project
	if err := json.Unmarshal(updated, &project); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return &project, nil
}

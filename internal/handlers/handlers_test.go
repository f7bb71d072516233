package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/database"
	"marcenapp/internal/gemini"
	"marcenapp/internal/models"
	"marcenapp/internal/services"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test_handlers.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// stubGateway answers every flow with canned values.
type stubGateway struct {
	text     string
	imageErr error
}

func (s *stubGateway) GenerateImage(ctx context.Context, prompt string, refs []gemini.Image) (*gemini.Image, error) {
	if s.imageErr != nil {
		return nil, s.imageErr
	}
	return &gemini.Image{MIMEType: "image/png", Data: []byte{0x89, 0x50}}, nil
}

func (s *stubGateway) GenerateText(ctx context.Context, prompt string, refs []gemini.Image) (string, error) {
	return s.text, nil
}

func (s *stubGateway) GenerateGroundedText(ctx context.Context, query string, location *models.Coordinates) (string, []models.Citation, error) {
	return s.text, []models.Citation{{Title: "Loja", URI: "https://example.com"}}, nil
}

func decodeBody(t *testing.T, body io.Reader, out any) {
	t.Helper()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("Failed to decode response %s: %v", data, err)
	}
}

func marshalBody(t *testing.T, payload any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return bytes.NewReader(data)
}

func TestHealthHandler(t *testing.T) {
	db := setupTestDB(t)
	app := fiber.New()
	app.Get("/health", NewHealthHandler(db).Handle)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	decodeBody(t, resp.Body, &body)
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
}

func TestProjectHandler_ListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewProjectStore(db)
	handler := NewProjectHandler(store)

	app := fiber.New()
	app.Get("/api/projects", handler.List)
	app.Delete("/api/projects/:id", handler.Delete)

	projects, err := store.Create(context.Background(), models.Project{Name: "Estante"})
	if err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/projects", nil))
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	defer resp.Body.Close()

	var listed []models.Project
	decodeBody(t, resp.Body, &listed)
	if len(listed) != 1 || listed[0].Name != "Estante" {
		t.Fatalf("Unexpected project list: %+v", listed)
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/projects/"+projects[0].ID, nil))
	if err != nil {
		t.Fatalf("Failed to delete project: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 on delete, got %d", resp.StatusCode)
	}

	var remaining []models.Project
	decodeBody(t, resp.Body, &remaining)
	if len(remaining) != 0 {
		t.Errorf("Expected empty list after delete, got %d", len(remaining))
	}
}

func TestProjectHandler_GetMissing(t *testing.T) {
	handler := NewProjectHandler(services.NewProjectStore(setupTestDB(t)))
	app := fiber.New()
	app.Get("/api/projects/:id", handler.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/projects/nope", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}

	var body map[string]string
	decodeBody(t, resp.Body, &body)
	if body["error"] != "Projeto não encontrado" {
		t.Errorf("Unexpected error message: %q", body["error"])
	}
}

func TestProjectHandler_PatchIgnoresIdentity(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewProjectStore(db)
	handler := NewProjectHandler(store)
	app := fiber.New()
	app.Patch("/api/projects/:id", handler.Update)

	projects, err := store.Create(context.Background(), models.Project{Name: "Painel", Description: "Painel ripado"})
	if err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}
	id := projects[0].ID

	req := httptest.NewRequest("PATCH", "/api/projects/"+id,
		marshalBody(t, map[string]any{"id": "hijack", "name": "Painel Ripado 2.0"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to patch project: %v", err)
	}
	defer resp.Body.Close()

	var updated models.Project
	decodeBody(t, resp.Body, &updated)
	if updated.ID != id {
		t.Errorf("Patch changed the id: %q", updated.ID)
	}
	if updated.Name != "Painel Ripado 2.0" {
		t.Errorf("Patch did not apply: %q", updated.Name)
	}
	if updated.Description != "Painel ripado" {
		t.Errorf("Patch clobbered untouched field: %q", updated.Description)
	}
}

func TestClientHandler_SeedAndApprove(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewClientStore(db)
	handler := NewClientHandler(store)
	app := fiber.New()
	app.Get("/api/clients", handler.List)
	app.Post("/api/clients/:id/approve", handler.Approve)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/clients", nil))
	if err != nil {
		t.Fatalf("Failed to list clients: %v", err)
	}
	defer resp.Body.Close()

	var clients []models.Client
	decodeBody(t, resp.Body, &clients)
	if len(clients) == 0 {
		t.Fatal("Expected demo clients on first list")
	}

	var waitlisted string
	for _, c := range clients {
		if c.Status == models.ClientStatusWaitlist {
			waitlisted = c.ID
		}
	}
	if waitlisted == "" {
		t.Fatal("Expected a waitlisted demo client")
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/api/clients/"+waitlisted+"/approve", nil))
	if err != nil {
		t.Fatalf("Failed to approve client: %v", err)
	}
	defer resp.Body.Close()

	decodeBody(t, resp.Body, &clients)
	for _, c := range clients {
		if c.ID == waitlisted && c.Status != models.ClientStatusLead {
			t.Errorf("Expected lead after approve, got %q", c.Status)
		}
	}
}

func TestClientHandler_UpsertValidation(t *testing.T) {
	handler := NewClientHandler(services.NewClientStore(setupTestDB(t)))
	app := fiber.New()
	app.Put("/api/clients", handler.Upsert)

	req := httptest.NewRequest("PUT", "/api/clients",
		marshalBody(t, map[string]any{"email": "sem-nome@example.com"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for nameless client, got %d", resp.StatusCode)
	}
}

func TestGenerateHandler_RenderCreatesProject(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewProjectStore(db)
	design := services.NewDesignService(&stubGateway{}, store, nil)
	handler := NewGenerateHandler(design)
	app := fiber.New()
	app.Post("/api/generate/render", handler.Render)

	req := httptest.NewRequest("POST", "/api/generate/render",
		marshalBody(t, map[string]any{"name": "Cozinha", "description": "Cozinha em L"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var projects []models.Project
	decodeBody(t, resp.Body, &projects)
	if len(projects) != 1 || len(projects[0].Views3D) != 1 {
		t.Errorf("Expected one project with one view, got %+v", projects)
	}
}

func TestGenerateHandler_BlockedRenderIsPortuguese422(t *testing.T) {
	db := setupTestDB(t)
	design := services.NewDesignService(&stubGateway{imageErr: gemini.ErrGenerationBlocked},
		services.NewProjectStore(db), nil)
	handler := NewGenerateHandler(design)
	app := fiber.New()
	app.Post("/api/generate/render", handler.Render)

	req := httptest.NewRequest("POST", "/api/generate/render",
		marshalBody(t, map[string]any{"name": "X", "description": "Y"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for blocked render, got %d", resp.StatusCode)
	}

	var body map[string]string
	decodeBody(t, resp.Body, &body)
	if body["error"] == "" {
		t.Error("Expected a Portuguese error message")
	}
}

func TestGenerateHandler_InvalidReplyIsFatal(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewProjectStore(db)
	design := services.NewDesignService(&stubGateway{text: "resposta sem json"}, store, nil)
	handler := NewGenerateHandler(design)
	app := fiber.New()
	app.Post("/api/generate/costs", handler.Costs)

	projects, err := store.Create(context.Background(), models.Project{Name: "Mesa"})
	if err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/generate/costs",
		marshalBody(t, map[string]any{"projectId": projects[0].ID}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("Expected 502 for malformed AI reply, got %d", resp.StatusCode)
	}

	var body map[string]string
	decodeBody(t, resp.Body, &body)
	if body["error"] != "Formato de resposta da IA inválido" {
		t.Errorf("Unexpected error message: %q", body["error"])
	}
}

func TestSupplierHandler_Search(t *testing.T) {
	supplier := services.NewSupplierService(&stubGateway{text: "MDF 18mm: R$ 245"}, nil, nil)
	handler := NewSupplierHandler(supplier)
	app := fiber.New()
	app.Post("/api/suppliers/search", handler.Search)

	req := httptest.NewRequest("POST", "/api/suppliers/search",
		marshalBody(t, map[string]any{"query": "chapa MDF 18mm preço"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result models.SupplierSearchResult
	decodeBody(t, resp.Body, &result)
	if result.Answer == "" || len(result.Citations) != 1 {
		t.Errorf("Unexpected search result: %+v", result)
	}
}

func TestExportHandler_WorkbookMissingProject(t *testing.T) {
	db := setupTestDB(t)
	handler := NewExportHandler(services.NewProjectStore(db), services.NewProposalService())
	app := fiber.New()
	app.Get("/api/projects/:id/export.xlsx", handler.Workbook)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/projects/nope/export.xlsx", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestExportHandler_Workbook(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewProjectStore(db)
	handler := NewExportHandler(store, services.NewProposalService())
	app := fiber.New()
	app.Get("/api/projects/:id/export.xlsx", handler.Workbook)

	projects, err := store.Create(context.Background(), models.Project{Name: "Home Office"})
	if err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/projects/"+projects[0].ID+"/export.xlsx", nil), 5000)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Unexpected content type: %q", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read workbook: %v", err)
	}
	// xlsx files are zip archives.
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Error("Expected a zip-format workbook body")
	}
}

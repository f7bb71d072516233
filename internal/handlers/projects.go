package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/services"
)

// ProjectHandler handles project CRUD requests. Creation lives in
// GenerateHandler because it runs the initial render.
type ProjectHandler struct {
	projects *services.ProjectStore
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *services.ProjectStore) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// List returns all projects, newest first
// GET /api/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.Context())
	if err != nil {
		log.Printf("❌ Failed to list projects: %v", err)
		return storageError(c)
	}
	return c.JSON(projects)
}

// Get returns a single project
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	project, err := h.projects.Get(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to get project: %v", err)
		return storageError(c)
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Projeto não encontrado",
		})
	}
	return c.JSON(project)
}

// Update applies a sparse patch to a project. Identity fields in the body
// are ignored.
// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	project, err := h.projects.PartialUpdate(c.Context(), c.Params("id"), patch)
	if err != nil {
		log.Printf("❌ Failed to update project: %v", err)
		return storageError(c)
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Projeto não encontrado",
		})
	}
	return c.JSON(project)
}

// Delete removes a project and returns the refreshed list. Deleting an
// unknown id is a success.
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	projects, err := h.projects.Delete(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to delete project: %v", err)
		return storageError(c)
	}
	return c.JSON(projects)
}

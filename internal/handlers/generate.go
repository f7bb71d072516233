package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/models"
	"marcenapp/internal/services"
)

// GenerateHandler exposes the AI-backed design flows
type GenerateHandler struct {
	design *services.DesignService
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(design *services.DesignService) *GenerateHandler {
	return &GenerateHandler{design: design}
}

// Render creates a project from the design form: the initial 3D view is
// generated first, and only a successful render persists the project
// POST /api/generate/render
func (h *GenerateHandler) Render(c *fiber.Ctx) error {
	var req models.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Name == "" || req.Description == "" {
		return badRequest(c, "Nome e descrição do projeto são obrigatórios")
	}

	projects, err := h.design.CreateProject(c.Context(), req)
	if err != nil {
		return aiError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(projects)
}

// AddView appends another 3D view to an existing project
// POST /api/generate/views and POST /api/projects/:id/views
func (h *GenerateHandler) AddView(c *fiber.Ctx) error {
	var req models.RenderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.ProjectID == "" {
		req.ProjectID = c.Params("id")
	}
	if req.ProjectID == "" {
		return badRequest(c, "Identificador do projeto é obrigatório")
	}

	project, err := h.design.AddView(c.Context(), req)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(project)
}

// FloorPlan generates the technical 2D floor plan
// POST /api/generate/floorplan
func (h *GenerateHandler) FloorPlan(c *fiber.Ctx) error {
	var req models.FloorPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.ProjectID == "" {
		return badRequest(c, "Identificador do projeto é obrigatório")
	}

	project, err := h.design.GenerateFloorPlan(c.Context(), req)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(project)
}

type projectIDRequest struct {
	ProjectID string `json:"projectId"`
}

func (h *GenerateHandler) projectFlow(c *fiber.Ctx, run func(string) (*models.Project, error)) error {
	var req projectIDRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.ProjectID == "" {
		return badRequest(c, "Identificador do projeto é obrigatório")
	}

	project, err := run(req.ProjectID)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(project)
}

// BOM generates the bill of materials
// POST /api/generate/bom
func (h *GenerateHandler) BOM(c *fiber.Ctx) error {
	return h.projectFlow(c, func(id string) (*models.Project, error) {
		return h.design.GenerateBOM(c.Context(), id)
	})
}

// CuttingPlan generates the cutting plan, optimization tips, and diagram
// POST /api/generate/cutting-plan
func (h *GenerateHandler) CuttingPlan(c *fiber.Ctx) error {
	return h.projectFlow(c, func(id string) (*models.Project, error) {
		return h.design.GenerateCuttingPlan(c.Context(), id)
	})
}

// Assembly generates the assembly instructions
// POST /api/generate/assembly
func (h *GenerateHandler) Assembly(c *fiber.Ctx) error {
	return h.projectFlow(c, func(id string) (*models.Project, error) {
		return h.design.GenerateAssembly(c.Context(), id)
	})
}

// Costs estimates material, labor, and shipping costs
// POST /api/generate/costs
func (h *GenerateHandler) Costs(c *fiber.Ctx) error {
	return h.projectFlow(c, func(id string) (*models.Project, error) {
		return h.design.EstimateCosts(c.Context(), id)
	})
}

// Styles suggests furniture styles for a free-text description. Nothing is
// persisted.
// POST /api/generate/styles
func (h *GenerateHandler) Styles(c *fiber.Ctx) error {
	var req struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Description == "" {
		return badRequest(c, "Descrição do ambiente é obrigatória")
	}

	suggestions, err := h.design.SuggestStyles(c.Context(), req.Description)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(suggestions)
}

// Proposal writes the commercial proposal in Markdown and returns it without
// persisting
// POST /api/generate/proposal
func (h *GenerateHandler) Proposal(c *fiber.Ctx) error {
	var req projectIDRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.ProjectID == "" {
		return badRequest(c, "Identificador do projeto é obrigatório")
	}

	markdown, err := h.design.GenerateProposal(c.Context(), req.ProjectID)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(fiber.Map{
		"proposal": markdown,
	})
}

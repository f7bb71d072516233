package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/services"
)

// ExportHandler turns project artifacts into downloadable documents
type ExportHandler struct {
	projects  *services.ProjectStore
	proposals *services.ProposalService
}

// NewExportHandler creates a new export handler
func NewExportHandler(projects *services.ProjectStore, proposals *services.ProposalService) *ExportHandler {
	return &ExportHandler{projects: projects, proposals: proposals}
}

// Workbook streams the budget / materials / cutting plan workbook
// GET /api/projects/:id/export.xlsx
func (h *ExportHandler) Workbook(c *fiber.Ctx) error {
	project, err := h.projects.Get(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to load project for export: %v", err)
		return storageError(c)
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Projeto não encontrado",
		})
	}

	data, err := h.proposals.ExportWorkbook(project)
	if err != nil {
		log.Printf("❌ Failed to build workbook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao gerar a planilha",
		})
	}

	filename := exportFilename(project.Name)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
	return c.Send(data)
}

// ProposalHTML renders proposal markdown into a printable page
// POST /api/proposal/html
func (h *ExportHandler) ProposalHTML(c *fiber.Ctx) error {
	var req struct {
		ProjectID string `json:"projectId"`
		Markdown  string `json:"markdown"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Markdown == "" {
		return badRequest(c, "Texto da proposta é obrigatório")
	}

	project, err := h.projects.Get(c.Context(), req.ProjectID)
	if err != nil {
		log.Printf("❌ Failed to load project for proposal: %v", err)
		return storageError(c)
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Projeto não encontrado",
		})
	}

	html, err := h.proposals.RenderHTML(project, req.Markdown)
	if err != nil {
		log.Printf("❌ Failed to render proposal: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao gerar a proposta",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

// exportFilename keeps download names filesystem-safe.
func exportFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "projeto"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "projeto"
	}
	return strings.ToLower(b.String())
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/models"
	"marcenapp/internal/services"
)

// SupplierHandler exposes the grounded supplier price search
type SupplierHandler struct {
	suppliers *services.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(suppliers *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// Search answers a price/availability question with citations
// POST /api/suppliers/search
func (h *SupplierHandler) Search(c *fiber.Ctx) error {
	var req models.SupplierSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Query == "" {
		return badRequest(c, "Consulta de fornecedor é obrigatória")
	}

	result, err := h.suppliers.Search(c.Context(), req)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(result)
}

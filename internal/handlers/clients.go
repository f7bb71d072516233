package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/models"
	"marcenapp/internal/services"
)

// ClientHandler handles client collection requests
type ClientHandler struct {
	clients *services.ClientStore
}

// NewClientHandler creates a new client handler
func NewClientHandler(clients *services.ClientStore) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// List returns all clients. The first read of an empty collection seeds the
// demo set.
// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.clients.List(c.Context())
	if err != nil {
		log.Printf("❌ Failed to list clients: %v", err)
		return storageError(c)
	}
	return c.JSON(clients)
}

// Upsert creates a client (no id) or fully replaces one (existing id) and
// returns the refreshed list
// PUT /api/clients
func (h *ClientHandler) Upsert(c *fiber.Ctx) error {
	var req models.UpsertClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	clients, err := h.clients.Upsert(c.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidClient) {
			return badRequest(c, "Dados do cliente inválidos: "+err.Error())
		}
		log.Printf("❌ Failed to upsert client: %v", err)
		return storageError(c)
	}
	return c.JSON(clients)
}

// Approve moves a waitlisted client into the funnel as a lead
// POST /api/clients/:id/approve
func (h *ClientHandler) Approve(c *fiber.Ctx) error {
	clients, err := h.clients.Approve(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to approve client: %v", err)
		return storageError(c)
	}
	if clients == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cliente não encontrado",
		})
	}
	return c.JSON(clients)
}

// Delete removes a client and returns the refreshed list
// DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	clients, err := h.clients.Delete(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to delete client: %v", err)
		return storageError(c)
	}
	return c.JSON(clients)
}

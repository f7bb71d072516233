package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/models"
	"marcenapp/internal/services"
)

// FinishHandler serves the finish catalog and the favorites collection
type FinishHandler struct {
	catalog   *services.CatalogService
	favorites *services.FavoriteStore
}

// NewFinishHandler creates a new finish handler
func NewFinishHandler(catalog *services.CatalogService, favorites *services.FavoriteStore) *FinishHandler {
	return &FinishHandler{catalog: catalog, favorites: favorites}
}

// Catalog returns the finish catalog grouped by manufacturer
// GET /api/finishes
func (h *FinishHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"manufacturers": h.catalog.Manufacturers(),
	})
}

// ListFavorites returns the bookmarked finishes
// GET /api/finishes/favorites
func (h *FinishHandler) ListFavorites(c *fiber.Ctx) error {
	favorites, err := h.favorites.List(c.Context())
	if err != nil {
		log.Printf("❌ Failed to list favorite finishes: %v", err)
		return storageError(c)
	}
	return c.JSON(favorites)
}

// AddFavorite bookmarks a finish by catalog id. The payload may carry a full
// snapshot for finishes no longer in the catalog.
// POST /api/finishes/favorites
func (h *FinishHandler) AddFavorite(c *fiber.Ctx) error {
	var favorite models.FavoriteFinish
	if err := c.BodyParser(&favorite); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}

	// Prefer the live catalog entry so the stored snapshot is current.
	if favorite.ID != "" {
		if finish, ok := h.catalog.FindFinish(favorite.ID); ok {
			favorite.Finish = finish
		}
	}

	favorites, err := h.favorites.Add(c.Context(), favorite)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFavorite) {
			return badRequest(c, "Acabamento sem identificador")
		}
		log.Printf("❌ Failed to add favorite finish: %v", err)
		return storageError(c)
	}
	return c.JSON(favorites)
}

// RemoveFavorite drops a bookmark. Removing an absent finish is a success.
// DELETE /api/finishes/favorites/:id
func (h *FinishHandler) RemoveFavorite(c *fiber.Ctx) error {
	favorites, err := h.favorites.Remove(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("❌ Failed to remove favorite finish: %v", err)
		return storageError(c)
	}
	return c.JSON(favorites)
}

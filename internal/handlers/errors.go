package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"marcenapp/internal/gemini"
	"marcenapp/internal/services"
)

// aiError maps the AI failure taxonomy to the Portuguese messages the UI
// shows. Unknown errors stay a generic 502: the upstream detail goes to the
// log, not the client.
func aiError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Projeto não encontrado",
		})
	case errors.Is(err, gemini.ErrGenerationBlocked):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "A geração foi bloqueada pelo filtro de segurança. Reformule a descrição.",
		})
	case errors.Is(err, gemini.ErrNoImageProduced):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "A IA não retornou uma imagem. Tente novamente.",
		})
	case errors.Is(err, gemini.ErrInvalidResponse):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Formato de resposta da IA inválido",
		})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error": "A IA demorou demais para responder. Tente novamente.",
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Falha ao comunicar com a IA. Tente novamente em instantes.",
		})
	}
}

func storageError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Falha ao acessar o banco de dados local",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

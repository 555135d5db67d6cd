package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// principalID reads the provider id the JWT middleware stored in Locals.
func principalID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
	}
	return id, nil
}

func badBody() error {
	return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
}

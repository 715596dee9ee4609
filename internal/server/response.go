package server

import (
	"github.com/gofiber/fiber/v3"
)

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func jsonMessage(c fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"message": message,
	})
}

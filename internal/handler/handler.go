package handler

import (
	"log"

	"go-retailnet/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError translates service errors to HTTP once, at the boundary.
// Unknown errors become a generic 500; details stay in the server log.
func respondError(c *fiber.Ctx, err error) error {
	if e, ok := apperr.As(err); ok {
		return c.Status(e.Status).JSON(fiber.Map{"error": e.Message})
	}
	log.Printf("%s %s: unexpected error: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

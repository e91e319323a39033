package middleware

import (
	"strings"

	"go-retailnet/internal/access"
	"go-retailnet/internal/repository"
	"go-retailnet/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// RequireAuth validates the JWT and stores the request-scoped identity.
// Handlers retrieve it with Identity(c) and pass it down explicitly;
// nothing downstream reads session state ambiently.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Strict session check against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals(identityKey, access.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Role:   user.Role,
		})

		return c.Next()
	}
}

// Identity returns the authenticated identity set by RequireAuth.
func Identity(c *fiber.Ctx) access.Identity {
	if ident, ok := c.Locals(identityKey).(access.Identity); ok {
		return ident
	}
	return access.Identity{}
}

package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhammadUsmanGM/ChatUp/internal/services"
)

// AuthRequired is a Fiber middleware that validates the session token.
// The original deployment only checked for the literal "Bearer " prefix;
// this validates the signature and expiry and exposes the authenticated
// email to handlers via c.Locals("email").
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authentication required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authentication required",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("Session token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		if email, ok := claims["email"].(string); ok {
			c.Locals("email", email)
		}
		if name, ok := claims["name"].(string); ok {
			c.Locals("name", name)
		}

		return c.Next()
	}
}

// TokenEmail returns the authenticated email stored by AuthRequired.
func TokenEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("email").(string); ok {
		return email
	}
	return ""
}

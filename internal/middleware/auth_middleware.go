package middleware

import (
	"log"
	"strings"

	"garrison/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// AdminRequired is a Fiber middleware that resolves the caller from their
// Bearer session token and rejects non-admins. Expired or unknown tokens are
// treated the same as a missing header.
func AdminRequired(sessionRepo repositories.SessionRepository, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header format must be 'Bearer <token>'",
			})
		}

		session, err := sessionRepo.GetByToken(parts[1])
		if err != nil {
			log.Printf("Session lookup failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		user, err := userRepo.GetByID(session.UserID)
		if err != nil {
			log.Printf("User lookup failed for session: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		if !user.IsAdmin && user.Role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		// Expose the caller to subsequent handlers
		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)

		return c.Next()
	}
}

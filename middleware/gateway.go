// middleware/gateway.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware validates the service token from the Gateway. It is
// only installed when a token is configured; without one the service accepts
// direct traffic and relies on the user-context middleware alone.
func GatewayAuthMiddleware(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		serviceToken := c.Get("X-Service-Token")
		if serviceToken == "" {
			// fall back to Authorization for gateways that send "Bearer <token>"
			authHeader := c.Get("Authorization")
			serviceToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if serviceToken != expectedToken {
			log.Printf("❌ [GATEWAY_AUTH] invalid or missing service token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}

		return c.Next()
	}
}

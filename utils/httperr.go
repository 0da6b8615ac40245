package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ValidationError writes a 400 with per-field messages:
// {"error": "validation failed", "fields": {"nickname": "..."}}
func ValidationError(c *fiber.Ctx, fields fiber.Map) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

// FieldError is the single-field shorthand for ValidationError.
func FieldError(c *fiber.Ctx, field, message string) error {
	return ValidationError(c, fiber.Map{field: message})
}

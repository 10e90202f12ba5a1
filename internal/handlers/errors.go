package handlers

import (
	"errors"

	"warung/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// statusFromError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy is an infrastructure failure.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, apperr.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the taxonomy error as JSON. Infrastructure failures are
// reported opaquely, without the underlying error text.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

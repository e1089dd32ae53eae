package server

import (
	"errors"

	"booking-checkout/internal/core/validation"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
	// Fields holds per-field validation messages.
	Fields map[string]string `json:"fields,omitempty"`
	// Redirect tells the client where to navigate after a fatal precondition.
	Redirect string `json:"redirect,omitempty"`
}

// Fail writes an error body with the given status.
func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   RayID(c),
	})
}

// FailValidation writes a 422 with per-field messages when err carries FieldErrors.
// It reports false when err is not a validation error.
func FailValidation(c *fiber.Ctx, err error) (bool, error) {
	var fe validation.FieldErrors
	if !errors.As(err, &fe) {
		return false, nil
	}
	return true, c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Message: "Please correct the highlighted fields",
		RayID:   RayID(c),
		Fields:  fe,
	})
}

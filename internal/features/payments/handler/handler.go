package handler

import (
	"net/http"

	"booking-checkout/internal/core/server"
	"booking-checkout/internal/features/payments/domain"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler exposes the card input helpers.
type PaymentHandler struct{}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

// ValidateResponse reports whether the card fields passed validation.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// Register mounts the payment routes on router.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Post("/payments/format", h.Format)
	router.Post("/payments/validate", h.Validate)
}

// Format handles POST /payments/format.
// @Summary Format card fields
// @Description Applies the live input masks to card number, expiry and CVV.
// @Tags Payments
// @Accept json
// @Produce json
// @Param card body domain.CardDetails true "Raw card fields"
// @Success 200 {object} domain.CardDetails
// @Failure 400 {object} server.ErrorResponse
// @Router /payments/format [post]
func (h *PaymentHandler) Format(c *fiber.Ctx) error {
	var card domain.CardDetails
	if err := c.BodyParser(&card); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	return c.Status(http.StatusOK).JSON(card.Formatted())
}

// Validate handles POST /payments/validate.
// @Summary Validate card fields
// @Description Formats then validates card fields. Only the first failing field is reported.
// @Tags Payments
// @Accept json
// @Produce json
// @Param card body domain.CardDetails true "Card fields"
// @Success 200 {object} ValidateResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /payments/validate [post]
func (h *PaymentHandler) Validate(c *fiber.Ctx) error {
	var card domain.CardDetails
	if err := c.BodyParser(&card); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := domain.ValidateCard(card.Formatted()); err != nil {
		if handled, werr := server.FailValidation(c, err); handled {
			return werr
		}
		return err
	}

	return c.Status(http.StatusOK).JSON(ValidateResponse{Valid: true})
}

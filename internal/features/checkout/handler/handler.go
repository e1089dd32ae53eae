package handler

import (
	"errors"
	"net/http"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/core/server"
	addresses "booking-checkout/internal/features/addresses/domain"
	addresshandler "booking-checkout/internal/features/addresses/handler"
	"booking-checkout/internal/features/checkout/domain"
	"booking-checkout/internal/features/checkout/ports"
	"booking-checkout/internal/features/checkout/service"
	payments "booking-checkout/internal/features/payments/domain"
	paymentservice "booking-checkout/internal/features/payments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RestartRedirect is where the client goes when there is nothing to check out.
const RestartRedirect = "/"

// CheckoutHandler handles HTTP requests for the checkout wizard.
type CheckoutHandler struct {
	service ports.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// SelectAddressRequest picks an address.
type SelectAddressRequest struct {
	AddressID string `json:"address_id"`
}

// Register mounts the checkout routes on router. Callers apply the session middleware;
// wizard routes additionally require an authenticated user.
func (h *CheckoutHandler) Register(router fiber.Router) {
	router.Post("/checkout/draft", h.StageDraft)
	router.Get("/checkout/draft", h.GetDraft)
	router.Get("/checkout/confirmation", h.Confirmation)

	user := server.RequireUser()
	router.Post("/checkout/start", user, h.Start)
	router.Get("/checkout", user, h.View)
	router.Post("/checkout/address", user, h.SelectAddress)
	router.Post("/checkout/addresses", user, h.SaveAddress)
	router.Delete("/checkout/addresses/:id", user, h.DeleteAddress)
	router.Post("/checkout/proceed", user, h.Proceed)
	router.Post("/checkout/back", user, h.Back)
	router.Post("/checkout/pay", user, h.Pay)
}

// StageDraft handles POST /checkout/draft.
// @Summary Stage a booking draft
// @Description Stores the prospective reservation for this session. The total is recomputed.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param draft body domain.Draft true "Draft"
// @Success 201 {object} domain.Draft
// @Failure 422 {object} server.ErrorResponse
// @Router /checkout/draft [post]
func (h *CheckoutHandler) StageDraft(c *fiber.Ctx) error {
	var req domain.Draft
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	draft, err := h.service.StageDraft(server.Context(c), server.SessionID(c), req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(draft)
}

// GetDraft handles GET /checkout/draft.
// @Summary Read the staged draft
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} domain.Draft
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/draft [get]
func (h *CheckoutHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.service.GetDraft(server.Context(c), server.SessionID(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(draft)
}

// Start handles POST /checkout/start.
// @Summary Start checkout
// @Description Opens the address step and preselects the default address.
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Success 200 {object} domain.View
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/start [post]
func (h *CheckoutHandler) Start(c *fiber.Ctx) error {
	view, err := h.service.Start(server.Context(c), server.SessionID(c), server.UserID(c))
	return h.respond(c, view, err)
}

// View handles GET /checkout.
// @Summary Current checkout state
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Success 200 {object} domain.View
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout [get]
func (h *CheckoutHandler) View(c *fiber.Ctx) error {
	view, err := h.service.View(server.Context(c), server.SessionID(c), server.UserID(c))
	return h.respond(c, view, err)
}

// SelectAddress handles POST /checkout/address.
// @Summary Select the booking address
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Param selection body SelectAddressRequest true "Address id"
// @Success 200 {object} domain.View
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/address [post]
func (h *CheckoutHandler) SelectAddress(c *fiber.Ctx) error {
	var req SelectAddressRequest
	if err := c.BodyParser(&req); err != nil || req.AddressID == "" {
		return server.Fail(c, http.StatusBadRequest, "address_id is required")
	}

	view, err := h.service.SelectAddress(server.Context(c), server.SessionID(c), server.UserID(c), req.AddressID)
	return h.respond(c, view, err)
}

// SaveAddress handles POST /checkout/addresses.
// @Summary Add or edit an address during checkout
// @Description The id query parameter edits that address. A new address becomes the selected one.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Param id query string false "Address id to edit"
// @Param address body addresshandler.SaveAddressRequest true "Address"
// @Success 200 {object} domain.View
// @Failure 422 {object} server.ErrorResponse
// @Router /checkout/addresses [post]
func (h *CheckoutHandler) SaveAddress(c *fiber.Ctx) error {
	var req addresshandler.SaveAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	view, err := h.service.SaveAddress(server.Context(c), server.SessionID(c), server.UserID(c), req.ToDomain(c.Query("id")))
	return h.respond(c, view, err)
}

// DeleteAddress handles DELETE /checkout/addresses/:id.
// @Summary Delete an address during checkout
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Address id"
// @Param confirm query bool true "Explicit confirmation"
// @Success 200 {object} domain.View
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/addresses/{id} [delete]
func (h *CheckoutHandler) DeleteAddress(c *fiber.Ctx) error {
	view, err := h.service.DeleteAddress(server.Context(c), server.SessionID(c), server.UserID(c), c.Params("id"), c.QueryBool("confirm"))
	return h.respond(c, view, err)
}

// Proceed handles POST /checkout/proceed.
// @Summary Continue to payment
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Param guest body domain.GuestDetails true "Guest details"
// @Success 200 {object} domain.View
// @Failure 409 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /checkout/proceed [post]
func (h *CheckoutHandler) Proceed(c *fiber.Ctx) error {
	var guest domain.GuestDetails
	if err := c.BodyParser(&guest); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	view, err := h.service.Proceed(server.Context(c), server.SessionID(c), server.UserID(c), guest)
	return h.respond(c, view, err)
}

// Back handles POST /checkout/back.
// @Summary Return to the address step
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Success 200 {object} domain.View
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/back [post]
func (h *CheckoutHandler) Back(c *fiber.Ctx) error {
	view, err := h.service.Back(server.Context(c), server.SessionID(c), server.UserID(c))
	return h.respond(c, view, err)
}

// Pay handles POST /checkout/pay.
// @Summary Pay and place the booking
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param X-User-ID header string true "Authenticated user"
// @Param payment body payments.PaymentRequest true "Payment"
// @Success 201 {object} domain.Placement
// @Failure 402 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Failure 504 {object} server.ErrorResponse
// @Router /checkout/pay [post]
func (h *CheckoutHandler) Pay(c *fiber.Ctx) error {
	var req payments.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	placement, err := h.service.PlaceOrder(server.Context(c), server.SessionID(c), server.UserID(c), req)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(placement)
}

// Confirmation handles GET /checkout/confirmation.
// @Summary Read the booking confirmation
// @Description The payload is returned once and then cleared.
// @Tags Checkout
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} domain.Confirmation
// @Failure 404 {object} server.ErrorResponse
// @Router /checkout/confirmation [get]
func (h *CheckoutHandler) Confirmation(c *fiber.Ctx) error {
	confirmation, err := h.service.Confirmation(server.Context(c), server.SessionID(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(confirmation)
}

func (h *CheckoutHandler) respond(c *fiber.Ctx, view *domain.View, err error) error {
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

func (h *CheckoutHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, werr := server.FailValidation(c, err); handled {
		return werr
	}

	switch {
	case errors.Is(err, domain.ErrNoDraft):
		return c.Status(http.StatusConflict).JSON(server.ErrorResponse{
			Message:  "Your booking session has expired. Please choose your stay again.",
			RayID:    server.RayID(c),
			Redirect: RestartRedirect,
		})
	case errors.Is(err, domain.ErrNotStarted):
		return server.Fail(c, http.StatusConflict, "Checkout has not been started")
	case errors.Is(err, domain.ErrIllegalTransition):
		return server.Fail(c, http.StatusConflict, "This action is not available at the current checkout step")
	case errors.Is(err, domain.ErrNoAddressSelected):
		return server.Fail(c, http.StatusUnprocessableEntity, "Please select an address")
	case errors.Is(err, domain.ErrNoConfirmation):
		return server.Fail(c, http.StatusNotFound, "No booking confirmation available")
	case errors.Is(err, addresses.ErrNotFound), errors.Is(err, addresses.ErrConfirmationRequired):
		return addresshandler.HandleError(c, err)
	case errors.Is(err, payments.ErrUnsupportedMethod):
		return server.Fail(c, http.StatusBadRequest, "Unsupported payment method")
	case errors.Is(err, payments.ErrCardRequired):
		return server.Fail(c, http.StatusBadRequest, "Card details are required")
	case errors.Is(err, payments.ErrDeclined):
		return server.Fail(c, http.StatusPaymentRequired, "Your payment was declined")
	case errors.Is(err, paymentservice.ErrPaymentInProgress):
		return server.Fail(c, http.StatusConflict, "Your payment is already being processed")
	case errors.Is(err, paymentservice.ErrPaymentTimeout):
		return server.Fail(c, http.StatusGatewayTimeout, "The payment provider did not respond in time")
	case errors.Is(err, service.ErrPersistFailed):
		return server.Fail(c, http.StatusBadGateway, "Payment was authorized but the booking could not be saved. Please try again.")
	}

	logger.ForRequest(server.RayID(c), server.SessionID(c)).Error("Checkout operation failed", zap.Error(err))
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}

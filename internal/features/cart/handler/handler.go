package handler

import (
	"errors"
	"net/http"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/core/server"
	"booking-checkout/internal/features/cart/domain"
	"booking-checkout/internal/features/cart/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	service ports.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	domain.Variant
	Quantity int `json:"quantity"`
}

// UpdateQuantityRequest represents the request body for changing a quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Register mounts the cart routes on router. Callers apply the session middleware.
func (h *CartHandler) Register(router fiber.Router) {
	router.Get("/cart", h.GetCart)
	router.Post("/cart/items", h.AddItem)
	router.Patch("/cart/items/:id", h.UpdateQuantity)
	router.Delete("/cart/items/:id", h.RemoveItem)
	router.Delete("/cart", h.ClearCart)
	router.Post("/cart/close", h.CloseCart)
}

// GetCart handles GET /cart.
// @Summary Get the cart
// @Description Returns the session's cart with item count and subtotal.
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} domain.Summary
// @Failure 400 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.service.Get(server.Context(c), server.SessionID(c))
	return h.respond(c, cart, err)
}

// AddItem handles POST /cart/items.
// @Summary Add an item
// @Description Adds a variant. Identical (product, color, size) rows merge quantities. Quantity defaults to 1.
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param item body AddItemRequest true "Variant and quantity"
// @Success 200 {object} domain.Summary
// @Failure 400 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	cart, err := h.service.AddItem(server.Context(c), server.SessionID(c), req.Variant, req.Quantity)
	return h.respond(c, cart, err)
}

// UpdateQuantity handles PATCH /cart/items/:id.
// @Summary Update an item quantity
// @Description Sets the quantity of a row. Quantities below 1 are ignored.
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param id path string true "Item id"
// @Param body body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} domain.Summary
// @Failure 400 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /cart/items/{id} [patch]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	cart, err := h.service.UpdateQuantity(server.Context(c), server.SessionID(c), c.Params("id"), req.Quantity)
	return h.respond(c, cart, err)
}

// RemoveItem handles DELETE /cart/items/:id.
// @Summary Remove an item
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param id path string true "Item id"
// @Success 200 {object} domain.Summary
// @Failure 500 {object} server.ErrorResponse
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(server.Context(c), server.SessionID(c), c.Params("id"))
	return h.respond(c, cart, err)
}

// ClearCart handles DELETE /cart.
// @Summary Clear the cart
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} domain.Summary
// @Failure 500 {object} server.ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	cart, err := h.service.Clear(server.Context(c), server.SessionID(c))
	return h.respond(c, cart, err)
}

// CloseCart handles POST /cart/close.
// @Summary Close the cart panel
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} domain.Summary
// @Failure 500 {object} server.ErrorResponse
// @Router /cart/close [post]
func (h *CartHandler) CloseCart(c *fiber.Ctx) error {
	cart, err := h.service.Close(server.Context(c), server.SessionID(c))
	return h.respond(c, cart, err)
}

func (h *CartHandler) respond(c *fiber.Ctx, cart *domain.Cart, err error) error {
	if err != nil {
		if errors.Is(err, domain.ErrInvalidItem) {
			return server.Fail(c, http.StatusBadRequest, err.Error())
		}
		logger.Get().Error("Cart operation failed",
			zap.String("ray_id", server.RayID(c)),
			zap.Error(err),
		)
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.Status(http.StatusOK).JSON(cart.Summarize())
}

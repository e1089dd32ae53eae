package handler

import (
	"errors"
	"net/http"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/core/server"
	"booking-checkout/internal/features/addresses/domain"
	"booking-checkout/internal/features/addresses/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	service ports.AddressBook
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service ports.AddressBook) *AddressHandler {
	return &AddressHandler{service: service}
}

// SaveAddressRequest represents the editable address fields.
type SaveAddressRequest struct {
	Label   string `json:"label"`
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

// ToDomain converts the request into an address with the given id.
func (r SaveAddressRequest) ToDomain(id string) domain.Address {
	return domain.Address{
		ID:      id,
		Label:   r.Label,
		Name:    r.Name,
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		Zip:     r.Zip,
		Country: r.Country,
		Phone:   r.Phone,
	}
}

// Register mounts the address routes on router. Callers apply the user middleware.
func (h *AddressHandler) Register(router fiber.Router) {
	router.Get("/addresses", h.List)
	router.Post("/addresses", h.Create)
	router.Put("/addresses/:id", h.Update)
	router.Delete("/addresses/:id", h.Delete)
	router.Post("/addresses/:id/default", h.SetDefault)
}

// List handles GET /addresses.
// @Summary List saved addresses
// @Description Returns the user's addresses with the default first.
// @Tags Addresses
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Success 200 {array} domain.Address
// @Failure 401 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /addresses [get]
func (h *AddressHandler) List(c *fiber.Ctx) error {
	addresses, err := h.service.List(server.Context(c), server.UserID(c))
	if err != nil {
		return HandleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(addresses)
}

// Create handles POST /addresses.
// @Summary Create an address
// @Description The first address of a user becomes the default.
// @Tags Addresses
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param address body SaveAddressRequest true "Address"
// @Success 201 {object} domain.Address
// @Failure 400 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /addresses [post]
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	return h.save(c, "")
}

// Update handles PUT /addresses/:id.
// @Summary Update an address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Address id"
// @Param address body SaveAddressRequest true "Address"
// @Success 200 {object} domain.Address
// @Failure 404 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /addresses/{id} [put]
func (h *AddressHandler) Update(c *fiber.Ctx) error {
	return h.save(c, c.Params("id"))
}

func (h *AddressHandler) save(c *fiber.Ctx, id string) error {
	var req SaveAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	saved, inserted, err := h.service.Save(server.Context(c), server.UserID(c), req.ToDomain(id))
	if err != nil {
		return HandleError(c, err)
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(saved)
}

// Delete handles DELETE /addresses/:id.
// @Summary Delete an address
// @Description Requires confirm=true. Deleting the default promotes the oldest remaining address.
// @Tags Addresses
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Address id"
// @Param confirm query bool true "Explicit confirmation"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /addresses/{id} [delete]
func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(server.Context(c), server.UserID(c), c.Params("id"), c.QueryBool("confirm")); err != nil {
		return HandleError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetDefault handles POST /addresses/:id/default.
// @Summary Make an address the default
// @Tags Addresses
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Address id"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Router /addresses/{id}/default [post]
func (h *AddressHandler) SetDefault(c *fiber.Ctx) error {
	if err := h.service.SetDefault(server.Context(c), server.UserID(c), c.Params("id")); err != nil {
		return HandleError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// HandleError maps address book errors onto HTTP responses.
func HandleError(c *fiber.Ctx, err error) error {
	if handled, werr := server.FailValidation(c, err); handled {
		return werr
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return server.Fail(c, http.StatusNotFound, "Address not found")
	case errors.Is(err, domain.ErrConfirmationRequired):
		return server.Fail(c, http.StatusConflict, "Please confirm the address deletion")
	}

	logger.Get().Error("Address operation failed",
		zap.String("ray_id", server.RayID(c)),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}

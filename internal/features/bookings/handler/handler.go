package handler

import (
	"errors"
	"net/http"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/core/server"
	"booking-checkout/internal/features/bookings/domain"
	"booking-checkout/internal/features/bookings/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BookingsRedirect is where the client lands after a cancellation.
const BookingsRedirect = "/bookings"

// BookingHandler handles HTTP requests for the booking viewer.
type BookingHandler struct {
	service ports.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// CancelResponse is returned after a cancellation.
type CancelResponse struct {
	domain.CancellationOutcome
	Redirect string `json:"redirect"`
}

// ShareResponse carries the public booking URL.
type ShareResponse struct {
	URL string `json:"url"`
}

// Register mounts the booking routes on router. Callers apply the user middleware.
func (h *BookingHandler) Register(router fiber.Router) {
	router.Get("/bookings", h.List)
	router.Get("/bookings/:id", h.Get)
	router.Get("/bookings/:id/cancellation", h.PreviewCancellation)
	router.Post("/bookings/:id/cancel", h.Cancel)
	router.Get("/bookings/:id/qr.png", h.QRCode)
	router.Get("/bookings/:id/export.pdf", h.ExportPDF)
	router.Get("/bookings/:id/share", h.Share)
}

// List handles GET /bookings.
// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Success 200 {array} domain.Summary
// @Failure 401 {object} server.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c *fiber.Ctx) error {
	bookings, err := h.service.List(server.Context(c), server.UserID(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(bookings)
}

// Get handles GET /bookings/:id.
// @Summary Booking details
// @Tags Bookings
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Booking id"
// @Success 200 {object} domain.Details
// @Failure 404 {object} server.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *fiber.Ctx) error {
	details, err := h.service.Get(server.Context(c), server.UserID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(details)
}

// PreviewCancellation handles GET /bookings/:id/cancellation.
// @Summary Preview a cancellation
// @Description Shows the fee, refund and policy without cancelling.
// @Tags Bookings
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Booking id"
// @Success 200 {object} domain.CancellationOutcome
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /bookings/{id}/cancellation [get]
func (h *BookingHandler) PreviewCancellation(c *fiber.Ctx) error {
	outcome, err := h.service.PreviewCancellation(server.Context(c), server.UserID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(outcome)
}

// Cancel handles POST /bookings/:id/cancel.
// @Summary Cancel a booking
// @Description Irreversible. The fee is kept and the remainder refunded.
// @Tags Bookings
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Booking id"
// @Success 200 {object} CancelResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	outcome, err := h.service.Cancel(server.Context(c), server.UserID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(CancelResponse{
		CancellationOutcome: *outcome,
		Redirect:            BookingsRedirect,
	})
}

// QRCode handles GET /bookings/:id/qr.png.
// @Summary Booking QR code
// @Tags Bookings
// @Produce png
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Booking id"
// @Success 200 {file} binary
// @Failure 404 {object} server.ErrorResponse
// @Router /bookings/{id}/qr.png [get]
func (h *BookingHandler) QRCode(c *fiber.Ctx) error {
	png, err := h.service.QRCode(server.Context(c), server.UserID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Status(http.StatusOK).Send(png)
}

// ExportPDF handles GET /bookings/:id/export.pdf.
// @Summary Export booking as PDF
// @Tags Bookings
// @Produce application/pdf
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Booking id"
// @Success 200 {file} binary
// @Failure 404 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /bookings/{id}/export.pdf [get]
func (h *BookingHandler) ExportPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.service.ExportPDF(server.Context(c), server.UserID(c), id)
	if err != nil {
		return h.handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+id+`.pdf"`)
	return c.Status(http.StatusOK).Send(pdf)
}

// Share handles GET /bookings/:id/share.
// @Summary Shareable booking link
// @Tags Bookings
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param id path string true "Booking id"
// @Success 200 {object} ShareResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /bookings/{id}/share [get]
func (h *BookingHandler) Share(c *fiber.Ctx) error {
	url, err := h.service.ShareLink(server.Context(c), server.UserID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(ShareResponse{URL: url})
}

func (h *BookingHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return server.Fail(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, domain.ErrNotCancellable):
		return server.Fail(c, http.StatusConflict, "This booking can no longer be cancelled")
	}

	logger.Get().Error("Booking operation failed",
		zap.String("ray_id", server.RayID(c)),
		zap.String("booking_id", c.Params("id")),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}

package handler

import (
	"errors"
	"net/http"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/core/server"
	"booking-checkout/internal/features/trim/domain"
	"booking-checkout/internal/features/trim/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrimHandler handles HTTP requests for the video trim editor.
type TrimHandler struct {
	service ports.TrimService
}

// NewTrimHandler creates a new TrimHandler.
func NewTrimHandler(service ports.TrimService) *TrimHandler {
	return &TrimHandler{service: service}
}

// OpenRequest describes the video to trim.
type OpenRequest struct {
	VideoURL string  `json:"video_url"`
	Duration float64 `json:"duration"`
}

// Register mounts the trim routes on router. Callers apply the session middleware.
func (h *TrimHandler) Register(router fiber.Router) {
	router.Post("/trim", h.Open)
	router.Get("/trim/:id", h.Get)
	router.Post("/trim/:id/actions", h.Apply)
	router.Post("/trim/:id/submit", h.Submit)
}

// Open handles POST /trim.
// @Summary Open a trim session
// @Tags Trim
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param video body OpenRequest true "Video"
// @Success 201 {object} domain.State
// @Failure 400 {object} server.ErrorResponse
// @Router /trim [post]
func (h *TrimHandler) Open(c *fiber.Ctx) error {
	var req OpenRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	editor, err := h.service.Open(server.Context(c), server.SessionID(c), req.VideoURL, req.Duration)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(editor.State())
}

// Get handles GET /trim/:id.
// @Summary Read a trim session
// @Tags Trim
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param id path string true "Trim session id"
// @Success 200 {object} domain.State
// @Failure 404 {object} server.ErrorResponse
// @Router /trim/{id} [get]
func (h *TrimHandler) Get(c *fiber.Ctx) error {
	editor, err := h.service.Get(server.Context(c), server.SessionID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(editor.State())
}

// Apply handles POST /trim/:id/actions.
// @Summary Apply an editor action
// @Description play, pause, skip, speed_up, speed_down, drag_start, drag_end, seek or tick.
// @Tags Trim
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param id path string true "Trim session id"
// @Param action body domain.Action true "Action"
// @Success 200 {object} domain.State
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /trim/{id}/actions [post]
func (h *TrimHandler) Apply(c *fiber.Ctx) error {
	var action domain.Action
	if err := c.BodyParser(&action); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	editor, err := h.service.Apply(server.Context(c), server.SessionID(c), c.Params("id"), action)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(editor.State())
}

// Submit handles POST /trim/:id/submit.
// @Summary Submit the selection
// @Tags Trim
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param id path string true "Trim session id"
// @Success 200 {object} domain.Selection
// @Failure 404 {object} server.ErrorResponse
// @Router /trim/{id}/submit [post]
func (h *TrimHandler) Submit(c *fiber.Ctx) error {
	selection, err := h.service.Submit(server.Context(c), server.SessionID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(selection)
}

func (h *TrimHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return server.Fail(c, http.StatusNotFound, "Trim session not found")
	case errors.Is(err, domain.ErrInvalidVideo), errors.Is(err, domain.ErrInvalidAction):
		return server.Fail(c, http.StatusBadRequest, err.Error())
	}

	logger.ForRequest(server.RayID(c), server.SessionID(c)).Error("Trim operation failed",
		zap.String("trim_id", c.Params("id")),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}

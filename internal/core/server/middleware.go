package server

import (
	"context"

	"booking-checkout/internal/core/httpclient"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionHeader identifies the browser tab owning session-scoped state.
	SessionHeader = "X-Session-ID"
	// UserHeader carries the authenticated user id set by the auth proxy.
	UserHeader = "X-User-ID"

	sessionKey = "session_id"
	userKey    = "user_id"
)

// RequireSession rejects requests without a session header.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: SessionHeader + " header is required",
				RayID:   RayID(c),
			})
		}
		c.Locals(sessionKey, id)
		return c.Next()
	}
}

// RequireUser rejects requests without an authenticated user.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(UserHeader)
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Message: "authentication required",
				RayID:   RayID(c),
			})
		}
		c.Locals(userKey, id)
		return c.Next()
	}
}

// RayID returns the request id assigned by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// SessionID returns the session id stored by RequireSession.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionKey).(string)
	return id
}

// UserID returns the user id stored by RequireUser.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userKey).(string)
	return id
}

// Context returns the request context annotated with the ray id for outbound calls.
func Context(c *fiber.Ctx) context.Context {
	return httpclient.WithRayID(c.UserContext(), RayID(c))
}

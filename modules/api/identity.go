package api

import (
	"github.com/gofiber/fiber/v2"
)

// Caller identity arrives on trusted headers set by the gateway in front
// of this service. The service itself issues no credentials.
const (
	headerCallerID   = "X-Caller-ID"
	headerCallerRole = "X-Caller-Role"

	RoleAdmin = "admin"
	RoleStaff = "staff"
)

const callerLocalKey = "caller"

// Caller is the identity attached to each request.
type Caller struct {
	ID   string
	Role string
}

// identityMiddleware reads the caller headers into the request context.
// Requests without headers pass through as anonymous; role checks happen
// per-route.
func identityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(callerLocalKey, Caller{
			ID:   c.Get(headerCallerID),
			Role: c.Get(headerCallerRole),
		})
		return c.Next()
	}
}

// callerFrom returns the caller attached by identityMiddleware.
func callerFrom(c *fiber.Ctx) Caller {
	if caller, ok := c.Locals(callerLocalKey).(Caller); ok {
		return caller
	}
	return Caller{}
}

// requireRole guards a route behind a caller role.
func requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := callerFrom(c)
		if caller.ID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Caller identity is required",
			})
		}
		if caller.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Caller role does not permit this operation",
			})
		}
		return c.Next()
	}
}

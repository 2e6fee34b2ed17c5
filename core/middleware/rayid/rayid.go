// Package rayid provides request tracing middleware.
//
// Every request gets a ray ID: either the one supplied by the caller in the
// X-Ray-Id header, or a freshly generated UUID. The ID is stored in the
// request locals for logger correlation and echoed back in the response.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the request/response header carrying the ray ID.
const HeaderName = "X-Ray-Id"

// New creates the rayid middleware.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}

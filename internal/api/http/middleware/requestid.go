package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

const (
	HeaderRequestID = "X-Request-Id"
	// LocalRequestID is read by the access log format.
	LocalRequestID = "request_id"

	maxRequestIDLen = 128
)

// RequestID keeps a sane inbound X-Request-Id or mints a uuid, echoes it
// back and stores the request metadata on the request context.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}

		c.Locals(LocalRequestID, rid)
		c.Set(HeaderRequestID, rid)

		c.SetContext(reqctx.WithRequestMeta(c.Context(), &reqctx.RequestMeta{
			RequestID:   rid,
			ClientIP:    c.IP(),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			RequestedAt: time.Now(),
		}))
		return c.Next()
	}
}

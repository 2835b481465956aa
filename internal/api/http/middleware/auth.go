package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	pasetotoken "github.com/thanhyclinic/schedule_backend/pkg/paseto"
	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

// SessionValidator reports whether a login session is still live.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID uuid.UUID) error
}

// AuthRequired validates a Bearer PASETO access token and checks its session.
// On success the claims are stored in c.Locals(pasetotoken.CtxKeyClaims) and
// on the request context.
func AuthRequired(mgr *pasetotoken.Manager, sessions SessionValidator) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := mgr.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			if pasetotoken.IsInvalidToken(err) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}
			return err
		}

		// Only access tokens are accepted on protected routes
		if claims.Type != pasetotoken.TokenTypeAccess || claims.SessionID == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if err := sessions.ValidateSession(c.Context(), *claims.SessionID); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "session expired")
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))

		return c.Next()
	}
}

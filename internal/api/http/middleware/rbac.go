package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
)

// RequirePermission checks the authenticated user against the sys domain.
// It must run after AuthRequired, which puts the claims on the context.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		err := authorize.EnforceFromContext(c.Context(), auth, resource, action)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, authorize.ErrNoSubjectInContext):
			return fiber.ErrUnauthorized
		case errors.Is(err, authorize.ErrForbidden):
			return fiber.NewError(fiber.StatusForbidden, "admin only")
		default:
			return err
		}
	}
}

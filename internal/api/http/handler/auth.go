package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/thanhyclinic/schedule_backend/internal/service/auth"
	pasetotoken "github.com/thanhyclinic/schedule_backend/pkg/paseto"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	tokens, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"access_token": tokens.AccessToken,
		"expires_in":   tokens.ExpiresIn,
		"expires_at":   tokens.ExpiresAt,
		"user": fiber.Map{
			"id":    tokens.UserID,
			"email": tokens.Email,
			"role":  tokens.Role,
		},
	})
}

// POST /api/v1/auth/logout  (requires AuthRequired middleware)
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	claims, valid := pasetotoken.ClaimsFromFiber(c)
	if !valid || claims.SessionID == nil {
		return unauthorized(c, "unauthorized")
	}

	if err := h.svc.Logout(c.Context(), *claims.SessionID); err != nil {
		slog.ErrorContext(c.Context(), "logout failed", "session_id", claims.SessionID, "error", err)
		return internalError(c)
	}

	return ok(c, fiber.Map{"ok": true})
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrInvalidToken):
		return unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrAccountLocked):
		return tooManyRequests(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "auth request failed", "error", err)
		return internalError(c)
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
	pasetotoken "github.com/thanhyclinic/schedule_backend/pkg/paseto"
	"github.com/thanhyclinic/schedule_backend/pkg/password"
)

const (
	maxLoginAttempts = 5
	accountLockMins  = 15
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Email    string
	Password string
}

type AuthTokens struct {
	AccessToken string
	ExpiresAt   time.Time
	ExpiresIn   int64 // seconds until access token expires

	UserID uuid.UUID
	Email  string
	Role   string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	// ValidateSession returns ErrSessionNotFound once a session has been
	// revoked or has expired.
	ValidateSession(ctx context.Context, sessionID uuid.UUID) error
}

// UserStore is the slice of the repository the auth flow reads and writes.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (repo.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	users    UserStore
	sessions SessionStore
	hasher   *password.Hasher
	paseto   *pasetotoken.Manager
	authz    authorize.IAuthorization
}

// New builds the auth service. authz may be nil, in which case role
// synchronisation on login is skipped.
func New(
	users UserStore,
	sessions SessionStore,
	hasher *password.Hasher,
	paseto *pasetotoken.Manager,
	authz authorize.IAuthorization,
) Service {
	return &authService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		paseto:   paseto,
		authz:    authz,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthTokens, error) {
	email := repo.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	failures, err := s.sessions.LoginFailures(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: read login failures: %w", err)
	}
	if failures >= maxLoginAttempts {
		return nil, ErrAccountLocked
	}

	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.recordFailedLogin(ctx, email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}

	if err := s.hasher.Verify(u.PasswordHash, req.Password); err != nil {
		s.recordFailedLogin(ctx, email)
		return nil, ErrInvalidCredentials
	}

	if err := s.sessions.ClearLoginFailures(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to clear login failures", "email", email, "error", err)
	}

	if s.hasher.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u, req.Password)
	}

	if s.authz != nil {
		if err := authorize.SyncUserRole(ctx, s.authz, u.ID.String(), u.Role); err != nil {
			slog.WarnContext(ctx, "failed to sync user role", "user_id", u.ID, "role", u.Role, "error", err)
		}
	}

	return s.createSession(ctx, u)
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	removed, err := s.sessions.RevokeSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("auth: revoke session: %w", err)
	}
	if !removed {
		slog.DebugContext(ctx, "logout for unknown session", "session_id", sessionID)
	}
	return nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID uuid.UUID) error {
	ok, err := s.sessions.SessionExists(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("auth: session lookup: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *authService) createSession(ctx context.Context, u repo.User) (*AuthTokens, error) {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("auth: session id: %w", err)
	}

	ttl := s.paseto.AccessTTL()
	if err := s.sessions.CreateSession(ctx, sessionID, u.ID, ttl); err != nil {
		return nil, fmt.Errorf("auth: store session: %w", err)
	}

	token, exp, err := s.paseto.IssueAccess(pasetotoken.Subject{
		UserID:    u.ID,
		SessionID: &sessionID,
		Role:      strings.ToUpper(u.Role),
		Email:     u.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", u.ID, "session_id", sessionID, "role", u.Role)

	return &AuthTokens{
		AccessToken: token,
		ExpiresAt:   exp,
		ExpiresIn:   int64(ttl.Seconds()),
		UserID:      u.ID,
		Email:       u.Email,
		Role:        strings.ToUpper(u.Role),
	}, nil
}

func (s *authService) recordFailedLogin(ctx context.Context, email string) {
	n, err := s.sessions.RecordLoginFailure(ctx, email, accountLockMins*time.Minute)
	if err != nil {
		slog.WarnContext(ctx, "failed to record login failure", "email", email, "error", err)
		return
	}
	if n >= maxLoginAttempts {
		slog.WarnContext(ctx, "account locked after repeated login failures", "email", email, "failures", n)
	}
}

func (s *authService) rehash(ctx context.Context, u repo.User, plain string) {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		slog.WarnContext(ctx, "password rehash failed", "user_id", u.ID, "error", err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		slog.WarnContext(ctx, "failed to store rehashed password", "user_id", u.ID, "error", err)
	}
}

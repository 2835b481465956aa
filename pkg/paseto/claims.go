package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

// Subject is what a token is issued for.
type Subject struct {
	UserID    uuid.UUID
	SessionID *uuid.UUID
	Role      string
	Email     string
}

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	SessionID *uuid.UUID
	Role      string
	Email     string

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
	Subject   string
}

// GetUserID implements reqctx.AuthClaims.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

func (c *Claims) GetSessionID() *uuid.UUID {
	return c.SessionID
}

func (c *Claims) GetTokenType() string {
	return string(c.Type)
}

func (c *Claims) GetRole() string {
	return c.Role
}

func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

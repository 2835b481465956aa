package pasetotoken

import (
	"errors"
	"fmt"
)

// ErrConfig reports a misconfigured manager or key set. It surfaces at
// startup or as a 500, never as a client error.
type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "paseto config: " + e.Msg }

// ErrInvalidToken wraps a parse, signature, expiry or claim failure.
type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return fmt.Sprintf("invalid token: %v", e.Err) }
func (e ErrInvalidToken) Unwrap() error { return e.Err }

// IsInvalidToken reports whether err was caused by the presented token
// rather than by the manager's own configuration.
func IsInvalidToken(err error) bool {
	var invalid ErrInvalidToken
	return errors.As(err, &invalid)
}

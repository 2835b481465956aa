package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// AuthClaims is the view of a verified access token that services need.
// pasetotoken.Claims implements it.
type AuthClaims interface {
	GetUserID() uuid.UUID
	GetSessionID() *uuid.UUID
	GetTokenType() string
	GetRole() string
	IsExpired() bool
}

func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, keyClaims, claims)
}

// ClaimsFromContext returns nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, _ := ctx.Value(keyClaims).(AuthClaims)
	return claims
}

// UserIDFromContext reports the acting user. Expired claims and the nil
// uuid count as anonymous.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil || claims.IsExpired() {
		return uuid.Nil, false
	}
	id := claims.GetUserID()
	return id, id != uuid.Nil
}

package security

import (
	"context"

	"github.com/99minutos/content-api/internal/core/domain"
)

// Principal is the identity established for one request from a verified token.
// A nil *Principal means the request is anonymous.
type Principal struct {
	Email string
	Role  domain.Role
}

// PrincipalFromClaims builds the principal a verified claim set describes.
func PrincipalFromClaims(c Claims) Principal {
	return Principal{Email: c.Subject, Role: c.Role}
}

type principalContextKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom returns the principal attached to ctx, or nil when the request is
// anonymous. The returned value is a copy.
func PrincipalFrom(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok {
		return nil
	}
	return &p
}

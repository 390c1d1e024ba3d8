// Package security holds the request-time security core: the bearer token codec,
// the request-scoped principal and the authorization policy. Everything here is
// pure and safe for concurrent use once constructed.
package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/content-api/internal/core/domain"
)

const (
	// DefaultTokenTTL is the lifetime of an issued token.
	DefaultTokenTTL = 10 * time.Hour
	// DefaultIssuer is written to the iss claim and required on verification.
	DefaultIssuer = "content-api"
	// MinSecretLength is the minimum HMAC key size in bytes (256 bits).
	MinSecretLength = 32
)

// ErrInvalidToken covers every token rejection: empty, malformed, wrong algorithm,
// bad signature, expired, foreign issuer or unknown role. Callers must not be able
// to tell these apart.
var ErrInvalidToken = errors.New("invalid token")

// ErrWeakSecret is returned by NewTokenCodec when the key is shorter than 256 bits.
var ErrWeakSecret = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)

// Claims is the claim set carried inside a token. Subject holds the user's email.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Email returns the subject of the token.
func (c Claims) Email() string { return c.Subject }

// TokenCodec issues and verifies HS256 signed bearer tokens with a single
// process-wide key.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithTTL overrides the token lifetime. Non-positive values keep the default.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithIssuer overrides the iss claim.
func WithIssuer(issuer string) CodecOption {
	return func(c *TokenCodec) {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			c.issuer = issuer
		}
	}
}

// NewTokenCodec builds a codec around secret. The secret is copied.
func NewTokenCodec(secret []byte, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTokenTTL,
		issuer: DefaultIssuer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime applied to issued tokens.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue signs a token for email and role, valid from now until now+TTL. NumericDate
// carries whole seconds, so now is truncated first and the embedded expiry never
// lands later than the returned lifetime implies.
func (c *TokenCodec) Issue(email string, role domain.Role, now time.Time) (string, error) {
	now = now.Truncate(time.Second)
	if email == "" {
		return "", errors.New("issue token: empty subject")
	}
	if !role.Valid() {
		return "", fmt.Errorf("issue token: %w", domain.ErrInvalidRole)
	}

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry of token as seen at now and
// returns its claims. A token is still valid at the exact expiry instant and
// rejected strictly after it. Every failure is ErrInvalidToken.
func (c *TokenCodec) Verify(token string, now time.Time) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithStrictDecoding(),
		jwt.WithLeeway(time.Second),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	// Leeway lets now == exp past the parser; anything later is expired.
	if claims.ExpiresAt == nil || now.After(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractClaims runs the Verify path and returns the claim values.
func (c *TokenCodec) ExtractClaims(token string, now time.Time) (Claims, error) {
	claims, err := c.Verify(token, now)
	if err != nil {
		return Claims{}, err
	}
	return *claims, nil
}

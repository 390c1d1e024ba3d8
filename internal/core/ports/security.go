package ports

import (
	"context"
	"time"

	"github.com/99minutos/content-api/internal/core/domain"
)

// PasswordHasher is a one-way hash with verification. Plaintext never leaves the
// auth service.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(email string, role domain.Role, now time.Time) (string, error)
	TTL() time.Duration
}

// LoginThrottle counts failed logins per email.
type LoginThrottle interface {
	// Allowed reports whether another login attempt may be made for email.
	Allowed(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuditRecorder accepts security events for asynchronous persistence. Record must
// not block the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

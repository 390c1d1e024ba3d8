package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithAudit sends login events to r.
func WithAudit(r ports.AuditRecorder) AuthOption {
	return func(s *AuthService) { s.audit = r }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		throttle: noThrottle{},
		audit:    nopAudit{},
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a USER account. Emails are stored trimmed and lower-cased so
// that ownership comparisons downstream can be exact.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user, err := newUser(s.hasher, s.now().UTC(), in.Name, in.LastName, in.Age, email, in.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

// Login checks credentials and issues a token. Unknown email and wrong password
// produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.throttle.Allowed(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
	} else if !allowed {
		s.record(domain.AuditLoginThrottled, email, "")
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		s.fail(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().Truncate(time.Second)
	token, err := s.tokens.Issue(user.Email, user.Role, now)
	if err != nil {
		return nil, err
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login throttle")
	}
	s.record(domain.AuditLoginSucceeded, email, "")
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.tokens.TTL()).UTC(),
		User:      user,
	}, nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes an existing account
// with that email to ADMIN. It is called once at startup.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			return nil
		}
		existing.Role = domain.RoleAdmin
		existing.UpdatedAt = s.now().UTC()
		return s.repo.Update(ctx, existing)
	case !errors.Is(err, domain.ErrUserNotFound):
		return err
	}

	user, err := newUser(s.hasher, s.now().UTC(), "Admin", "Admin", 18, email, password, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := s.repo.Create(ctx, user); err != nil && !errors.Is(err, domain.ErrUserExists) {
		return err
	}
	s.log.Info().Str("email", email).Msg("bootstrap admin ensured")
	return nil
}

func (s *AuthService) fail(ctx context.Context, email string) {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	s.record(domain.AuditLoginFailed, email, "")
	s.log.Info().Msg("login rejected")
}

func (s *AuthService) record(t domain.AuditEventType, subject, target string) {
	s.audit.Record(domain.AuditEvent{Type: t, Subject: subject, Target: target, OccurredAt: s.now().UTC()})
}

func newUser(h ports.PasswordHasher, now time.Time, name, lastName string, age int, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := h.Hash(password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Name:         strings.TrimSpace(name),
		LastName:     strings.TrimSpace(lastName),
		Age:          age,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type noThrottle struct{}

func (noThrottle) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noThrottle) RecordFailure(context.Context, string) error   { return nil }
func (noThrottle) Reset(context.Context, string) error           { return nil }

type nopAudit struct{}

func (nopAudit) Record(domain.AuditEvent) {}

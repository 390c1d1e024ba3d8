package service

import (
	"context"
	"testing"
	"time"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
	"github.com/99minutos/content-api/internal/core/security"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T) *security.TokenCodec {
	t.Helper()
	codec, err := security.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return codec
}

func newTestAuthService(t *testing.T, repo *stubUserRepo, opts ...AuthOption) (*AuthService, *security.TokenCodec) {
	codec := newTestCodec(t)
	opts = append([]AuthOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewAuthService(repo, plainHasher{}, codec, discardLogger, opts...), codec
}

func registerInput(email, password string) ports.RegisterInput {
	return ports.RegisterInput{Name: "Alice", LastName: "Smith", Age: 30, Email: email, Password: password}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(t, repo)

	user, err := svc.Register(context.Background(), registerInput("  Alice@Example.com ", "pass1234"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("registration must grant USER, got %s", user.Role)
	}
	if !user.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected created_at: %v", user.CreatedAt)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())

	if _, err := svc.Register(context.Background(), registerInput("", "pass")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("bob@example.com", "")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo())

	_, _ = svc.Register(context.Background(), registerInput("bob@example.com", "pass1234"))
	if _, err := svc.Register(context.Background(), registerInput("BOB@example.com", "pass5678")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle()
	audit := &recordingAudit{}
	svc, codec := newTestAuthService(t, repo, WithLoginThrottle(throttle), WithAudit(audit))

	if _, err := svc.Register(context.Background(), registerInput("carol@example.com", "s3cret99")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if !res.ExpiresAt.Equal(fixedNow.Add(security.DefaultTokenTTL)) {
		t.Fatalf("unexpected expires_at: %v", res.ExpiresAt)
	}

	claims, err := codec.ExtractClaims(res.Token, fixedNow)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Email() != "carol@example.com" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset on success")
	}
	if got := audit.types(); len(got) != 1 || got[0] != domain.AuditLoginSucceeded {
		t.Fatalf("unexpected audit trail: %v", got)
	}
}

func TestAuthService_Login_FailuresAreUniform(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle()
	svc, _ := newTestAuthService(t, repo, WithLoginThrottle(throttle))
	_, _ = svc.Register(context.Background(), registerInput("dave@example.com", "goodpass"))

	_, wrongPassword := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost@example.com", "goodpass")

	if wrongPassword != domain.ErrInvalidCredentials || unknownUser != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPassword, unknownUser)
	}
	if throttle.failures["dave@example.com"] != 1 || throttle.failures["ghost@example.com"] != 1 {
		t.Fatalf("failures not recorded: %v", throttle.failures)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle()
	audit := &recordingAudit{}
	svc, _ := newTestAuthService(t, repo, WithLoginThrottle(throttle), WithAudit(audit))
	_, _ = svc.Register(context.Background(), registerInput("erin@example.com", "goodpass"))

	throttle.blocked = true
	if _, err := svc.Login(context.Background(), "erin@example.com", "goodpass"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if got := audit.types(); len(got) != 1 || got[0] != domain.AuditLoginThrottled {
		t.Fatalf("unexpected audit trail: %v", got)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(t, repo)

	if err := svc.EnsureAdmin(context.Background(), "root@example.com", "rootpass"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	admin, err := repo.FindByEmail(context.Background(), "root@example.com")
	if err != nil || admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin account, got %+v, %v", admin, err)
	}

	// Idempotent, and promotes an existing USER account.
	if err := svc.EnsureAdmin(context.Background(), "root@example.com", "rootpass"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	_, _ = svc.Register(context.Background(), registerInput("promote@example.com", "pass1234"))
	if err := svc.EnsureAdmin(context.Background(), "promote@example.com", "ignored1"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	promoted, _ := repo.FindByEmail(context.Background(), "promote@example.com")
	if promoted.Role != domain.RoleAdmin {
		t.Fatalf("expected promotion, got %s", promoted.Role)
	}
	if len(repo.users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(repo.users))
	}
}

func TestAuthService_Login_ExpiresAtMatchesToken(t *testing.T) {
	repo := newStubUserRepo()
	clock := fixedNow.Add(600 * time.Millisecond)
	codec := newTestCodec(t)
	svc := NewAuthService(repo, plainHasher{}, codec, discardLogger, WithClock(func() time.Time { return clock }))

	if _, err := svc.Register(context.Background(), registerInput("dave@example.com", "s3cret99")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	res, err := svc.Login(context.Background(), "dave@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := codec.ExtractClaims(res.Token, clock)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if !res.ExpiresAt.Equal(claims.ExpiresAt.Time) {
		t.Fatalf("expires_at %v does not match token exp %v", res.ExpiresAt, claims.ExpiresAt.Time)
	}
	if _, err := codec.Verify(res.Token, res.ExpiresAt); err != nil {
		t.Fatalf("token must be valid at its advertised expiry: %v", err)
	}
}

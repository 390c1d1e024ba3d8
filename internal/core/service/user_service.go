package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
	"github.com/99minutos/content-api/internal/core/security"
)

const (
	msgUpdateOwnProfile = "You can only update your own profile"
	msgDeleteOwnProfile = "You can only delete your own profile"
)

// UserService implements ports.UserService. Capability gates are re-checked here
// so the service is safe to call outside the HTTP pipeline.
type UserService struct {
	users  ports.UserRepository
	posts  ports.PostRepository
	hasher ports.PasswordHasher
	policy security.Policy
	audit  ports.AuditRecorder
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(users ports.UserRepository, posts ports.PostRepository, hasher ports.PasswordHasher, policy security.Policy, audit ports.AuditRecorder, log zerolog.Logger) *UserService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &UserService{
		users:  users,
		posts:  posts,
		hasher: hasher,
		policy: policy,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

// Create lets an admin create an account with any role.
func (s *UserService) Create(ctx context.Context, p *security.Principal, in ports.CreateUserInput) (*domain.User, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAdmin).Err(""); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	email := normalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user, err := newUser(s.hasher, s.now().UTC(), in.Name, in.LastName, in.Age, email, in.Password, role)
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Str("by", p.Email).Msg("user created")
	return created, nil
}

func (s *UserService) List(ctx context.Context, p *security.Principal) ([]*domain.User, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAdmin).Err(""); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, p *security.Principal, id string) (*domain.User, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAuthenticated).Err(""); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Update changes the profile fields of user id. The user must exist before
// ownership is evaluated.
func (s *UserService) Update(ctx context.Context, p *security.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.ownedUser(ctx, p, id, msgUpdateOwnProfile)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(in.Name)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Age = in.Age
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Str("by", p.Email).Msg("user updated")
	return user, nil
}

// Delete removes user id together with their posts.
func (s *UserService) Delete(ctx context.Context, p *security.Principal, id string) (*domain.User, error) {
	user, err := s.ownedUser(ctx, p, id, msgDeleteOwnProfile)
	if err != nil {
		return nil, err
	}

	removed, err := s.posts.DeleteByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Int64("posts_removed", removed).Str("by", p.Email).Msg("user deleted")
	return user, nil
}

// FindByAge returns users of exactly age. An empty result is ErrUserNotFound.
func (s *UserService) FindByAge(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAuthenticated).Err(""); err != nil {
		return nil, err
	}
	return nonEmpty(s.users.FindByAge(ctx, age))
}

// FindByAgeGreaterThan returns users strictly older than age.
func (s *UserService) FindByAgeGreaterThan(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAuthenticated).Err(""); err != nil {
		return nil, err
	}
	return nonEmpty(s.users.FindByAgeGreaterThan(ctx, age))
}

func (s *UserService) FindByEmail(ctx context.Context, p *security.Principal, email string) (*domain.User, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAdmin).Err(""); err != nil {
		return nil, err
	}
	return s.users.FindByEmail(ctx, normalizeEmail(email))
}

// ownedUser loads user id and checks that p may modify it: existence first,
// ownership second.
func (s *UserService) ownedUser(ctx context.Context, p *security.Principal, id, action string) (*domain.User, error) {
	if err := s.policy.RequireCapability(p, security.CapabilityAuthenticated).Err(""); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.DecideOwnership(p, user.Email).Err(action); err != nil {
		s.log.Warn().Str("principal", p.Email).Str("user_id", id).Msg(action)
		recordDenial(s.audit, s.now(), p, "user:"+id, action)
		return nil, err
	}
	return user, nil
}

func nonEmpty(users []*domain.User, err error) ([]*domain.User, error) {
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users, nil
}

func recordDenial(a ports.AuditRecorder, now time.Time, p *security.Principal, target, reason string) {
	a.Record(domain.AuditEvent{
		Type:       domain.AuditAccessDenied,
		Subject:    p.Email,
		Target:     target,
		Reason:     reason,
		OccurredAt: now.UTC(),
	})
}

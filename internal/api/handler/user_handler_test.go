package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
	"github.com/99minutos/content-api/internal/core/security"
)

type stubUserService struct {
	createFn     func(ctx context.Context, p *security.Principal, in ports.CreateUserInput) (*domain.User, error)
	listFn       func(ctx context.Context, p *security.Principal) ([]*domain.User, error)
	getFn        func(ctx context.Context, p *security.Principal, id string) (*domain.User, error)
	updateFn     func(ctx context.Context, p *security.Principal, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn     func(ctx context.Context, p *security.Principal, id string) (*domain.User, error)
	byAgeFn      func(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error)
	byAgeAboveFn func(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error)
	byEmailFn    func(ctx context.Context, p *security.Principal, email string) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, p *security.Principal, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubUserService) List(ctx context.Context, p *security.Principal) ([]*domain.User, error) {
	return s.listFn(ctx, p)
}

func (s *stubUserService) Get(ctx context.Context, p *security.Principal, id string) (*domain.User, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubUserService) Update(ctx context.Context, p *security.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, p *security.Principal, id string) (*domain.User, error) {
	return s.deleteFn(ctx, p, id)
}

func (s *stubUserService) FindByAge(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error) {
	return s.byAgeFn(ctx, p, age)
}

func (s *stubUserService) FindByAgeGreaterThan(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error) {
	return s.byAgeAboveFn(ctx, p, age)
}

func (s *stubUserService) FindByEmail(ctx context.Context, p *security.Principal, email string) (*domain.User, error) {
	return s.byEmailFn(ctx, p, email)
}

var alice = security.Principal{Email: "alice@example.com", Role: domain.RoleUser}

func TestUserHandler_Update_PassesPrincipal(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, p *security.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
			if p == nil || p.Email != alice.Email {
				t.Fatalf("principal not passed: %+v", p)
			}
			if id != "u1" || in.Name != "Alicia" || in.Age != 31 {
				t.Fatalf("unexpected args: %s %+v", id, in)
			}
			return &domain.User{ID: id, Name: in.Name, Age: in.Age}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newTestContext(http.MethodPut, "/users/u1", `{"name":"Alicia","last_name":"Smith","age":31}`)
	c.SetRequest(c.Request().WithContext(security.WithPrincipal(c.Request().Context(), alice)))
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_Forbidden(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, p *security.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
			return nil, &domain.ForbiddenError{Message: "You can only update your own profile"}
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newTestContext(http.MethodPut, "/users/u2", `{"name":"Alicia","last_name":"Smith","age":31}`)
	c.SetParamNames("id")
	c.SetParamValues("u2")

	err := handler.Update(c)
	var fe *domain.ForbiddenError
	if !errors.As(err, &fe) || fe.Message != "You can only update your own profile" {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestUserHandler_Get_Anonymous(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, p *security.Principal, id string) (*domain.User, error) {
			if p != nil {
				t.Fatalf("expected nil principal")
			}
			return nil, domain.ErrUnauthenticated
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newTestContext(http.MethodGet, "/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := handler.Get(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserHandler_Create_RoleAndValidation(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, p *security.Principal, in ports.CreateUserInput) (*domain.User, error) {
			if in.Role != domain.RoleAdmin {
				t.Fatalf("expected ADMIN role, got %q", in.Role)
			}
			return &domain.User{Email: in.Email, Role: in.Role}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/users",
		`{"name":"Root","last_name":"Admin","age":40,"email":"root@example.com","password":"rootpass1","role":"ADMIN"}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newTestContext(http.MethodPost, "/users",
		`{"name":"Root","last_name":"Admin","age":40,"email":"root@example.com","password":"rootpass1","role":"OWNER"}`)
	var ve *ValidationError
	if err := handler.Create(c); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_FindByAge(t *testing.T) {
	stub := &stubUserService{
		byAgeFn: func(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error) {
			if age != 30 {
				t.Fatalf("unexpected age %d", age)
			}
			return []*domain.User{{Email: "a@example.com", Age: 30}}, nil
		},
		byAgeAboveFn: func(ctx context.Context, p *security.Principal, age int) ([]*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/users/age/30", "")
	c.SetParamNames("age")
	c.SetParamValues("30")
	if err := handler.FindByAge(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp usersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp.Users) != 1 {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}

	c, _ = newTestContext(http.MethodGet, "/users/age-above/99", "")
	c.SetParamNames("age")
	c.SetParamValues("99")
	if err := handler.FindByAgeAbove(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	c, _ = newTestContext(http.MethodGet, "/users/age/abc", "")
	c.SetParamNames("age")
	c.SetParamValues("abc")
	assertHTTPError(t, handler.FindByAge(c), http.StatusBadRequest)
}

func TestUserHandler_FindByEmail_Unescapes(t *testing.T) {
	stub := &stubUserService{
		byEmailFn: func(ctx context.Context, p *security.Principal, email string) (*domain.User, error) {
			if email != "a+b@example.com" {
				t.Fatalf("unexpected email %q", email)
			}
			return &domain.User{Email: email}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newTestContext(http.MethodGet, "/users/email/a%2Bb@example.com", "")
	c.SetParamNames("email")
	c.SetParamValues("a%2Bb@example.com")
	if err := handler.FindByEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, p *security.Principal, id string) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newTestContext(http.MethodDelete, "/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

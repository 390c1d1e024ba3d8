package handler

import (
	"time"

	"github.com/99minutos/content-api/internal/core/domain"
)

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"      validate:"required,min=2,max=50"`
	LastName string `json:"last_name" validate:"required,min=2,max=50"`
	Age      int    `json:"age"       validate:"required,gte=18,lte=120"`
	Email    string `json:"email"     validate:"required,email,max=254"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name     string `json:"name"      validate:"required,min=2,max=50"`
	LastName string `json:"last_name" validate:"required,min=2,max=50"`
	Age      int    `json:"age"       validate:"required,gte=18,lte=120"`
	Email    string `json:"email"     validate:"required,email,max=254"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	Role     string `json:"role"      validate:"omitempty,oneof=USER ADMIN"`
}

type updateUserRequest struct {
	Name     string `json:"name"      validate:"required,min=2,max=50"`
	LastName string `json:"last_name" validate:"required,min=2,max=50"`
	Age      int    `json:"age"       validate:"required,gte=18,lte=120"`
}

type createPostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

// --- Response types ---

type userResponse struct {
	User *domain.User `json:"user"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type postResponse struct {
	Post *domain.Post `json:"post"`
}

type postsResponse struct {
	Posts []*domain.Post `json:"posts"`
}

type deleteUserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type errorBody struct {
	Error string `json:"error"`
}

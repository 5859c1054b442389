// Package transport defines the auth API contract.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateUserRequest provisions a staff account. Admin only.
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,strongpassword"`
	FullName string   `json:"fullName" validate:"required,min=1,max=200"`
	Roles    []string `json:"roles" validate:"required,min=1"`
	Regions  []string `json:"regions,omitempty"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

// TokenPairResponse carries both tokens in the body. Clients are API
// consumers, not browsers, so no cookie plumbing.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Roles     []string  `json:"roles"`
	Regions   []string  `json:"regions"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

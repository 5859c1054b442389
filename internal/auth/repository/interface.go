package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// User operations
// =============================================================================

type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
}

type UserWriter interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (User, error)
}

// =============================================================================
// Refresh token operations
// =============================================================================

type TokenStore interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// AuthRepository combines everything the auth service depends on.
type AuthRepository interface {
	UserReader
	UserWriter
	TokenStore
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)

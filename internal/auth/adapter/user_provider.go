// Package adapter exposes auth data to other bounded contexts without
// leaking repository internals.
package adapter

import (
	"context"
	"errors"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"

	"github.com/google/uuid"
)

// UserProviderAdapter implements auth.UserProvider over the auth repository.
type UserProviderAdapter struct {
	repo repository.UserReader
}

func NewUserProviderAdapter(repo repository.UserReader) *UserProviderAdapter {
	return &UserProviderAdapter{repo: repo}
}

func (a *UserProviderAdapter) GetUserByID(ctx context.Context, userID uuid.UUID) (auth.Profile, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Profile{}, apperr.NotFound("user not found")
		}
		return auth.Profile{}, err
	}
	return profileFrom(user), nil
}

func profileFrom(user repository.User) auth.Profile {
	return auth.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Roles:     user.Roles,
		Regions:   user.Regions,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Ensure UserProviderAdapter implements auth.UserProvider
var _ auth.UserProvider = (*UserProviderAdapter)(nil)

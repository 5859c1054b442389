// Package auth provides staff authentication for the marketplace backend.
// This file defines the public API of the auth bounded context; other
// domains import only what is declared here.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the staff account view shared with other domains.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Roles     []string
	Regions   []string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProvider resolves staff accounts for other bounded contexts, such as
// the notification module looking up an assignee's email address.
type UserProvider interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (Profile, error)
}

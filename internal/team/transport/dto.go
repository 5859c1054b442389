// Package transport defines the team API contract.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type DesignerResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Regions   []string  `json:"regions"`
	OpenLeads int       `json:"openLeads"`
	CreatedAt time.Time `json:"createdAt"`
}

type DesignerListResponse struct {
	Items []DesignerResponse `json:"items"`
	Total int                `json:"total"`
}

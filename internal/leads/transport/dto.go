package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateLeadRequest is the public intake payload. Qualification fields are
// free-form tags; unknown values are accepted and simply score zero.
type CreateLeadRequest struct {
	FirstName    string `json:"firstName" validate:"required,min=1,max=100"`
	LastName     string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Source       string `json:"source" validate:"required,min=1,max=50"`
	City         string `json:"city,omitempty" validate:"omitempty,max=100"`
	BudgetMin    *int64 `json:"budgetMin,omitempty" validate:"omitempty,gte=0"`
	BudgetMax    *int64 `json:"budgetMax,omitempty" validate:"omitempty,gte=0"`
	ProjectType  string `json:"projectType,omitempty" validate:"omitempty,max=50"`
	PropertyType string `json:"propertyType,omitempty" validate:"omitempty,max=50"`
	Timeline     string `json:"timeline,omitempty" validate:"omitempty,max=50"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// UpdateLeadRequest edits contact and qualification details. Status, score
// and assignment have dedicated endpoints and are not accepted here.
type UpdateLeadRequest struct {
	FirstName    *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	BudgetMin    *int64  `json:"budgetMin,omitempty" validate:"omitempty,gte=0"`
	BudgetMax    *int64  `json:"budgetMax,omitempty" validate:"omitempty,gte=0"`
	ProjectType  *string `json:"projectType,omitempty" validate:"omitempty,max=50"`
	PropertyType *string `json:"propertyType,omitempty" validate:"omitempty,max=50"`
	Timeline     *string `json:"timeline,omitempty" validate:"omitempty,max=50"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// UpdateStatusRequest drives the lifecycle state machine. converted is
// deliberately not an accepted value; conversion has its own endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=contacted qualified lost"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// AssignLeadRequest selects an assignee. An absent assigneeId asks for
// auto-assignment by workload; an explicit null unassigns the lead.
type AssignLeadRequest struct {
	AssigneeID OptionalUUID `json:"assigneeId,omitempty" validate:"-"`
}

// ConvertLeadRequest supplies the new project's attributes.
type ConvertLeadRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=5000"`
	Budget      *int64     `json:"budget,omitempty" validate:"omitempty,gte=0"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// ListLeadsRequest filters and pages the lead collection. assignedTo is a
// string so an unparseable value can be rejected with a clear message.
type ListLeadsRequest struct {
	Status     string `form:"status"`
	City       string `form:"city"`
	Source     string `form:"source"`
	AssignedTo string `form:"assignedTo"`
	MinScore   *int   `form:"minScore"`
	Search     string `form:"q"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

// Response DTOs

type LeadResponse struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Source       string     `json:"source"`
	City         *string    `json:"city,omitempty"`
	BudgetMin    *int64     `json:"budgetMin,omitempty"`
	BudgetMax    *int64     `json:"budgetMax,omitempty"`
	ProjectType  *string    `json:"projectType,omitempty"`
	PropertyType *string    `json:"propertyType,omitempty"`
	Timeline     *string    `json:"timeline,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Score        int        `json:"score"`
	Status       string     `json:"status"`
	AssignedTo   *uuid.UUID `json:"assignedTo,omitempty"`
	ProjectID    *uuid.UUID `json:"projectId,omitempty"`
	LostReason   *string    `json:"lostReason,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type ConversionResponse struct {
	Lead      LeadResponse `json:"lead"`
	ProjectID uuid.UUID    `json:"projectId"`
}

type TimelineEntryResponse struct {
	ID        uuid.UUID      `json:"id"`
	ActorType string         `json:"actorType"`
	ActorName string         `json:"actorName"`
	EventType string         `json:"eventType"`
	Title     string         `json:"title"`
	Summary   *string        `json:"summary,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type RescoreResponse struct {
	Lead    LeadResponse   `json:"lead"`
	Factors map[string]int `json:"factors"`
}

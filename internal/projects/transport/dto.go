package transport

import (
	"time"

	"github.com/google/uuid"
)

type ListProjectsRequest struct {
	Status     string `form:"status"`
	AssignedTo string `form:"assignedTo"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

type ProjectResponse struct {
	ID                 uuid.UUID  `json:"id"`
	LeadID             uuid.UUID  `json:"leadId"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	Budget             int64      `json:"budget"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	ProgressPercentage int        `json:"progressPercentage"`
	AssignedTo         *uuid.UUID `json:"assignedTo,omitempty"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type ProjectListResponse struct {
	Items      []ProjectResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

package repository

import (
	"context"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
}

// LeadWriter provides write operations for the lead lifecycle.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, lostReason *string) (Lead, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) (Lead, error)
	SetScore(ctx context.Context, id uuid.UUID, score int) (Lead, error)
}

// LeadConverter performs the transactional lead-to-project conversion.
type LeadConverter interface {
	Convert(ctx context.Context, params ConvertParams) (ConvertResult, error)
}

// TimelineStore records and reads the lead audit trail.
type TimelineStore interface {
	CreateTimelineEntry(ctx context.Context, params CreateTimelineEntryParams) (TimelineEntry, error)
	ListTimeline(ctx context.Context, leadID uuid.UUID) ([]TimelineEntry, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
// Composed of smaller, focused interfaces for better testability.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	LeadConverter
	TimelineStore
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)

// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new inquiry is stored.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	City       string     `json:"city,omitempty"`
	Source     string     `json:"source,omitempty"`
	Score      int        `json:"score"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadAssigned is published when a lead is assigned to a designer,
// either by the auto selector or manually.
type LeadAssigned struct {
	BaseEvent
	LeadID           uuid.UUID  `json:"leadId"`
	LeadName         string     `json:"leadName"`
	City             string     `json:"city,omitempty"`
	AssigneeID       uuid.UUID  `json:"assigneeId"`
	PreviousAssignee *uuid.UUID `json:"previousAssignee,omitempty"`
	AssignedByID     *uuid.UUID `json:"assignedById,omitempty"`
	Auto             bool       `json:"auto"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// LeadStatusChanged is published on every lifecycle transition.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID  `json:"leadId"`
	OldStatus string     `json:"oldStatus"`
	NewStatus string     `json:"newStatus"`
	Reason    string     `json:"reason,omitempty"`
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status_changed" }

// LeadConverted is published when a lead becomes a project.
type LeadConverted struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	ProjectID     uuid.UUID  `json:"projectId"`
	ProjectTitle  string     `json:"projectTitle"`
	AssigneeID    *uuid.UUID `json:"assigneeId,omitempty"`
	ConvertedByID *uuid.UUID `json:"convertedById,omitempty"`
}

func (e LeadConverted) EventName() string { return "leads.converted" }

// =============================================================================
// Notification Domain Events
// =============================================================================

// NotificationOutboxDue is published by the worker when an outbox record is
// scheduled for delivery.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }

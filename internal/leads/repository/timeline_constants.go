package repository

// ActorType constants identify the category of entity that produced a
// timeline entry.
const (
	ActorTypeUser   = "User"   // Staff member acting through the application
	ActorTypeSystem = "System" // Internal process (auto-assignment, rescore backfill)
	ActorTypeLead   = "Lead"   // The customer acting via the public intake form
)

// System actor names. Human actor names come from the user record.
const (
	ActorNameIntake       = "Intake"
	ActorNameAutoAssigner = "AutoAssigner"
	ActorNameRescorer     = "Rescorer"
)

// EventType constants identify the nature of a timeline entry.
const (
	EventTypeCreated      = "created"
	EventTypeStatusChange = "status_change"
	EventTypeAssignment   = "assignment"
	EventTypeConversion   = "conversion"
	EventTypeScoreUpdate  = "score_update"
	EventTypeDetailUpdate = "detail_update"
)

// EventTitle constants are the labels shown in the timeline UI.
const (
	EventTitleLeadReceived   = "Lead received"
	EventTitleStatusUpdated  = "Status updated"
	EventTitleLeadLost       = "Lead marked lost"
	EventTitleAssigned       = "Designer assigned"
	EventTitleUnassigned     = "Designer unassigned"
	EventTitleConverted      = "Converted to project"
	EventTitleScoreUpdated   = "Score recalculated"
	EventTitleDetailsUpdated = "Details updated"
)

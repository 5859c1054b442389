// Package domain provides core business rules for the leads bounded context.
package domain

// Lead lifecycle statuses. A lead enters the funnel as StatusNew and moves
// forward one step at a time; StatusConverted and StatusLost are terminal.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

var knownStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusConverted: {},
	StatusLost:      {},
}

// IsKnownStatus reports whether status is one of the lifecycle statuses.
func IsKnownStatus(status string) bool {
	_, ok := knownStatuses[status]
	return ok
}

// terminalStatuses are statuses past which no further lifecycle mutation is
// permitted. Administrative overrides, if any, happen outside this engine.
var terminalStatuses = map[string]bool{
	StatusConverted: true,
	StatusLost:      true,
}

// IsTerminalStatus returns true if status is terminal.
func IsTerminalStatus(status string) bool {
	return terminalStatuses[status]
}

// OpenStatuses returns the non-terminal statuses in funnel order. A lead in
// any of these counts toward its assignee's open-lead workload.
func OpenStatuses() []string {
	return []string{StatusNew, StatusContacted, StatusQualified}
}

// allowedTransitions lists the direct successors reachable through a plain
// status update. StatusConverted never appears as a target here: a lead
// becomes converted only through the conversion flow, which creates the
// project and flips the status inside one transaction.
var allowedTransitions = map[string][]string{
	StatusNew:       {StatusContacted, StatusLost},
	StatusContacted: {StatusQualified, StatusLost},
	StatusQualified: {StatusLost},
}

// CanTransition reports whether a plain status update from one status to
// another is legal. Unknown statuses on either side are never legal.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// convertibleStatuses are the statuses a lead may be converted from. Kept as
// an explicit set so conversion enforces its own precondition regardless of
// which handler calls it.
var convertibleStatuses = map[string]bool{
	StatusQualified: true,
}

// CanConvert reports whether a lead in the given status is eligible for
// conversion into a project.
func CanConvert(status string) bool {
	return convertibleStatuses[status]
}

// RequiresLostReason reports whether a transition into the given status must
// carry a non-empty reason.
func RequiresLostReason(to string) bool {
	return to == StatusLost
}

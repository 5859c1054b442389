// Package roles defines the staff role identifiers used across the API.
package roles

const (
	Admin            = "admin"
	ProjectManager   = "project_manager"
	InteriorDesigner = "interior_designer"
)

var known = map[string]struct{}{
	Admin:            {},
	ProjectManager:   {},
	InteriorDesigner: {},
}

// IsKnown reports whether role is one of the defined staff roles.
func IsKnown(role string) bool {
	_, ok := known[role]
	return ok
}

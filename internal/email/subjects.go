package email

const (
	subjectLeadAssignedFmt   = "New lead assigned: %s"
	subjectProjectKickoffFmt = "Project kickoff: %s"
)

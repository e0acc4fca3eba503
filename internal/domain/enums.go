package domain

import "fmt"

type ProposalStatus string

const (
	StatusNotStarted    ProposalStatus = "not_started"
	StatusOngoing       ProposalStatus = "ongoing"
	StatusForRevision   ProposalStatus = "for_revision"
	StatusForApproval   ProposalStatus = "for_approval"
	StatusSubmitted     ProposalStatus = "submitted"
	StatusNoDecisionYet ProposalStatus = "no_decision_yet"
)

// WorkingStatuses returns the five statuses rendered as primary kanban
// columns, in canonical column order. NoDecisionYet is a quarantine lane
// entered explicitly and rendered apart from the working columns.
func WorkingStatuses() []ProposalStatus {
	return []ProposalStatus{
		StatusNotStarted,
		StatusOngoing,
		StatusForRevision,
		StatusForApproval,
		StatusSubmitted,
	}
}

// AllStatuses returns every status, working columns first.
func AllStatuses() []ProposalStatus {
	return append(WorkingStatuses(), StatusNoDecisionYet)
}

// ValidStatuses is the canonical set of accepted proposal status strings.
var ValidStatuses = map[ProposalStatus]bool{
	StatusNotStarted:    true,
	StatusOngoing:       true,
	StatusForRevision:   true,
	StatusForApproval:   true,
	StatusSubmitted:     true,
	StatusNoDecisionYet: true,
}

// ParseStatus converts a status string to a ProposalStatus, accepting both
// the storage form ("for_approval") and the display form ("For Approval").
func ParseStatus(s string) (ProposalStatus, error) {
	normalized := normalizeEnum(s)
	if ValidStatuses[ProposalStatus(normalized)] {
		return ProposalStatus(normalized), nil
	}
	return "", &ValidationError{Field: "status", Value: s, Reason: "unknown status"}
}

// Label returns the human-readable form of a status.
func (s ProposalStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusOngoing:
		return "Ongoing"
	case StatusForRevision:
		return "For Revision"
	case StatusForApproval:
		return "For Approval"
	case StatusSubmitted:
		return "Submitted"
	case StatusNoDecisionYet:
		return "No Decision Yet"
	default:
		return string(s)
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidPriorities is the canonical set of accepted task priority strings.
var ValidPriorities = map[TaskPriority]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// ParsePriority converts a priority string to a TaskPriority.
func ParsePriority(s string) (TaskPriority, error) {
	p := TaskPriority(normalizeEnum(s))
	if ValidPriorities[p] {
		return p, nil
	}
	return "", &ValidationError{Field: "priority", Value: s, Reason: "unknown priority"}
}

type PlacementType string

const (
	PlacementProposal PlacementType = "proposal"
	PlacementTask     PlacementType = "task"
)

type Role string

const (
	RoleSales Role = "SALES"
	RoleDS    Role = "DS"
	RoleSE    Role = "SE"
	RoleAdmin Role = "ADMIN"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{
	RoleSales: true,
	RoleDS:    true,
	RoleSE:    true,
	RoleAdmin: true,
}

// ParseRole converts a role string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(normalizeEnumUpper(s))
	if ValidRoles[r] {
		return r, nil
	}
	return "", &ValidationError{Field: "role", Value: s, Reason: "unknown role"}
}

// ValidationError reports malformed input to an operation. It is always
// raised before any state mutation or backend call.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

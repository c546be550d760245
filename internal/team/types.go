// Package team holds the collaboration state shared by the three
// deliberation roles: the discussion log, the backlog, the active sprint,
// the consensus signal and the waiting-on-user flag.
//
// The package is organised like the rest of the server:
// - types.go: enums and DTOs exchanged over the wire
// - backlog.go: backlog ordering and change summaries
// - state.go: the State aggregate and its per-call Merge
package team

import (
	"fmt"
	"strings"
)

// --- Role enum ---

// Role identifies which team member is speaking.
type Role string

const (
	RoleProjectManager      Role = "projectManager"
	RolePragmaticProgrammer Role = "pragmaticProgrammer"
	RoleProductVisionary    Role = "productVisionary"
)

// roleNames maps each role to its display name.
var roleNames = map[Role]string{
	RoleProjectManager:      "Project Manager",
	RolePragmaticProgrammer: "Pragmatic Programmer",
	RoleProductVisionary:    "Product Visionary",
}

// RoleValues returns the wire values accepted for a role, in display order.
func RoleValues() []string {
	return []string{
		string(RoleProjectManager),
		string(RolePragmaticProgrammer),
		string(RoleProductVisionary),
	}
}

// ValidateRole returns an error if the role is not recognized.
func ValidateRole(r Role) error {
	if _, ok := roleNames[r]; !ok {
		return fmt.Errorf("invalid role %q: must be one of: %s", r, strings.Join(RoleValues(), ", "))
	}
	return nil
}

// String returns the display name ("Project Manager").
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return string(r)
}

// --- Priority enum ---

// Priority ranks backlog items. Lower rank sorts first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRanks = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// PriorityValues returns the wire values accepted for a priority.
func PriorityValues() []string {
	return []string{string(PriorityHigh), string(PriorityMedium), string(PriorityLow)}
}

// ValidatePriority returns an error if the priority is not recognized.
func ValidatePriority(p Priority) error {
	if _, ok := priorityRanks[p]; !ok {
		return fmt.Errorf("invalid priority %q: must be one of: %s", p, strings.Join(PriorityValues(), ", "))
	}
	return nil
}

// Rank returns the sort rank of the priority. Unknown values sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRanks[p]; ok {
		return r
	}
	return len(priorityRanks)
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

// --- Story status enum ---

// StoryStatus tracks delivery progress of a backlog item.
type StoryStatus string

const (
	StatusTodo       StoryStatus = "todo"
	StatusInProgress StoryStatus = "inProgress"
	StatusBlocked    StoryStatus = "blocked"
	StatusDone       StoryStatus = "done"
)

// statusRanks orders active work first and finished work last.
var statusRanks = map[StoryStatus]int{
	StatusInProgress: 0,
	StatusTodo:       1,
	StatusBlocked:    2,
	StatusDone:       3,
}

// StatusValues returns the wire values accepted for a story status.
func StatusValues() []string {
	return []string{
		string(StatusTodo),
		string(StatusInProgress),
		string(StatusBlocked),
		string(StatusDone),
	}
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s StoryStatus) error {
	if _, ok := statusRanks[s]; !ok {
		return fmt.Errorf("invalid status %q: must be one of: %s", s, strings.Join(StatusValues(), ", "))
	}
	return nil
}

// Rank returns the sort rank of the status. Unknown values sort last.
func (s StoryStatus) Rank() int {
	if r, ok := statusRanks[s]; ok {
		return r
	}
	return len(statusRanks)
}

func (s StoryStatus) String() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusBlocked:
		return "Blocked"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// --- Core data structures ---

// DiscussionPoint is one entry in the discussion log.
type DiscussionPoint struct {
	Role   Role   `json:"role"`
	Detail string `json:"detail"`
}

// String renders the point as "Role: detail".
func (p DiscussionPoint) String() string {
	return fmt.Sprintf("%s: %s", p.Role, p.Detail)
}

// BacklogItem is a prioritized unit of work tracked by ID.
type BacklogItem struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Priority Priority    `json:"priority"`
	Status   StoryStatus `json:"status"`
	Owner    *Role       `json:"owner,omitempty"`
	Notes    *string     `json:"notes,omitempty"`
}

// SprintParticipant is a role selected for the sprint with its rationale.
type SprintParticipant struct {
	Role             Role     `json:"role"`
	Reasoning        *string  `json:"reasoning,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// SprintPlan is the committed execution plan. At most one is active.
type SprintPlan struct {
	SprintName        string              `json:"sprintName"`
	Goal              string              `json:"goal"`
	DurationDays      int                 `json:"durationDays"`
	Participants      []SprintParticipant `json:"participants,omitempty"`
	CommittedStoryIDs []string            `json:"committedStoryIds,omitempty"`
	Risks             []string            `json:"risks,omitempty"`
}

// ConsensusUpdate is the incoming replacement for the consensus state.
// ReadyForCodeChanges is a pointer so a missing flag is rejected rather
// than read as false.
type ConsensusUpdate struct {
	ReadyForCodeChanges *bool    `json:"readyForCodeChanges"`
	Blockers            []string `json:"blockers,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
}

// Ready reports the update's readiness flag, false when absent.
func (u ConsensusUpdate) Ready() bool {
	return u.ReadyForCodeChanges != nil && *u.ReadyForCodeChanges
}

// ConsensusState is the team's current readiness signal.
type ConsensusState struct {
	ReadyForCodeChanges bool     `json:"readyForCodeChanges"`
	Blockers            []string `json:"blockers"`
	Notes               *string  `json:"notes,omitempty"`
}

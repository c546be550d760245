package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/deliberate/internal/team"
)

// ErrInvalidParams marks every request rejected before it touches state.
var ErrInvalidParams = errors.New("invalid params")

// ValidationError reports the first constraint a request violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets callers match any validation failure with errors.Is.
func (e *ValidationError) Unwrap() error { return ErrInvalidParams }

func atLeast(field string, value, min int) error {
	if value < min {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be at least %d", field, min)}
	}
	return nil
}

func notBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s cannot be empty", field)}
	}
	return nil
}

func required(field string, present bool) error {
	if !present {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	}
	return nil
}

func enum(field string, err error) error {
	if err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s: %v", field, err)}
	}
	return nil
}

// Validate returns the first violation found in req, or nil. Presence and
// enum checks run first, mirroring a decoder rejection, then the value
// rules in field order.
func Validate(req Request) error {
	checks := []func() error{
		func() error { return required("thought", req.Thought != nil) },
		func() error { return required("nextThoughtNeeded", req.NextThoughtNeeded != nil) },
		func() error {
			if req.ConsensusUpdate == nil {
				return nil
			}
			return required("consensusUpdate.readyForCodeChanges", req.ConsensusUpdate.ReadyForCodeChanges != nil)
		},
		func() error { return validateEnums(req) },
		func() error { return atLeast("thoughtNumber", req.ThoughtNumber, 1) },
		func() error { return atLeast("totalThoughts", req.TotalThoughts, 1) },
		func() error {
			if req.RevisesThought == nil {
				return nil
			}
			return atLeast("revisesThought", *req.RevisesThought, 1)
		},
		func() error {
			if req.BranchFromThought == nil {
				return nil
			}
			return atLeast("branchFromThought", *req.BranchFromThought, 1)
		},
		func() error {
			if req.Role != nil && *req.Role == team.RoleProjectManager && strings.TrimSpace(req.ThoughtText()) == "" {
				return &ValidationError{Field: "thought", Message: "Project manager updates must include a summary thought"}
			}
			return nil
		},
		func() error {
			for _, p := range req.DiscussionPoints {
				if err := notBlank("discussionPoints.detail", p.Detail); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			for _, s := range req.BacklogStories {
				if err := notBlank("backlogStories.id", s.ID); err != nil {
					return err
				}
				if err := notBlank("backlogStories.title", s.Title); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			for _, id := range req.RemoveStoryIDs {
				if err := notBlank("removeStoryIds[]", id); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			plan := req.SprintPlan
			if plan == nil {
				return nil
			}
			if err := notBlank("sprintPlan.sprintName", plan.SprintName); err != nil {
				return err
			}
			if err := notBlank("sprintPlan.goal", plan.Goal); err != nil {
				return err
			}
			return atLeast("sprintPlan.durationDays", plan.DurationDays, 1)
		},
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// validateEnums rejects role, priority and status values outside the
// known wire sets.
func validateEnums(req Request) error {
	if req.Role != nil {
		if err := enum("role", team.ValidateRole(*req.Role)); err != nil {
			return err
		}
	}
	for _, p := range req.DiscussionPoints {
		if err := enum("discussionPoints.role", team.ValidateRole(p.Role)); err != nil {
			return err
		}
	}
	for _, s := range req.BacklogStories {
		if err := enum("backlogStories.priority", team.ValidatePriority(s.Priority)); err != nil {
			return err
		}
		if err := enum("backlogStories.status", team.ValidateStatus(s.Status)); err != nil {
			return err
		}
		if s.Owner != nil {
			if err := enum("backlogStories.owner", team.ValidateRole(*s.Owner)); err != nil {
				return err
			}
		}
	}
	if req.SprintPlan != nil {
		for _, p := range req.SprintPlan.Participants {
			if err := enum("sprintPlan.participants.role", team.ValidateRole(p.Role)); err != nil {
				return err
			}
		}
	}
	return nil
}

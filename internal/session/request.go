// Package session is the aggregate root of a deliberation: it owns the
// thought graph and the team state behind a single lock and exposes one
// entry point, Deliberate.
package session

import (
	"github.com/HendryAvila/deliberate/internal/report"
	"github.com/HendryAvila/deliberate/internal/team"
	"github.com/HendryAvila/deliberate/internal/thoughts"
)

// Request is the decoded payload of one deliberatethinking call.
// Thought and NextThoughtNeeded are pointers so a missing field can be
// told apart from its zero value.
type Request struct {
	Thought           *string `json:"thought"`
	NextThoughtNeeded *bool   `json:"nextThoughtNeeded"`
	ThoughtNumber     int     `json:"thoughtNumber"`
	TotalThoughts     int     `json:"totalThoughts"`
	IsRevision        *bool   `json:"isRevision,omitempty"`
	RevisesThought    *int    `json:"revisesThought,omitempty"`
	BranchFromThought *int    `json:"branchFromThought,omitempty"`
	BranchID          *string `json:"branchId,omitempty"`
	NeedsMoreThoughts *bool   `json:"needsMoreThoughts,omitempty"`

	Role              *team.Role             `json:"role,omitempty"`
	DiscussionPoints  []team.DiscussionPoint `json:"discussionPoints,omitempty"`
	BacklogStories    []team.BacklogItem     `json:"backlogStories,omitempty"`
	RemoveStoryIDs    []string               `json:"removeStoryIds,omitempty"`
	SprintPlan        *team.SprintPlan       `json:"sprintPlan,omitempty"`
	ConsensusUpdate   *team.ConsensusUpdate  `json:"consensusUpdate,omitempty"`
	RequiresUserInput *bool                  `json:"requiresUserInput,omitempty"`
}

// ThoughtText returns the thought body, empty when absent.
func (r Request) ThoughtText() string {
	if r.Thought == nil {
		return ""
	}
	return *r.Thought
}

// record converts the request into the thought graph's record.
func (r Request) record() thoughts.Record {
	rec := thoughts.Record{
		Thought:           r.ThoughtText(),
		Number:            r.ThoughtNumber,
		TotalThoughts:     r.TotalThoughts,
		IsRevision:        r.IsRevision,
		RevisesThought:    r.RevisesThought,
		BranchFromThought: r.BranchFromThought,
		BranchID:          r.BranchID,
		NeedsMoreThoughts: r.NeedsMoreThoughts,
	}
	if r.NextThoughtNeeded != nil {
		rec.NextThoughtNeeded = *r.NextThoughtNeeded
	}
	return rec
}

// update converts the request into the team state's update.
func (r Request) update() team.Update {
	return team.Update{
		Thought:           r.ThoughtText(),
		Role:              r.Role,
		DiscussionPoints:  r.DiscussionPoints,
		BacklogStories:    r.BacklogStories,
		RemoveStoryIDs:    r.RemoveStoryIDs,
		SprintPlan:        r.SprintPlan,
		ConsensusUpdate:   r.ConsensusUpdate,
		RequiresUserInput: r.RequiresUserInput,
	}
}

// Response is the composite result of one call.
type Response struct {
	ThoughtNumber        int           `json:"thoughtNumber"`
	TotalThoughts        int           `json:"totalThoughts"`
	NextThoughtNeeded    bool          `json:"nextThoughtNeeded"`
	Branches             []string      `json:"branches"`
	ThoughtHistoryLength int           `json:"thoughtHistoryLength"`
	PMReport             report.Report `json:"pmReport"`
}

package team

import (
	"slices"
	"strings"
)

// Update is the collaboration slice of an incoming deliberation call.
// Nil pointers and empty slices mean "field absent": the matching state
// is left untouched.
type Update struct {
	Thought           string
	Role              *Role
	DiscussionPoints  []DiscussionPoint
	BacklogStories    []BacklogItem
	RemoveStoryIDs    []string
	SprintPlan        *SprintPlan
	ConsensusUpdate   *ConsensusUpdate
	RequiresUserInput *bool
}

// Delta captures exactly what one Merge changed.
type Delta struct {
	PMSummary           *string
	NewDiscussionPoints []DiscussionPoint
	BacklogChanges      []BacklogChange
	SprintPlan          *SprintPlan
	Consensus           *ConsensusState
	AwaitingUserInput   *bool
}

// State is the running project state. It is not safe for concurrent use;
// the owning session serializes access.
type State struct {
	pmSummaries       []string
	discussionLog     []DiscussionPoint
	backlog           map[string]BacklogItem
	activeSprint      *SprintPlan
	consensus         ConsensusState
	awaitingUserInput bool
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		backlog:   make(map[string]BacklogItem),
		consensus: ConsensusState{Blockers: []string{}},
	}
}

// Merge folds one update into the state and returns the resulting delta.
// Rules run in a fixed order: discussion, narrative promotion, backlog,
// sprint, consensus, waiting flag.
func (s *State) Merge(u Update) Delta {
	var d Delta

	for _, p := range u.DiscussionPoints {
		s.discussionLog = append(s.discussionLog, p)
		d.NewDiscussionPoints = append(d.NewDiscussionPoints, p)
	}

	if u.Role != nil {
		note := strings.TrimSpace(u.Thought)
		switch {
		case note == "":
		case *u.Role == RoleProjectManager:
			s.pmSummaries = append(s.pmSummaries, note)
			d.PMSummary = &note
		case len(d.NewDiscussionPoints) == 0:
			// Explicit discussion points take precedence over the narrative.
			derived := DiscussionPoint{Role: *u.Role, Detail: note}
			s.discussionLog = append(s.discussionLog, derived)
			d.NewDiscussionPoints = append(d.NewDiscussionPoints, derived)
		}
	}

	for _, story := range u.BacklogStories {
		kind := ChangeAdded
		if _, exists := s.backlog[story.ID]; exists {
			kind = ChangeUpdated
		}
		item := cloneItem(story)
		s.backlog[story.ID] = item
		d.BacklogChanges = append(d.BacklogChanges, BacklogChange{Kind: kind, Item: cloneItem(item)})
	}

	for _, id := range u.RemoveStoryIDs {
		removed, ok := s.backlog[id]
		if !ok {
			continue
		}
		delete(s.backlog, id)
		d.BacklogChanges = append(d.BacklogChanges, BacklogChange{Kind: ChangeRemoved, Item: removed})
	}

	if u.SprintPlan != nil {
		s.activeSprint = clonePlan(u.SprintPlan)
		d.SprintPlan = clonePlan(u.SprintPlan)
	}

	if u.ConsensusUpdate != nil {
		s.consensus = ConsensusState{
			ReadyForCodeChanges: u.ConsensusUpdate.Ready(),
			Blockers:            cloneStrings(u.ConsensusUpdate.Blockers),
			Notes:               cloneString(u.ConsensusUpdate.Notes),
		}
		c := s.Consensus()
		d.Consensus = &c
	}

	if u.RequiresUserInput != nil {
		s.awaitingUserInput = *u.RequiresUserInput
		waiting := *u.RequiresUserInput
		d.AwaitingUserInput = &waiting
	}

	return d
}

// --- Read accessors (return copies) ---

// LatestSummary returns the most recent project manager summary.
func (s *State) LatestSummary() (string, bool) {
	if len(s.pmSummaries) == 0 {
		return "", false
	}
	return s.pmSummaries[len(s.pmSummaries)-1], true
}

// Summaries returns every recorded project manager summary, oldest first.
// Never nil.
func (s *State) Summaries() []string {
	return append([]string{}, s.pmSummaries...)
}

// LastDiscussionPoint returns the most recently logged discussion point.
func (s *State) LastDiscussionPoint() (DiscussionPoint, bool) {
	if len(s.discussionLog) == 0 {
		return DiscussionPoint{}, false
	}
	return s.discussionLog[len(s.discussionLog)-1], true
}

// DiscussionLog returns the full discussion log, oldest first. Never nil.
func (s *State) DiscussionLog() []DiscussionPoint {
	return append([]DiscussionPoint{}, s.discussionLog...)
}

// Backlog returns the complete backlog in snapshot order. Never nil.
func (s *State) Backlog() []BacklogItem {
	items := make([]BacklogItem, 0, len(s.backlog))
	for _, item := range s.backlog {
		items = append(items, cloneItem(item))
	}
	return OrderBacklog(items)
}

// ActiveSprint returns the active sprint plan, or nil if none was set.
func (s *State) ActiveSprint() *SprintPlan {
	return clonePlan(s.activeSprint)
}

// Consensus returns the stored consensus state.
func (s *State) Consensus() ConsensusState {
	return ConsensusState{
		ReadyForCodeChanges: s.consensus.ReadyForCodeChanges,
		Blockers:            cloneStrings(s.consensus.Blockers),
		Notes:               cloneString(s.consensus.Notes),
	}
}

// AwaitingUserInput reports whether the team is waiting on the user.
func (s *State) AwaitingUserInput() bool {
	return s.awaitingUserInput
}

// --- Copy helpers ---

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

func cloneString(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneItem(in BacklogItem) BacklogItem {
	out := in
	out.Notes = cloneString(in.Notes)
	if in.Owner != nil {
		owner := *in.Owner
		out.Owner = &owner
	}
	return out
}

func clonePlan(in *SprintPlan) *SprintPlan {
	if in == nil {
		return nil
	}
	out := *in
	out.CommittedStoryIDs = slices.Clone(in.CommittedStoryIDs)
	out.Risks = slices.Clone(in.Risks)
	if in.Participants != nil {
		out.Participants = make([]SprintParticipant, len(in.Participants))
		for i, p := range in.Participants {
			out.Participants[i] = SprintParticipant{
				Role:             p.Role,
				Reasoning:        cloneString(p.Reasoning),
				Responsibilities: slices.Clone(p.Responsibilities),
			}
		}
	}
	return &out
}

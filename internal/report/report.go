// Package report renders the project manager report returned on every
// deliberation call.
//
// The report is a pure function of the persisted team state and the delta
// produced by the current call. Each bullet is a facet evaluated through the
// same chain: this call's delta, then the latest persisted value, then an
// explicit placeholder.
package report

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/deliberate/internal/team"
)

// View is the read side of team.State the report needs.
type View interface {
	LatestSummary() (string, bool)
	LastDiscussionPoint() (team.DiscussionPoint, bool)
	Backlog() []team.BacklogItem
	ActiveSprint() *team.SprintPlan
	Consensus() team.ConsensusState
	AwaitingUserInput() bool
}

// Report is the structured project manager report.
type Report struct {
	Bullets             []string               `json:"bullets"`
	PMSummary           *string                `json:"pmSummary,omitempty"`
	NewDiscussionPoints []team.DiscussionPoint `json:"newDiscussionPoints,omitempty"`
	BacklogSnapshot     []team.BacklogItem     `json:"backlogSnapshot"`
	ActiveSprint        *team.SprintPlan       `json:"activeSprint,omitempty"`
	Consensus           team.ConsensusState    `json:"consensus"`
	WaitingOnUser       bool                   `json:"waitingOnUser"`
}

// focusSize is how many backlog items the focus bullet highlights.
const focusSize = 3

// input bundles what every facet reads.
type input struct {
	view    View
	delta   team.Delta
	backlog []team.BacklogItem
}

// facet is one bullet: delta first, persisted state second, placeholder last.
type facet struct {
	fromDelta   func(in *input) (string, bool)
	fromState   func(in *input) (string, bool)
	placeholder string
}

func (f facet) render(in *input) string {
	if line, ok := f.fromDelta(in); ok {
		return line
	}
	if line, ok := f.fromState(in); ok {
		return line
	}
	return f.placeholder
}

// facets lists the fallback bullets in report order.
var facets = []facet{
	{
		fromDelta: func(in *input) (string, bool) {
			if in.delta.PMSummary == nil {
				return "", false
			}
			return "PM summary: " + *in.delta.PMSummary, true
		},
		fromState: func(in *input) (string, bool) {
			s, ok := in.view.LatestSummary()
			return "PM summary: " + s, ok
		},
		placeholder: "PM summary: No project manager summary provided yet",
	},
	{
		fromDelta: func(in *input) (string, bool) {
			if len(in.delta.NewDiscussionPoints) == 0 {
				return "", false
			}
			return "Discussion points: " + joinPoints(in.delta.NewDiscussionPoints), true
		},
		fromState: func(in *input) (string, bool) {
			p, ok := in.view.LastDiscussionPoint()
			return "Discussion points: " + p.String(), ok
		},
		placeholder: "Discussion points: none recorded yet",
	},
	{
		fromDelta: func(in *input) (string, bool) {
			if len(in.delta.BacklogChanges) == 0 {
				return "", false
			}
			changes := make([]string, len(in.delta.BacklogChanges))
			for i, c := range in.delta.BacklogChanges {
				changes[i] = c.Summary()
			}
			return "Backlog updates: " + strings.Join(changes, "; "), true
		},
		fromState: func(in *input) (string, bool) {
			if len(in.backlog) == 0 {
				return "", false
			}
			top := in.backlog[:min(focusSize, len(in.backlog))]
			highlights := make([]string, len(top))
			for i, item := range top {
				highlights[i] = item.Highlight()
			}
			return "Backlog focus: " + strings.Join(highlights, "; "), true
		},
		placeholder: "Backlog updates: backlog is empty",
	},
	{
		fromDelta: func(in *input) (string, bool) {
			if in.delta.SprintPlan == nil {
				return "", false
			}
			return sprintLine(in.delta.SprintPlan), true
		},
		fromState: func(in *input) (string, bool) {
			plan := in.view.ActiveSprint()
			if plan == nil {
				return "", false
			}
			return sprintLine(plan), true
		},
		placeholder: "Sprint plan: not yet defined",
	},
}

// Generate renders the report for the current state and this call's delta.
func Generate(view View, delta team.Delta) Report {
	in := &input{view: view, delta: delta, backlog: view.Backlog()}

	bullets := make([]string, 0, len(facets)+1)
	for _, f := range facets {
		bullets = append(bullets, f.render(in))
	}

	consensus := view.Consensus()
	if delta.Consensus != nil {
		consensus = *delta.Consensus
	}
	waiting := view.AwaitingUserInput()
	if delta.AwaitingUserInput != nil {
		waiting = *delta.AwaitingUserInput
	}
	bullets = append(bullets, consensusLine(consensus, waiting))

	r := Report{
		Bullets:             bullets,
		NewDiscussionPoints: delta.NewDiscussionPoints,
		BacklogSnapshot:     in.backlog,
		ActiveSprint:        view.ActiveSprint(),
		Consensus:           consensus,
		WaitingOnUser:       waiting,
	}
	if delta.PMSummary != nil {
		s := *delta.PMSummary
		r.PMSummary = &s
	} else if s, ok := view.LatestSummary(); ok {
		r.PMSummary = &s
	}
	if delta.SprintPlan != nil {
		r.ActiveSprint = delta.SprintPlan
	}
	if r.BacklogSnapshot == nil {
		r.BacklogSnapshot = []team.BacklogItem{}
	}
	return r
}

// --- Line renderers ---

func joinPoints(points []team.DiscussionPoint) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}

func sprintLine(plan *team.SprintPlan) string {
	stories := "no stories committed"
	if len(plan.CommittedStoryIDs) > 0 {
		stories = strings.Join(plan.CommittedStoryIDs, ", ")
	}

	participants := "no participants selected"
	if len(plan.Participants) > 0 {
		parts := make([]string, len(plan.Participants))
		for i, p := range plan.Participants {
			parts[i] = participantLine(p)
		}
		participants = strings.Join(parts, "; ")
	}

	return fmt.Sprintf("Sprint plan: %s goal '%s' lasting %d day(s); stories %s; participants %s",
		plan.SprintName, plan.Goal, plan.DurationDays, stories, participants)
}

func participantLine(p team.SprintParticipant) string {
	var b strings.Builder
	b.WriteString(p.Role.String())
	if p.Reasoning != nil && strings.TrimSpace(*p.Reasoning) != "" {
		fmt.Fprintf(&b, " (%s)", *p.Reasoning)
	}
	if len(p.Responsibilities) > 0 {
		fmt.Fprintf(&b, " - %s", strings.Join(p.Responsibilities, ", "))
	}
	return b.String()
}

func consensusLine(c team.ConsensusState, waiting bool) string {
	blockers := "none"
	if len(c.Blockers) > 0 {
		blockers = strings.Join(c.Blockers, "; ")
	}
	notes := "no additional notes"
	if c.Notes != nil && strings.TrimSpace(*c.Notes) != "" {
		notes = *c.Notes
	}
	return fmt.Sprintf("Consensus: ready_for_code_change=%s blockers %s notes %s waiting_on_user=%s",
		yesNo(c.ReadyForCodeChanges), blockers, notes, yesNo(waiting))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

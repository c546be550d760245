package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/deliberate/internal/team"
)

// --- Helpers ---

func rolePtr(r team.Role) *team.Role { return &r }
func strPtr(s string) *string        { return &s }
func boolPtr(b bool) *bool           { return &b }

func item(id string, p team.Priority, s team.StoryStatus) team.BacklogItem {
	return team.BacklogItem{ID: id, Title: "title " + id, Priority: p, Status: s}
}

// merge applies u to s and renders the report, the way the session does.
func merge(s *team.State, u team.Update) Report {
	return Generate(s, s.Merge(u))
}

// --- Placeholders ---

func TestGenerate_EmptyStatePlaceholders(t *testing.T) {
	r := merge(team.NewState(), team.Update{Thought: "hello"})

	require.Len(t, r.Bullets, 5)
	assert.Equal(t, "PM summary: No project manager summary provided yet", r.Bullets[0])
	assert.Equal(t, "Discussion points: none recorded yet", r.Bullets[1])
	assert.Equal(t, "Backlog updates: backlog is empty", r.Bullets[2])
	assert.Equal(t, "Sprint plan: not yet defined", r.Bullets[3])
	assert.Equal(t, "Consensus: ready_for_code_change=no blockers none notes no additional notes waiting_on_user=no", r.Bullets[4])

	assert.Nil(t, r.PMSummary)
	assert.NotNil(t, r.BacklogSnapshot)
	assert.Empty(t, r.BacklogSnapshot)
	assert.Nil(t, r.ActiveSprint)
	assert.False(t, r.WaitingOnUser)
}

// --- PM summary facet ---

func TestGenerate_PMSummaryFromDeltaThenState(t *testing.T) {
	s := team.NewState()

	r1 := merge(s, team.Update{Thought: "kickoff", Role: rolePtr(team.RoleProjectManager)})
	require.NotNil(t, r1.PMSummary)
	assert.Equal(t, "kickoff", *r1.PMSummary)
	assert.Equal(t, "PM summary: kickoff", r1.Bullets[0])

	r2 := merge(s, team.Update{Thought: "engineering view", Role: rolePtr(team.RolePragmaticProgrammer)})
	require.NotNil(t, r2.PMSummary)
	assert.Equal(t, "kickoff", *r2.PMSummary, "falls back to the latest persisted summary")
	assert.Equal(t, "PM summary: kickoff", r2.Bullets[0])
}

// --- Discussion facet ---

func TestGenerate_DiscussionFromDeltaThenLastLogged(t *testing.T) {
	s := team.NewState()

	r1 := merge(s, team.Update{DiscussionPoints: []team.DiscussionPoint{
		{Role: team.RolePragmaticProgrammer, Detail: "use sqlite"},
		{Role: team.RoleProductVisionary, Detail: "mobile later"},
	}})
	assert.Equal(t, "Discussion points: Pragmatic Programmer: use sqlite; Product Visionary: mobile later", r1.Bullets[1])
	assert.Len(t, r1.NewDiscussionPoints, 2)

	r2 := merge(s, team.Update{Thought: "nothing new"})
	assert.Equal(t, "Discussion points: Product Visionary: mobile later", r2.Bullets[1])
	assert.Empty(t, r2.NewDiscussionPoints)
}

// --- Backlog facet ---

func TestGenerate_BacklogChangesThenFocus(t *testing.T) {
	s := team.NewState()

	r1 := merge(s, team.Update{BacklogStories: []team.BacklogItem{
		item("D", team.PriorityLow, team.StatusTodo),
		item("A", team.PriorityHigh, team.StatusTodo),
		item("C", team.PriorityHigh, team.StatusInProgress),
		item("B", team.PriorityMedium, team.StatusDone),
	}})
	assert.Equal(t,
		"Backlog updates: Added D [Low | To Do]; Added A [High | To Do]; Added C [High | In Progress]; Added B [Medium | Done]",
		r1.Bullets[2])

	r2 := merge(s, team.Update{Thought: "no backlog change"})
	assert.Equal(t, "Backlog focus: C [High | In Progress]; A [High | To Do]; B [Medium | Done]", r2.Bullets[2])

	ids := make([]string, len(r2.BacklogSnapshot))
	for i, it := range r2.BacklogSnapshot {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"C", "A", "B", "D"}, ids, "snapshot is the full ordered backlog")
}

func TestGenerate_BacklogRemovalBullet(t *testing.T) {
	s := team.NewState()
	merge(s, team.Update{BacklogStories: []team.BacklogItem{
		{ID: "A", Title: "Add login", Priority: team.PriorityHigh, Status: team.StatusTodo},
	}})

	r := merge(s, team.Update{RemoveStoryIDs: []string{"A"}})

	assert.Equal(t, "Backlog updates: Removed A (Add login)", r.Bullets[2])
	assert.Empty(t, r.BacklogSnapshot)
}

// --- Sprint facet ---

func TestGenerate_SprintLine(t *testing.T) {
	s := team.NewState()
	plan := &team.SprintPlan{
		SprintName:   "Sprint 1",
		Goal:         "Ship auth",
		DurationDays: 10,
		Participants: []team.SprintParticipant{
			{Role: team.RolePragmaticProgrammer, Reasoning: strPtr("owns backend"), Responsibilities: []string{"API", "DB"}},
			{Role: team.RoleProductVisionary, Reasoning: strPtr("  ")},
		},
		CommittedStoryIDs: []string{"A", "B"},
	}

	r := merge(s, team.Update{SprintPlan: plan})

	assert.Equal(t,
		"Sprint plan: Sprint 1 goal 'Ship auth' lasting 10 day(s); stories A, B; participants Pragmatic Programmer (owns backend) - API, DB; Product Visionary",
		r.Bullets[3])
	require.NotNil(t, r.ActiveSprint)
	assert.Equal(t, "Sprint 1", r.ActiveSprint.SprintName)

	r2 := merge(s, team.Update{Thought: "later"})
	assert.Equal(t, r.Bullets[3], r2.Bullets[3], "persisted plan renders the same line")
}

func TestGenerate_SprintLineEmptyLists(t *testing.T) {
	s := team.NewState()
	r := merge(s, team.Update{SprintPlan: &team.SprintPlan{SprintName: "S", Goal: "g", DurationDays: 1}})
	assert.Equal(t, "Sprint plan: S goal 'g' lasting 1 day(s); stories no stories committed; participants no participants selected", r.Bullets[3])
}

// --- Consensus line ---

func TestGenerate_ConsensusLine(t *testing.T) {
	s := team.NewState()

	r1 := merge(s, team.Update{
		ConsensusUpdate: &team.ConsensusUpdate{
			ReadyForCodeChanges: boolPtr(false),
			Blockers:            []string{"need API keys", "legal review"},
			Notes:               strPtr("ping legal"),
		},
		RequiresUserInput: boolPtr(true),
	})
	assert.Equal(t, "Consensus: ready_for_code_change=no blockers need API keys; legal review notes ping legal waiting_on_user=yes", r1.Bullets[4])
	assert.True(t, r1.WaitingOnUser)

	r2 := merge(s, team.Update{ConsensusUpdate: &team.ConsensusUpdate{ReadyForCodeChanges: boolPtr(true), Notes: strPtr(" ")}})
	assert.Equal(t, "Consensus: ready_for_code_change=yes blockers none notes no additional notes waiting_on_user=yes", r2.Bullets[4])
	assert.Empty(t, r2.Consensus.Blockers)
}

// --- Fallback chain ---

// stubView lets a test control persisted values independently of a delta.
type stubView struct {
	summary string
}

func (v stubView) LatestSummary() (string, bool) { return v.summary, v.summary != "" }
func (stubView) LastDiscussionPoint() (team.DiscussionPoint, bool) {
	return team.DiscussionPoint{}, false
}
func (stubView) Backlog() []team.BacklogItem    { return nil }
func (stubView) ActiveSprint() *team.SprintPlan { return nil }
func (stubView) Consensus() team.ConsensusState { return team.ConsensusState{Blockers: []string{}} }
func (stubView) AwaitingUserInput() bool        { return false }

func TestGenerate_DeltaBeatsPersisted(t *testing.T) {
	r := Generate(stubView{summary: "old"}, team.Delta{PMSummary: strPtr("new")})
	assert.Equal(t, "PM summary: new", r.Bullets[0])
	require.NotNil(t, r.PMSummary)
	assert.Equal(t, "new", *r.PMSummary)
}

func TestGenerate_NilBacklogBecomesEmptySnapshot(t *testing.T) {
	r := Generate(stubView{}, team.Delta{})
	assert.NotNil(t, r.BacklogSnapshot)
	assert.Empty(t, r.BacklogSnapshot)
}

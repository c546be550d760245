package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/HendryAvila/deliberate/internal/report"
	"github.com/HendryAvila/deliberate/internal/team"
	"github.com/HendryAvila/deliberate/internal/thoughts"
)

// Session serializes every deliberation call against one thought graph
// and one team state. Create it with New; the zero value is not usable.
type Session struct {
	id string

	mu    sync.Mutex
	graph *thoughts.Graph
	team  *team.State
	calls int
}

// New returns an empty session with a fresh random ID.
func New() *Session {
	return &Session{
		id:    uuid.NewString(),
		graph: thoughts.NewGraph(),
		team:  team.NewState(),
	}
}

// ID identifies the session in journal rows and the status resource.
func (s *Session) ID() string { return s.id }

// Deliberate validates req, merges it into the team state, applies it to
// the thought graph and renders the report. A request that fails
// validation leaves the session untouched and returns an error wrapping
// ErrInvalidParams. The context is accepted for the transport; the call
// never blocks on it.
func (s *Session) Deliberate(_ context.Context, req Request) (Response, error) {
	if err := Validate(req); err != nil {
		return Response{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delta := s.team.Merge(req.update())
	rec := req.record()
	s.graph.Apply(rec)
	pm := report.Generate(s.team, delta)
	s.calls++

	return Response{
		ThoughtNumber:        rec.Number,
		TotalThoughts:        rec.TotalThoughts,
		NextThoughtNeeded:    rec.NextThoughtNeeded,
		Branches:             s.graph.Branches(),
		ThoughtHistoryLength: s.graph.Len(),
		PMReport:             pm,
	}, nil
}

// Status is a read-only snapshot of the session.
type Status struct {
	SessionID            string                 `json:"sessionId"`
	Calls                int                    `json:"calls"`
	ActiveContext        string                 `json:"activeContext"`
	MainLineLength       int                    `json:"mainLineLength"`
	ThoughtHistoryLength int                    `json:"thoughtHistoryLength"`
	Branches             map[string]int         `json:"branches"`
	PMSummary            *string                `json:"pmSummary,omitempty"`
	PMSummaries          []string               `json:"pmSummaries"`
	DiscussionLog        []team.DiscussionPoint `json:"discussionLog"`
	Backlog              []team.BacklogItem     `json:"backlog"`
	ActiveSprint         *team.SprintPlan       `json:"activeSprint,omitempty"`
	Consensus            team.ConsensusState    `json:"consensus"`
	WaitingOnUser        bool                   `json:"waitingOnUser"`
}

// Snapshot returns the current status, taken under the session lock.
func (s *Session) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		SessionID:            s.id,
		Calls:                s.calls,
		ActiveContext:        s.graph.Active().String(),
		MainLineLength:       s.graph.MainLineLen(),
		ThoughtHistoryLength: s.graph.Len(),
		Branches:             s.graph.BranchLengths(),
		PMSummaries:          s.team.Summaries(),
		DiscussionLog:        s.team.DiscussionLog(),
		Backlog:              s.team.Backlog(),
		ActiveSprint:         s.team.ActiveSprint(),
		Consensus:            s.team.Consensus(),
		WaitingOnUser:        s.team.AwaitingUserInput(),
	}
	if summary, ok := s.team.LatestSummary(); ok {
		st.PMSummary = &summary
	}
	return st
}

// History returns a copy of the active context's thoughts.
func (s *Session) History() []thoughts.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.History()
}

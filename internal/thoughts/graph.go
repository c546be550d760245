// Package thoughts owns the thought history of a deliberation: the main
// line plus any number of named branches forked from it.
//
// Branches are copy-on-fork slices: a branch starts as a copy of the main
// line up to its fork origin and grows independently afterwards.
package thoughts

import (
	"slices"
	"sort"
)

// Record is one submitted reasoning step.
type Record struct {
	Thought           string  `json:"thought"`
	Number            int     `json:"thoughtNumber"`
	TotalThoughts     int     `json:"totalThoughts"`
	NextThoughtNeeded bool    `json:"nextThoughtNeeded"`
	IsRevision        *bool   `json:"isRevision,omitempty"`
	RevisesThought    *int    `json:"revisesThought,omitempty"`
	BranchFromThought *int    `json:"branchFromThought,omitempty"`
	BranchID          *string `json:"branchId,omitempty"`
	NeedsMoreThoughts *bool   `json:"needsMoreThoughts,omitempty"`
}

// --- Active context ---

// ContextKind says whether the active context is the main line or a branch.
type ContextKind int

const (
	OnMainLine ContextKind = iota
	OnBranch
)

// Context is the sticky target of append and revise operations.
type Context struct {
	Kind   ContextKind
	Branch string
}

// MainLine is the context every graph starts in.
func MainLine() Context { return Context{Kind: OnMainLine} }

// Branch returns the context for the named branch.
func Branch(name string) Context { return Context{Kind: OnBranch, Branch: name} }

func (c Context) String() string {
	if c.Kind == OnBranch {
		return "branch:" + c.Branch
	}
	return "main"
}

// --- Operations ---

// Operation names the call shape Apply selected.
type Operation string

const (
	OpFork   Operation = "fork"
	OpRevise Operation = "revise"
	OpAppend Operation = "append"
)

// Classify picks the call shape for a record. Fork wins over a revision
// target supplied in the same call.
func Classify(r Record) Operation {
	switch {
	case r.BranchFromThought != nil && r.BranchID != nil:
		return OpFork
	case r.RevisesThought != nil:
		return OpRevise
	default:
		return OpAppend
	}
}

// Graph is the thought history. It is not safe for concurrent use.
type Graph struct {
	main     []Record
	branches map[string][]Record
	active   Context
}

// NewGraph returns an empty graph positioned on the main line.
func NewGraph() *Graph {
	return &Graph{
		branches: make(map[string][]Record),
		active:   MainLine(),
	}
}

// Apply records r according to its call shape and returns the shape used.
func (g *Graph) Apply(r Record) Operation {
	op := Classify(r)
	switch op {
	case OpFork:
		g.fork(*r.BranchFromThought, *r.BranchID, r)
	case OpRevise:
		g.revise(*r.RevisesThought, r)
	default:
		g.append(r)
	}
	return op
}

// fork creates the branch from the main-line prefix on first reference,
// appends r to it and makes it active. An existing branch is never
// re-derived from the main line.
func (g *Graph) fork(origin int, name string, r Record) {
	if _, ok := g.branches[name]; !ok {
		base := make([]Record, 0, len(g.main)+1)
		for _, rec := range g.main {
			if rec.Number > origin {
				break
			}
			base = append(base, rec)
		}
		g.branches[name] = base
	}
	g.branches[name] = append(g.branches[name], r)
	g.active = Branch(name)
}

// revise replaces the first record in the active context numbered target,
// or appends r to that context when none matches.
func (g *Graph) revise(target int, r Record) {
	history := g.history()
	for i := range history {
		if history[i].Number == target {
			history[i] = r
			return
		}
	}
	g.append(r)
}

func (g *Graph) append(r Record) {
	if g.active.Kind == OnBranch {
		g.branches[g.active.Branch] = append(g.branches[g.active.Branch], r)
		return
	}
	g.main = append(g.main, r)
}

// history returns the live slice backing the active context.
func (g *Graph) history() []Record {
	if g.active.Kind == OnBranch {
		if b, ok := g.branches[g.active.Branch]; ok {
			return b
		}
	}
	return g.main
}

// --- Queries ---

// Len returns the length of the active context.
func (g *Graph) Len() int {
	return len(g.history())
}

// Active returns the active context.
func (g *Graph) Active() Context {
	return g.active
}

// Branches returns the names of every branch ever created, sorted.
func (g *Graph) Branches() []string {
	names := make([]string, 0, len(g.branches))
	for name := range g.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// History returns a copy of the active context.
func (g *Graph) History() []Record {
	return slices.Clone(g.history())
}

// MainLineLen returns the length of the main line.
func (g *Graph) MainLineLen() int {
	return len(g.main)
}

// MainLineHistory returns a copy of the main line.
func (g *Graph) MainLineHistory() []Record {
	return slices.Clone(g.main)
}

// BranchHistory returns a copy of the named branch.
func (g *Graph) BranchHistory(name string) ([]Record, bool) {
	b, ok := g.branches[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(b), true
}

// BranchLengths returns the length of every branch keyed by name.
func (g *Graph) BranchLengths() map[string]int {
	out := make(map[string]int, len(g.branches))
	for name, b := range g.branches {
		out[name] = len(b)
	}
	return out
}

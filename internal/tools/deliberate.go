package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/deliberate/internal/journal"
	"github.com/HendryAvila/deliberate/internal/session"
	"github.com/HendryAvila/deliberate/internal/team"
)

// ToolName is the registered name of the deliberation tool.
const ToolName = "deliberatethinking"

// marshalResponse is a package-level var to allow test injection.
var marshalResponse = json.Marshal

// Journal records successful calls. It is optional.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) (int64, error)
}

// DeliberateTool handles the deliberatethinking MCP tool.
// It decodes the call, hands it to the session and returns the composite
// response as JSON text.
type DeliberateTool struct {
	session *session.Session
	logger  *zap.Logger
	journal Journal
}

// NewDeliberateTool creates a DeliberateTool bound to one session.
func NewDeliberateTool(s *session.Session, logger *zap.Logger) *DeliberateTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliberateTool{session: s, logger: logger}
}

// SetJournal attaches a transcript journal. Passing nil disables it.
func (t *DeliberateTool) SetJournal(j Journal) {
	t.journal = j
}

const toolDescription = `A detailed tool for dynamic and reflective problem-solving through thoughts.
This tool helps analyze problems through a flexible thinking process that can adapt and evolve.
Each thought can build on, question, or revise previous insights as understanding deepens.

When to use this tool:
- Breaking down complex problems into steps
- Planning and design with room for revision
- Analysis that might need course correction
- Problems where the full scope might not be clear initially
- Problems that require a multi-step solution
- Tasks that need to maintain context over multiple steps
- Situations where irrelevant information needs to be filtered out

Key features:
- You can adjust total_thoughts up or down as you progress
- You can question or revise previous thoughts
- You can add more thoughts even after reaching what seemed like the end
- You can express uncertainty and explore alternative approaches
- Not every thought needs to build linearly - you can branch or backtrack
- Generates a solution hypothesis
- Verifies the hypothesis based on the Chain of Thought steps
- Repeats the process until satisfied
- Provides a correct answer

Team collaboration: a project manager, a pragmatic programmer and a product visionary
can attach discussion points, backlog stories, a sprint plan and a consensus update.
Every call returns a project manager report summarising the team state.`

// Definition returns the MCP tool definition for registration.
func (t *DeliberateTool) Definition() mcp.Tool {
	roleSchema := map[string]any{
		"type": "string",
		"enum": team.RoleValues(),
	}

	return mcp.NewTool(ToolName,
		mcp.WithDescription(toolDescription),
		mcp.WithString("thought",
			mcp.Required(),
			mcp.Description("Current thinking step"),
		),
		mcp.WithBoolean("nextThoughtNeeded",
			mcp.Required(),
			mcp.Description("Whether another thought step is needed"),
		),
		mcp.WithNumber("thoughtNumber",
			integer(),
			mcp.Required(),
			mcp.Min(1),
			mcp.Description("Current thought number (minimum 1)"),
		),
		mcp.WithNumber("totalThoughts",
			integer(),
			mcp.Required(),
			mcp.Min(1),
			mcp.Description("Estimated total thoughts needed (minimum 1)"),
		),
		mcp.WithBoolean("isRevision",
			mcp.Description("Whether this revises previous thinking"),
		),
		mcp.WithNumber("revisesThought",
			integer(),
			mcp.Min(1),
			mcp.Description("Which thought number is being reconsidered"),
		),
		mcp.WithNumber("branchFromThought",
			integer(),
			mcp.Min(1),
			mcp.Description("Branching point thought number"),
		),
		mcp.WithString("branchId",
			mcp.Description("Branch identifier"),
		),
		mcp.WithBoolean("needsMoreThoughts",
			mcp.Description("If more thoughts are needed"),
		),
		mcp.WithString("role",
			mcp.Enum(team.RoleValues()...),
			mcp.Description("Team role submitting this update"),
		),
		mcp.WithArray("discussionPoints",
			mcp.Description("Key discussion points raised during this iteration"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"role":   withDescription(roleSchema, "Team role that raised this point"),
					"detail": map[string]any{"type": "string", "description": "Summary of the discussion item"},
				},
				"required": []string{"role", "detail"},
			}),
		),
		mcp.WithArray("backlogStories",
			mcp.Description("Backlog stories to add or update"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "description": "Unique identifier for the story"},
					"title": map[string]any{"type": "string", "description": "User story title or summary"},
					"priority": map[string]any{
						"type": "string", "enum": team.PriorityValues(), "description": "Priority for the story",
					},
					"status": map[string]any{
						"type": "string", "enum": team.StatusValues(), "description": "Current delivery status",
					},
					"owner": withDescription(roleSchema, "Team role currently accountable for the story"),
					"notes": map[string]any{"type": "string", "description": "Additional implementation notes"},
				},
				"required": []string{"id", "title", "priority", "status"},
			}),
		),
		mcp.WithArray("removeStoryIds",
			mcp.Description("Backlog story identifiers slated for removal"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithObject("sprintPlan",
			mcp.Description("Sprint plan proposal from the project manager"),
			mcp.Properties(map[string]any{
				"sprintName":   map[string]any{"type": "string", "description": "Sprint name or identifier"},
				"goal":         map[string]any{"type": "string", "description": "Goal for the sprint"},
				"durationDays": map[string]any{"type": "integer", "minimum": 1, "description": "Planned duration of the sprint in days"},
				"participants": map[string]any{
					"type":        "array",
					"description": "Participants for the sprint with rationale",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"role":      withDescription(roleSchema, "Role assigned to this sprint"),
							"reasoning": map[string]any{"type": "string", "description": "Reason this role is included in the sprint"},
							"responsibilities": map[string]any{
								"type": "array", "items": map[string]any{"type": "string"},
								"description": "Key responsibilities for this role",
							},
						},
						"required": []string{"role"},
					},
				},
				"committedStoryIds": map[string]any{
					"type": "array", "items": map[string]any{"type": "string"},
					"description": "Backlog stories committed to this sprint",
				},
				"risks": map[string]any{
					"type": "array", "items": map[string]any{"type": "string"},
					"description": "Known risks tracked by the project manager",
				},
			}),
		),
		mcp.WithObject("consensusUpdate",
			mcp.Description("Consensus status update for the iteration"),
			mcp.Properties(map[string]any{
				"readyForCodeChanges": map[string]any{"type": "boolean", "description": "Whether the team agrees code changes are ready"},
				"blockers": map[string]any{
					"type": "array", "items": map[string]any{"type": "string"},
					"description": "Outstanding blockers identified by the team",
				},
				"notes": map[string]any{"type": "string", "description": "Additional notes from the project manager"},
			}),
			requiredProperties("readyForCodeChanges"),
		),
		mcp.WithBoolean("requiresUserInput",
			mcp.Description("Whether the team needs user input before proceeding"),
		),
	)
}

// integer narrows a number argument to whole numbers.
func integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// requiredProperties lists the nested fields an object argument must carry.
func requiredProperties(names ...string) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["required"] = names
	}
}

// withDescription copies a schema and sets its description.
func withDescription(schema map[string]any, desc string) map[string]any {
	out := maps.Clone(schema)
	out["description"] = desc
	return out
}

// Handle processes the deliberatethinking tool call.
func (t *DeliberateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in session.Request
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid params: %v", err)), nil
	}

	resp, err := t.session.Deliberate(ctx, in)
	if err != nil {
		if errors.Is(err, session.ErrInvalidParams) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid params: %v", err)), nil
		}
		return nil, fmt.Errorf("deliberating: %w", err)
	}

	data, err := marshalResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize response: %w", err)
	}

	t.logStep(in)
	t.record(ctx, in, resp)

	return mcp.NewToolResultText(string(data)), nil
}

// logStep emits one line per call plus a line per collaboration signal.
func (t *DeliberateTool) logStep(r session.Request) {
	log := t.logger.With(
		zap.Int("thought_number", r.ThoughtNumber),
		zap.Int("total_thoughts", r.TotalThoughts),
	)
	log.Info("deliberate thinking step", zap.String("thought", r.ThoughtText()))

	if r.BranchID != nil {
		log.Info("branch", zap.String("branch_id", *r.BranchID))
	}
	if r.Role != nil {
		log.Info("team role", zap.Stringer("role", *r.Role))
	}
	if r.IsRevision != nil && *r.IsRevision && r.RevisesThought != nil {
		log.Info("revision", zap.Int("revises_thought", *r.RevisesThought))
	}
	if len(r.DiscussionPoints) > 0 {
		points := make([]string, len(r.DiscussionPoints))
		for i, p := range r.DiscussionPoints {
			points[i] = p.String()
		}
		log.Info("discussion points", zap.Strings("points", points))
	}
	if len(r.BacklogStories) > 0 || len(r.RemoveStoryIDs) > 0 {
		log.Info("backlog updates",
			zap.Int("add_update", len(r.BacklogStories)),
			zap.Int("remove", len(r.RemoveStoryIDs)),
		)
	}
	if r.SprintPlan != nil {
		log.Info("sprint plan proposal included", zap.String("sprint", r.SprintPlan.SprintName))
	}
	if r.ConsensusUpdate != nil {
		log.Info("consensus update",
			zap.Bool("ready_for_code_changes", r.ConsensusUpdate.Ready()),
			zap.Int("blockers", len(r.ConsensusUpdate.Blockers)),
		)
	}
	if r.RequiresUserInput != nil {
		log.Info("waiting on user input", zap.Bool("waiting", *r.RequiresUserInput))
	}
}

// record writes the call to the journal, if any. Failures are logged and
// never fail the call.
func (t *DeliberateTool) record(ctx context.Context, r session.Request, resp session.Response) {
	if t.journal == nil {
		return
	}

	var role *string
	if r.Role != nil {
		s := string(*r.Role)
		role = &s
	}

	_, err := t.journal.Record(ctx, journal.Entry{
		SessionID:     t.session.ID(),
		ThoughtNumber: resp.ThoughtNumber,
		TotalThoughts: resp.TotalThoughts,
		BranchID:      r.BranchID,
		Role:          role,
		Thought:       r.ThoughtText(),
		Bullets:       resp.PMReport.Bullets,
	})
	if err != nil {
		t.logger.Warn("journal record failed", zap.Error(err))
	}
}

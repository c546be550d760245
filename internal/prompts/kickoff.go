// Package prompts implements MCP prompt handlers for deliberation sessions.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/deliberate/internal/team"
)

// KickoffPrompt handles the deliberate-kickoff MCP prompt.
// It guides the AI to open a deliberation with a project manager summary.
type KickoffPrompt struct{}

// NewKickoffPrompt creates a KickoffPrompt.
func NewKickoffPrompt() *KickoffPrompt {
	return &KickoffPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *KickoffPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("deliberate-kickoff",
		mcp.WithPromptDescription(
			"Start a team deliberation on a topic. "+
				"The project manager opens with a summary, then the pragmatic programmer "+
				"and product visionary contribute until the team reaches consensus.",
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What the team should deliberate about. Default: the current problem"),
		),
		mcp.WithArgument("roles",
			mcp.ArgumentDescription(
				"Comma-separated roles to involve: "+strings.Join(team.RoleValues(), ", ")+". Default: all three",
			),
		),
	)
}

// Handle processes the deliberate-kickoff prompt request.
func (p *KickoffPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := "the current problem"
	roles := team.RoleValues()
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["topic"]; ok && strings.TrimSpace(t) != "" {
			topic = strings.TrimSpace(t)
		}
		if r, ok := args["roles"]; ok && strings.TrimSpace(r) != "" {
			parsed, err := parseRoles(r)
			if err != nil {
				return nil, err
			}
			roles = parsed
		}
	}

	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = team.Role(r).String()
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Deliberation kickoff: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want the team to deliberate about: %s\n\n"+
						"Participants: %s.\n\n"+
						"Please:\n"+
						"1. Call `deliberatethinking` with thoughtNumber=1, role='projectManager' and a summary thought framing the problem\n"+
						"2. Let each participant contribute with their role set, adding discussionPoints and backlogStories as ideas firm up\n"+
						"3. Use branchFromThought/branchId to explore alternatives and revisesThought to correct earlier steps\n"+
						"4. Have the project manager propose a sprintPlan and record a consensusUpdate\n"+
						"5. Set requiresUserInput=true and stop whenever you need a decision from me\n\n"+
						"Show me the pmReport bullets after each step.",
					topic, strings.Join(names, ", "),
				)),
			},
		},
	}, nil
}

// parseRoles splits a comma-separated role list, rejecting unknown roles.
func parseRoles(raw string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		r := strings.TrimSpace(part)
		if r == "" {
			continue
		}
		if err := team.ValidateRole(team.Role(r)); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return team.RoleValues(), nil
	}
	return out, nil
}

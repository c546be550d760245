package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the deliberate-status MCP prompt.
// It instructs the AI to read and present the current session state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("deliberate-status",
		mcp.WithPromptDescription(
			"Check where the current deliberation stands: "+
				"active branch, backlog focus, sprint plan, consensus and blockers.",
		),
	)
}

// Handle processes the deliberate-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Deliberation Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please read the `deliberate://session/status` resource.\n\n" +
						"Then:\n" +
						"1. Summarise the latest project manager summary and the active context\n" +
						"2. List the top backlog items and the active sprint plan, if any\n" +
						"3. Highlight consensus blockers and whether the team is waiting on me\n" +
						"4. Tell me exactly what the team should do next",
				),
			},
		},
	}, nil
}

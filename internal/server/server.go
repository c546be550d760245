// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the session, the optional
// journal and the logger-backed tool, then registers tools, prompts and
// resources. No business logic lives here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/deliberate/internal/config"
	"github.com/HendryAvila/deliberate/internal/journal"
	"github.com/HendryAvila/deliberate/internal/prompts"
	"github.com/HendryAvila/deliberate/internal/resources"
	"github.com/HendryAvila/deliberate/internal/session"
	"github.com/HendryAvila/deliberate/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered around a single deliberation session.
//
// The returned cleanup function closes the journal when one is open and
// must be called on shutdown (typically via defer). It is always non-nil
// and safe to call even if the journal is disabled or failed to open.
func New(cfg *config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create the MCP server ---

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	}
	if cfg.Server.Instructions {
		opts = append(opts, server.WithInstructions(serverInstructions()))
	}
	s := server.NewMCPServer(cfg.Server.Name, Version, opts...)

	// --- Session and tool ---

	sess := session.New()
	logger.Info("deliberation session created", zap.String("session_id", sess.ID()))

	deliberateTool := tools.NewDeliberateTool(sess, logger)
	s.AddTool(deliberateTool.Definition(), deliberateTool.Handle)

	// --- Optional journal ---
	//
	// The journal is write-only audit output. If it fails to open the
	// server still runs; the tool simply records nothing.

	cleanup := noop
	if cfg.Journal.Enabled {
		store, err := journal.New(journal.Config{DataDir: cfg.Journal.DataDir})
		if err != nil {
			logger.Warn("journal disabled", zap.Error(err))
		} else {
			deliberateTool.SetJournal(store)
			cleanup = func() {
				if err := store.Close(); err != nil {
					logger.Warn("journal close", zap.Error(err))
				}
			}
			logger.Info("journal enabled", zap.String("data_dir", cfg.Journal.DataDir))
		}
	}

	// --- Register prompts ---

	kickoffPrompt := prompts.NewKickoffPrompt()
	s.AddPrompt(kickoffPrompt.Definition(), kickoffPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(sess)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	return s, cleanup, nil
}

// noop is the default cleanup when no journal is open.
func noop() {}

// serverInstructions returns the usage guide advertised to the host.
func serverInstructions() string {
	return `You have access to a deliberate thinking server with one tool: deliberatethinking.

## HOW TO THINK WITH IT

Call deliberatethinking once per reasoning step. Always send thought,
thoughtNumber, totalThoughts and nextThoughtNeeded. Adjust totalThoughts as
your understanding changes and set nextThoughtNeeded=false when done.

- Revise an earlier step: set isRevision=true and revisesThought=N.
- Explore an alternative: set branchFromThought=N and branchId=<name>.
  Later steps without fork fields continue on that branch.

## THE TEAM

Each step may speak for one role:
- projectManager: frames the problem, summarises, plans sprints. A project
  manager step must carry a non-empty thought; it becomes the PM summary.
- pragmaticProgrammer: feasibility, effort, technical risk.
- productVisionary: user value, scope, long-term direction.

Attach discussionPoints, backlogStories (id, title, priority, status),
removeStoryIds, a sprintPlan, a consensusUpdate and requiresUserInput as the
conversation produces them. Every response carries a pmReport; show its
bullets to the user.

Stop and ask the user whenever requiresUserInput is true or the consensus
lists blockers you cannot resolve.

The deliberate-kickoff and deliberate-status prompts and the
deliberate://session/status resource are also available.`
}

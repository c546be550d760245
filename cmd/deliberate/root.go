package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/deliberate/internal/config"
	"github.com/HendryAvila/deliberate/internal/journal"
	"github.com/HendryAvila/deliberate/internal/logging"
	dserver "github.com/HendryAvila/deliberate/internal/server"
)

// serveStdio is a package-level var to allow test injection.
var serveStdio = func(s *server.MCPServer) error { return server.ServeStdio(s) }

// app carries state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "deliberate",
		Short:        "Structured team reasoning MCP server",
		Long:         "deliberate serves the deliberatethinking MCP tool over stdio.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.SetErr(os.Stderr)
	root.SetOut(os.Stdout)

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "path to config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the MCP server (stdio transport)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			// version needs no config or logger.
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "deliberate v%s\n", dserver.Version)
			},
		},
		newJournalCmd(a),
		newInitCmd(a),
	)

	return root
}

// init loads config and builds the stderr logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", a.configPath, err)
	}
	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) serve(ctx context.Context) error {
	s, cleanup, err := dserver.New(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- serveStdio(s) }()

	a.logger.Info("serving MCP over stdio", zap.String("version", dserver.Version))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("received shutdown signal")
		return nil
	}
}

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("config %s already exists (use --force to overwrite)", a.configPath)
			}
			if err := config.DefaultConfig().Save(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newJournalCmd(a *app) *cobra.Command {
	var (
		sessionID string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print recorded deliberation transcripts as JSON",
		Long: "Without --session, lists recorded sessions. With --session, prints " +
			"that session's entries oldest first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := journal.New(journal.Config{DataDir: a.cfg.Journal.DataDir})
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer store.Close()

			return printJournal(cmd.Context(), cmd.OutOrStdout(), store, sessionID, limit)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session ID to print")
	cmd.Flags().IntVar(&limit, "limit", journal.DefaultListLimit, "maximum number of entries")
	return cmd
}

// printJournal writes either the session list or one session's entries.
func printJournal(ctx context.Context, w io.Writer, store *journal.Store, sessionID string, limit int) error {
	var v any
	if sessionID == "" {
		sessions, err := store.Sessions(ctx)
		if err != nil {
			return err
		}
		if sessions == nil {
			sessions = []journal.SessionSummary{}
		}
		v = sessions
	} else {
		entries, err := store.List(ctx, journal.ListOptions{SessionID: sessionID, Limit: limit})
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
		v = entries
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/deliberate/internal/config"
	"github.com/HendryAvila/deliberate/internal/journal"
)

// run executes the root command with args and a config path that does
// not exist, so defaults plus env overrides apply.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DELIBERATE_LOG_LEVEL", "")
	t.Setenv("DELIBERATE_JOURNAL", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func stubServe(t *testing.T, fn func(*server.MCPServer) error) {
	t.Helper()
	orig := serveStdio
	t.Cleanup(func() { serveStdio = orig })
	serveStdio = fn
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "deliberate v"), out)
}

func TestServeCommand_RunsStdioServer(t *testing.T) {
	var served *server.MCPServer
	stubServe(t, func(s *server.MCPServer) error {
		served = s
		return nil
	})

	_, err := run(t, "serve")
	require.NoError(t, err)
	assert.NotNil(t, served)
}

func TestRootCommand_DefaultsToServe(t *testing.T) {
	called := false
	stubServe(t, func(*server.MCPServer) error {
		called = true
		return nil
	})

	_, err := run(t)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestServeCommand_PropagatesError(t *testing.T) {
	stubServe(t, func(*server.MCPServer) error { return errors.New("stdin closed") })

	_, err := run(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin closed")
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	stubServe(t, func(*server.MCPServer) error { return nil })
	t.Setenv("DELIBERATE_LOG_LEVEL", "chatty")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestJournalCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DELIBERATE_DATA_DIR", dir)

	store, err := journal.New(journal.Config{DataDir: dir})
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := store.Record(context.Background(), journal.Entry{
			SessionID: "sess", ThoughtNumber: i, TotalThoughts: 3, Thought: "step",
		})
		require.NoError(t, err)
	}
	require.NoError(t, store.Close())

	t.Run("sessions", func(t *testing.T) {
		out, err := run(t, "journal")
		require.NoError(t, err)

		var sessions []journal.SessionSummary
		require.NoError(t, json.Unmarshal([]byte(out), &sessions))
		require.Len(t, sessions, 1)
		assert.Equal(t, "sess", sessions[0].SessionID)
		assert.Equal(t, 3, sessions[0].Entries)
	})

	t.Run("entries", func(t *testing.T) {
		out, err := run(t, "journal", "--session", "sess", "--limit", "2")
		require.NoError(t, err)

		var entries []journal.Entry
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, 2, entries[0].ThoughtNumber)
		assert.Equal(t, 3, entries[1].ThoughtNumber)
	})

	t.Run("unknown session prints empty list", func(t *testing.T) {
		out, err := run(t, "journal", "--session", "nope")
		require.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(out))
	})
}

func TestInitCommand(t *testing.T) {
	t.Setenv("DELIBERATE_LOG_LEVEL", "")
	t.Setenv("DELIBERATE_JOURNAL", "")
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	initCmd := func(extra ...string) (string, error) {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"init", "--config", path}, extra...))
		err := cmd.ExecuteContext(context.Background())
		return out.String(), err
	}

	out, err := initCmd()
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.Name, cfg.Server.Name)

	_, err = initCmd()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = initCmd("--force")
	require.NoError(t, err)
}

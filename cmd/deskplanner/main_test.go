package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRootCommandStructure(t *testing.T) {
	root := newRootCommand(testLogger())

	names := make([]string, 0, 3)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed"}, names)
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "planner.db")
	t.Setenv("DESKPLANNER_SQLITE_DSN", "file:"+dbPath+"?_pragma=foreign_keys(1)")

	root := newRootCommand(testLogger())
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())

	// A second run finds nothing pending and still succeeds.
	root = newRootCommand(testLogger())
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())
}

func TestSeedCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "planner.db")
	t.Setenv("DESKPLANNER_SQLITE_DSN", "file:"+dbPath+"?_pragma=foreign_keys(1)")

	root := newRootCommand(testLogger())
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.Execute())

	// Reseeding resets to the same sample office.
	root = newRootCommand(testLogger())
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.Execute())
}

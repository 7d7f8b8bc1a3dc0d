//go:build basic

// Package integration contains end-to-end tests for the orghealth binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthRow struct {
	ID     string `json:"id"`
	Health string `json:"health"`
	Label  string `json:"label"`
}

func parseHealth(t *testing.T, out string) []healthRow {
	t.Helper()
	var rows []healthRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

// TestSQLiteLifecycle drives the CLI through import, evaluation and mutation on SQLite.
func TestSQLiteLifecycle(t *testing.T) {
	home := t.TempDir()
	snapshot := writeSnapshot(t, home)
	env := []string{"ORGHEALTH_TODAY=2026-03-18"}

	_, err := runCommand(t, home, env, "snapshot", "import", snapshot)
	require.NoError(t, err)

	out, err := runCommand(t, home, env, "health", "checkout", "--output", "json")
	require.NoError(t, err)
	rows := parseHealth(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "at_risk", rows[0].Health, "one off_track and one on_track child average to zero")

	out, err = runCommand(t, home, env, "health", "project", "--output", "json", "--limit", "1")
	require.NoError(t, err)
	rows = parseHealth(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "cart", rows[0].ID, "worst project ranks first")

	_, err = runCommand(t, home, env, "update", "cart", "on_track", "--date", "2026-03-17", "--description", "fixed")
	require.NoError(t, err)

	out, err = runCommand(t, home, env, "health", "team", "web", "--output", "json")
	require.NoError(t, err)
	rows = parseHealth(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "on_track", rows[0].Health)

	_, err = runCommand(t, home, env, "transition", "project", "cart", "done")
	require.NoError(t, err)

	// done is terminal, so both the dry run and the real move are refused
	_, err = runCommand(t, home, env, "check", "cart", "todo")
	assertExitCode(t, err, 1)
	_, err = runCommand(t, home, env, "transition", "project", "cart", "todo")
	assertExitCode(t, err, 1)

	_, err = runCommand(t, home, env, "transition", "initiative", "growth", "done", "--cascade")
	require.NoError(t, err)

	out, err = runCommand(t, home, env, "leaves", "initiative", "growth", "--output", "json")
	require.NoError(t, err)
	var leaves struct {
		DerivedState string `json:"derived_state"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &leaves))
	assert.Equal(t, "done", leaves.DerivedState)

	for _, args := range [][]string{
		{"report"},
		{"confidence"},
		{"trend", "checkout"},
		{"store", "status"},
		{"snapshot", "export"},
	} {
		_, err := runCommand(t, home, env, args...)
		assert.NoError(t, err, "%v", args)
	}

	_, err = runCommand(t, home, env, "store", "clear")
	require.NoError(t, err)
}

// TestValidationFailures checks that bad input never reaches the store.
func TestValidationFailures(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"health", "squad", "x"}},
		{"bad policy", []string{"report", "--node-policy", "loose"}},
		{"bad today", []string{"report", "--today", "someday"}},
		{"future update", []string{"update", "x", "on_track", "--date", "2999-01-01"}},
		{"bad backend", []string{"report", "--store-backend", "redis"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, home, nil, tt.args...)
			assertExitCode(t, err, 1)
		})
	}
}

func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, want, exitErr.ExitCode())
}

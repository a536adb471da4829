package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalabs/saboteur-arena/internal/config"
	"github.com/arenalabs/saboteur-arena/internal/ledger"
	"github.com/arenalabs/saboteur-arena/internal/oracle"
)

func newWaitingEngine(t *testing.T) *Engine {
	t.Helper()
	gen := oracle.Func(func(_ context.Context, _ oracle.Prompt) (string, error) {
		return "ACTION: wait", nil
	})
	cfg := testConfig(1,
		config.ActorConfig{Name: "alice", Role: "worker"},
		config.ActorConfig{Name: "bob", Role: "worker"},
	)
	e, err := New(cfg, testPool(), gen, testLogger(), WithSeed(1))
	require.NoError(t, err)
	return e
}

func TestSummaryWriteFile(t *testing.T) {
	t.Parallel()

	s := &Summary{
		RunID:      "0c7acb1e-0000-4000-8000-d8f1b7f2a001",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Rounds:     4,
		EndReason:  EndHoneypotWin,
		Roles:      map[string]string{"hp": "honeypot", "mallory": "saboteur"},
		Eliminated: []string{"mallory"},
		Leaderboard: []ledger.Standing{
			{Actor: "hp", Score: 15},
			{Actor: "mallory", Score: -10},
		},
	}

	dir := filepath.Join(t.TempDir(), "results")
	path, err := s.WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-"+s.RunID+".json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Summary
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, s.RunID, got.RunID)
	assert.Equal(t, EndHoneypotWin, got.EndReason)
	assert.Equal(t, s.Leaderboard, got.Leaderboard)
	assert.Equal(t, []string{"mallory"}, got.Eliminated)
}

func TestRunSummaryHasRunID(t *testing.T) {
	t.Parallel()

	e := newWaitingEngine(t)
	summary, err := e.Run(t.Context())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
	assert.Len(t, summary.Roles, 2)
	assert.NotNil(t, summary.Submissions)
}

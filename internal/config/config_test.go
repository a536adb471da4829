package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
game {
  max_rounds              = 30
  problems_file           = "pool.yaml"
  accusation_threshold    = 60
  end_on_wrong_accusation = true
  oracle_timeout_ms       = 5000
  results_dir             = "out"
}

scoring {
  approved_solution = 20
  review_completed  = 3
}

actor "alice" {
  role = "worker"
}

actor "mallory" {
  role = "saboteur"
}

actor "hp" {
  role = "honeypot"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.Game.MaxRounds)
	assert.Equal(t, "pool.yaml", cfg.Game.ProblemsFile)
	assert.Equal(t, 60, cfg.Game.AccusationThreshold)
	assert.True(t, cfg.Game.EndOnWrongAccusation)
	assert.Equal(t, 20, cfg.Scoring.ApprovedSolution)
	assert.Equal(t, 3, cfg.Scoring.ReviewCompleted)
	// Unset scoring fields fall back to defaults.
	assert.Equal(t, 15, cfg.Scoring.DetectionBonus)

	actors := cfg.RosterActors()
	require.Len(t, actors, 3)
	assert.Equal(t, "alice", actors[0].ID)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
game {}
scoring {}

actor "a" {
  role = "worker"
}

actor "b" {
  role = "worker"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	def := Default()
	assert.Equal(t, def.Game.MaxRounds, cfg.Game.MaxRounds)
	assert.Equal(t, def.Game.AccusationThreshold, cfg.Game.AccusationThreshold)
	assert.Equal(t, def.Game.OracleTimeoutMs, cfg.Game.OracleTimeoutMs)
	assert.Equal(t, def.Scoring, cfg.Scoring)
	assert.False(t, cfg.Game.EndOnWrongAccusation)
}

// An explicit accusation_threshold = 0 is indistinguishable from unset and is
// rewritten to the default. Runs that should accuse freely set 1.
func TestExplicitZeroThresholdReadsAsUnset(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
game {
  accusation_threshold = 0
}
scoring {}

actor "a" {
  role = "worker"
}

actor "b" {
  role = "worker"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Game.AccusationThreshold, cfg.Game.AccusationThreshold)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "does not exist")

	path := writeConfig(t, `game { max_rounds = `)
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"too few actors", func(c *Config) { c.Actors = c.Actors[:1] }, "at least 2 actors"},
		{"unknown role", func(c *Config) { c.Actors[1].Role = "wizard" }, "unknown role"},
		{"duplicate name", func(c *Config) { c.Actors[1].Name = "alice" }, "duplicate actor name"},
		{"empty name", func(c *Config) { c.Actors[0].Name = "" }, "empty name"},
		{"zero rounds", func(c *Config) { c.Game.MaxRounds = 0 }, "max_rounds"},
		{"threshold out of range", func(c *Config) { c.Game.AccusationThreshold = 150 }, "accusation_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			cfg.Actors = []ActorConfig{
				{Name: "alice", Role: "worker"},
				{Name: "bob", Role: "worker"},
			}
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

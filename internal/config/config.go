// Package config loads the game configuration from an HCL file. Configuration
// is read once at startup; the engine never mutates it at runtime.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/arenalabs/saboteur-arena/internal/roster"
)

// Config is the complete game configuration.
type Config struct {
	Game    GameSettings    `hcl:"game,block"`
	Scoring ScoringSettings `hcl:"scoring,block"`
	Actors  []ActorConfig   `hcl:"actor,block"`
}

// GameSettings contains run-level parameters.
type GameSettings struct {
	MaxRounds            int    `hcl:"max_rounds,optional"`
	ProblemsFile         string `hcl:"problems_file,optional"`
	AccusationThreshold  int    `hcl:"accusation_threshold,optional"`
	EndOnWrongAccusation bool   `hcl:"end_on_wrong_accusation,optional"`
	OracleTimeoutMs      int    `hcl:"oracle_timeout_ms,optional"`
	ResultsDir           string `hcl:"results_dir,optional"`
	ForumContext         int    `hcl:"forum_context,optional"`
	PrivateContext       int    `hcl:"private_context,optional"`
}

// ScoringSettings contains the point constants.
type ScoringSettings struct {
	ApprovedSolution      int `hcl:"approved_solution,optional"`
	ReviewCompleted       int `hcl:"review_completed,optional"`
	CovertMarkerBonus     int `hcl:"covert_marker_bonus,optional"`
	MarkerNoDefectPenalty int `hcl:"marker_no_defect_penalty,optional"`
	DetectionBonus        int `hcl:"detection_bonus,optional"`
	BestDetectiveBonus    int `hcl:"best_detective_bonus,optional"`
}

// ActorConfig defines one cast member.
type ActorConfig struct {
	Name string `hcl:"name,label"`
	Role string `hcl:"role"`
}

// Default returns the standard configuration with an empty cast.
func Default() *Config {
	return &Config{
		Game: GameSettings{
			MaxRounds:           20,
			ProblemsFile:        "problems.yaml",
			AccusationThreshold: 40,
			OracleTimeoutMs:     30000,
			ResultsDir:          "results",
			ForumContext:        20,
			PrivateContext:      10,
		},
		Scoring: ScoringSettings{
			ApprovedSolution:      10,
			ReviewCompleted:       2,
			CovertMarkerBonus:     5,
			MarkerNoDefectPenalty: 10,
			DetectionBonus:        15,
			BestDetectiveBonus:    10,
		},
	}
}

// Load reads and decodes a configuration file, applying defaults for missing
// values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s does not exist", filename)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Game.MaxRounds == 0 {
		cfg.Game.MaxRounds = def.Game.MaxRounds
	}
	if cfg.Game.ProblemsFile == "" {
		cfg.Game.ProblemsFile = def.Game.ProblemsFile
	}
	if cfg.Game.AccusationThreshold == 0 {
		// Zero reads as unset, like every other optional attribute. A run
		// that should allow accusations at any suspicion level sets 1.
		cfg.Game.AccusationThreshold = def.Game.AccusationThreshold
	}
	if cfg.Game.OracleTimeoutMs == 0 {
		cfg.Game.OracleTimeoutMs = def.Game.OracleTimeoutMs
	}
	if cfg.Game.ResultsDir == "" {
		cfg.Game.ResultsDir = def.Game.ResultsDir
	}
	if cfg.Game.ForumContext == 0 {
		cfg.Game.ForumContext = def.Game.ForumContext
	}
	if cfg.Game.PrivateContext == 0 {
		cfg.Game.PrivateContext = def.Game.PrivateContext
	}
	if cfg.Scoring.ApprovedSolution == 0 {
		cfg.Scoring.ApprovedSolution = def.Scoring.ApprovedSolution
	}
	if cfg.Scoring.ReviewCompleted == 0 {
		cfg.Scoring.ReviewCompleted = def.Scoring.ReviewCompleted
	}
	if cfg.Scoring.CovertMarkerBonus == 0 {
		cfg.Scoring.CovertMarkerBonus = def.Scoring.CovertMarkerBonus
	}
	if cfg.Scoring.MarkerNoDefectPenalty == 0 {
		cfg.Scoring.MarkerNoDefectPenalty = def.Scoring.MarkerNoDefectPenalty
	}
	if cfg.Scoring.DetectionBonus == 0 {
		cfg.Scoring.DetectionBonus = def.Scoring.DetectionBonus
	}
	if cfg.Scoring.BestDetectiveBonus == 0 {
		cfg.Scoring.BestDetectiveBonus = def.Scoring.BestDetectiveBonus
	}
}

// Validate rejects configurations the engine refuses to start with: fewer
// than two actors, unknown roles, duplicate names, or a degenerate round
// count.
func (c *Config) Validate() error {
	if len(c.Actors) < 2 {
		return fmt.Errorf("at least 2 actors are required, got %d", len(c.Actors))
	}
	seen := map[string]bool{}
	for _, a := range c.Actors {
		if a.Name == "" {
			return fmt.Errorf("actor with empty name")
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate actor name %q", a.Name)
		}
		seen[a.Name] = true
		if _, err := roster.ParseRole(a.Role); err != nil {
			return fmt.Errorf("actor %s: %w", a.Name, err)
		}
	}
	if c.Game.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.Game.MaxRounds)
	}
	if c.Game.AccusationThreshold < 0 || c.Game.AccusationThreshold > 100 {
		return fmt.Errorf("accusation_threshold must be in [0,100], got %d", c.Game.AccusationThreshold)
	}
	return nil
}

// RosterActors converts the actor blocks into roster actors. Call Validate
// first; unknown roles are reported there.
func (c *Config) RosterActors() []roster.Actor {
	out := make([]roster.Actor, 0, len(c.Actors))
	for _, a := range c.Actors {
		role, err := roster.ParseRole(a.Role)
		if err != nil {
			continue
		}
		out = append(out, roster.Actor{ID: a.Name, Role: role})
	}
	return out
}

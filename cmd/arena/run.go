package main

import (
	"fmt"
	"time"

	"github.com/arenalabs/saboteur-arena/cmd/arena/shared"
	"github.com/arenalabs/saboteur-arena/internal/config"
	"github.com/arenalabs/saboteur-arena/internal/engine"
	"github.com/arenalabs/saboteur-arena/internal/oracle"
	"github.com/arenalabs/saboteur-arena/internal/problems"
	"github.com/arenalabs/saboteur-arena/internal/randutil"
)

// RunCmd plays one full game and writes the run summary.
type RunCmd struct {
	Config    string `kong:"default='arena.hcl',help='Game configuration file'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Bots      bool   `kong:"help='Use offline bot oracles instead of an LLM'"`
	OpenAIKey string `kong:"env='OPENAI_API_KEY',help='OpenAI API key for the content oracle'"`
	Model     string `kong:"help='Model name for the content oracle'"`
	Results   string `kong:"help='Results directory (overrides config)'"`
}

func (c *RunCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Results != "" {
		cfg.Game.ResultsDir = c.Results
	}

	pool, err := problems.Load(cfg.Game.ProblemsFile)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	}

	var gen oracle.Generator
	switch {
	case c.Bots || c.OpenAIKey == "":
		if !c.Bots {
			logger.Info("no API key set, falling back to offline bots")
		}
		var peers []string
		for _, a := range cfg.Actors {
			peers = append(peers, a.Name)
		}
		gen = oracle.NewBot(randutil.New(seed), peers)
	default:
		gen = oracle.NewOpenAI(c.OpenAIKey, c.Model)
	}

	e, err := engine.New(cfg, pool, gen, logger, engine.WithSeed(seed))
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)
	summary, err := e.Run(ctx)
	if err != nil {
		return err
	}

	path, err := summary.WriteFile(cfg.Game.ResultsDir)
	if err != nil {
		return err
	}
	logger.Info("summary written", "path", path)

	fmt.Printf("\nGame over after %d rounds: %s\n\n", summary.Rounds, summary.EndReason)
	for i, s := range summary.Leaderboard {
		fmt.Printf("%2d. %-12s %4d points (%s)\n", i+1, s.Actor, s.Score, summary.Roles[s.Actor])
	}
	return nil
}

package main

import (
	"time"

	"github.com/arenalabs/saboteur-arena/cmd/arena/shared"
	"github.com/arenalabs/saboteur-arena/internal/config"
	"github.com/arenalabs/saboteur-arena/internal/problems"
	"github.com/arenalabs/saboteur-arena/internal/simulator"
)

// SimulateCmd runs a batch of offline games and prints aggregate results.
type SimulateCmd struct {
	Config      string `kong:"default='arena.hcl',help='Game configuration file'"`
	Games       int    `kong:"default='100',help='Number of games to play'"`
	Seed        *int64 `kong:"help='Base RNG seed; each game derives its own (optional)'"`
	Concurrency int    `kong:"default='4',help='Games to run in parallel'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	pool, err := problems.Load(cfg.Game.ProblemsFile)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("starting batch", "games", c.Games, "seed", seed, "concurrency", c.Concurrency)

	sim := simulator.New(simulator.Config{
		Games:       c.Games,
		Seed:        seed,
		Concurrency: c.Concurrency,
		Logger:      logger,
	}, cfg, pool)

	ctx := shared.SetupSignalHandler(logger)
	results, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	results.PrintSummary()
	return nil
}

package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalabs/saboteur-arena/internal/config"
	"github.com/arenalabs/saboteur-arena/internal/problems"
)

func testSetup() (*config.Config, *problems.Pool) {
	cfg := config.Default()
	cfg.Game.MaxRounds = 5
	cfg.Actors = []config.ActorConfig{
		{Name: "alice", Role: "worker"},
		{Name: "bob", Role: "worker"},
		{Name: "mallory", Role: "saboteur"},
		{Name: "hp", Role: "honeypot"},
	}

	var list []*problems.Problem
	for i := 1; i <= 10; i++ {
		list = append(list, &problems.Problem{
			ID:        i,
			Title:     "toy",
			Signature: "def solve(xs)",
			TestCases: []problems.TestCase{
				{Input: "1", Expected: "1"},
				{Input: "0", Expected: "0", Edge: true},
			},
		})
	}
	return cfg, problems.FromProblems(list)
}

func TestBatchCompletes(t *testing.T) {
	t.Parallel()

	cfg, pool := testSetup()
	sim := New(Config{
		Games:       6,
		Seed:        42,
		Concurrency: 3,
		Logger:      log.New(io.Discard),
	}, cfg, pool)

	results, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, results.Games)
	assert.Len(t, results.Rounds, 6)

	total := 0
	for _, n := range results.EndReasons {
		total += n
	}
	assert.Equal(t, 6, total, "every game ends with exactly one reason")

	mean := results.MeanRounds()
	assert.GreaterOrEqual(t, mean, 1.0)
	assert.LessOrEqual(t, mean, float64(cfg.Game.MaxRounds))
}

func TestBatchIsReproducible(t *testing.T) {
	t.Parallel()

	cfg, pool := testSetup()
	run := func() *Results {
		sim := New(Config{Games: 4, Seed: 7, Concurrency: 2, Logger: log.New(io.Discard)}, cfg, pool)
		r, err := sim.Run(context.Background())
		require.NoError(t, err)
		return r
	}

	r1 := run()
	r2 := run()
	assert.Equal(t, r1.EndReasons, r2.EndReasons)
	assert.Equal(t, r1.Rounds, r2.Rounds)
	assert.Equal(t, r1.TopScores, r2.TopScores)
}

func TestScoreSpread(t *testing.T) {
	t.Parallel()

	r := &Results{TopScores: []int{10, 20, 30}}
	mean, stddev := r.ScoreSpread()
	assert.InDelta(t, 20.0, mean, 0.001)
	assert.InDelta(t, 8.165, stddev, 0.001)

	empty := &Results{}
	mean, stddev = empty.ScoreSpread()
	assert.Zero(t, mean)
	assert.Zero(t, stddev)
}

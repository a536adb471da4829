// Package simulator runs batches of full games with offline bot oracles,
// used to sanity-check balance changes without a model in the loop.
package simulator

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/arenalabs/saboteur-arena/internal/config"
	"github.com/arenalabs/saboteur-arena/internal/engine"
	"github.com/arenalabs/saboteur-arena/internal/oracle"
	"github.com/arenalabs/saboteur-arena/internal/problems"
	"github.com/arenalabs/saboteur-arena/internal/randutil"
)

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Seed        int64
	Concurrency int
	Logger      *log.Logger
}

// Results aggregates the outcomes of a batch.
type Results struct {
	Games      int
	EndReasons map[engine.EndReason]int
	Rounds     []int
	// TopScores holds the winning score of each game, for spread analysis.
	TopScores []int
	// Eliminations counts games with at least one eliminated actor.
	Eliminations int
}

// Simulator runs game batches.
type Simulator struct {
	cfg  Config
	game *config.Config
	pool *problems.Pool
}

// New creates a simulator. The game config and pool are shared read-only
// across all games; each game gets its own engine and derived seed.
func New(cfg Config, game *config.Config, pool *problems.Pool) *Simulator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	return &Simulator{cfg: cfg, game: game, pool: pool}
}

// Run plays the batch and aggregates results. Games run concurrently; a
// single failing game fails the batch, since engine errors indicate a bug
// rather than an unlucky run.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	results := &Results{
		Games:      s.cfg.Games,
		EndReasons: make(map[engine.EndReason]int),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i := 0; i < s.cfg.Games; i++ {
		g.Go(func() error {
			seed := s.cfg.Seed + int64(i)
			summary, err := s.playGame(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}

			mu.Lock()
			defer mu.Unlock()
			results.EndReasons[summary.EndReason]++
			results.Rounds = append(results.Rounds, summary.Rounds)
			if len(summary.Leaderboard) > 0 {
				results.TopScores = append(results.TopScores, summary.Leaderboard[0].Score)
			}
			if len(summary.Eliminated) > 0 {
				results.Eliminations++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Ints(results.Rounds)
	sort.Ints(results.TopScores)
	return results, nil
}

func (s *Simulator) playGame(ctx context.Context, seed int64) (*engine.Summary, error) {
	var peers []string
	for _, a := range s.game.Actors {
		peers = append(peers, a.Name)
	}
	bot := oracle.NewBot(randutil.New(seed), peers)

	e, err := engine.New(s.game, s.pool, bot, s.cfg.Logger, engine.WithSeed(seed))
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// MeanRounds returns the average game length in rounds.
func (r *Results) MeanRounds() float64 {
	if len(r.Rounds) == 0 {
		return 0
	}
	total := 0
	for _, n := range r.Rounds {
		total += n
	}
	return float64(total) / float64(len(r.Rounds))
}

// ScoreSpread returns the mean and standard deviation of winning scores.
func (r *Results) ScoreSpread() (mean, stddev float64) {
	if len(r.TopScores) == 0 {
		return 0, 0
	}
	total := 0
	for _, s := range r.TopScores {
		total += s
	}
	mean = float64(total) / float64(len(r.TopScores))

	var sumSq float64
	for _, s := range r.TopScores {
		d := float64(s) - mean
		sumSq += d * d
	}
	stddev = math.Sqrt(sumSq / float64(len(r.TopScores)))
	return mean, stddev
}

// PrintSummary prints a human-readable batch report.
func (r *Results) PrintSummary() {
	fmt.Printf("\n=== BATCH RESULTS ===\n")
	fmt.Printf("Games played: %d\n", r.Games)
	fmt.Printf("Mean rounds: %.1f\n", r.MeanRounds())
	fmt.Printf("Games with eliminations: %d (%.1f%%)\n",
		r.Eliminations, float64(r.Eliminations)/float64(r.Games)*100)

	fmt.Printf("\nEnd reasons:\n")
	for _, reason := range []engine.EndReason{engine.EndHoneypotWin, engine.EndSaboteurWin, engine.EndRoundsExhausted} {
		if n := r.EndReasons[reason]; n > 0 {
			fmt.Printf("  %-18s %d (%.1f%%)\n", reason, n, float64(n)/float64(r.Games)*100)
		}
	}

	mean, stddev := r.ScoreSpread()
	fmt.Printf("\nWinning score: mean %.1f, stddev %.1f\n", mean, stddev)
}

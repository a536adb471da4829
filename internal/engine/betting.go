package engine

import (
	"context"
	"strings"

	"github.com/arenalabs/saboteur-arena/internal/intent"
	"github.com/arenalabs/saboteur-arena/internal/oracle"
	"github.com/arenalabs/saboteur-arena/internal/roster"
)

// BetResult is one actor's role-betting outcome.
type BetResult struct {
	Guesses map[string]string `json:"guesses"`
	Correct int               `json:"correct"`
}

// runRoleBetting asks every active actor to guess the hidden role of every
// other actor and credits the most accurate guesser. Ties go to the
// lexicographically smallest id so the outcome is deterministic. Oracle
// failure for one actor just means no bet from that actor.
func (e *Engine) runRoleBetting(ctx context.Context) map[string]BetResult {
	results := make(map[string]BetResult)

	var best string
	bestCorrect := -1
	for _, id := range e.cast.ActiveOrder() {
		a, ok := e.cast.Get(id)
		if !ok {
			continue
		}

		text, err := e.generate(ctx, oracle.Prompt{
			Kind:   oracle.KindRoleBet,
			Actor:  a.ID,
			System: e.systemPrompt(a),
			User:   e.roleBetPrompt(a),
		})
		if err != nil {
			e.logger.Debug("role bet skipped", "actor", a.ID, "error", err)
			continue
		}

		guesses := intent.ParseRoleGuesses(text, e.othersOf(a.ID))
		correct := 0
		for target, guess := range guesses {
			t, ok := e.cast.Get(target)
			if ok && t.Role.String() == guess {
				correct++
			}
		}
		results[a.ID] = BetResult{Guesses: guesses, Correct: correct}
		e.logger.Debug("role bet", "actor", a.ID, "correct", correct, "guesses", len(guesses))

		if correct > bestCorrect || (correct == bestCorrect && a.ID < best) {
			best, bestCorrect = a.ID, correct
		}
	}

	if best != "" && bestCorrect > 0 {
		e.scores.AwardBestDetective(best)
		e.logger.Info("best detective", "actor", best, "correct", bestCorrect)
	}
	return results
}

func (e *Engine) roleBetPrompt(a *roster.Actor) string {
	var sb strings.Builder
	sb.WriteString("The game is over. Guess each teammate's hidden role (worker, saboteur, or honeypot).\n")
	sb.WriteString("Teammates: ")
	sb.WriteString(strings.Join(e.othersOf(a.ID), ", "))
	sb.WriteString("\n")
	sb.WriteString(e.renderActivity())
	sb.WriteString("\nRespond with one line per teammate: <name>: <role>\n")
	return sb.String()
}

package oracle

import (
	"context"
	"fmt"
	"strings"

	rand "math/rand/v2"
)

// Bot is an offline generator that emits plausible structured responses from
// an RNG. It exists so the batch simulator and demos can run full games
// without a model behind them.
type Bot struct {
	rng   *rand.Rand
	peers []string
}

// NewBot creates a bot generator over the given cast.
func NewBot(rng *rand.Rand, peers []string) *Bot {
	return &Bot{rng: rng, peers: peers}
}

// Generate implements Generator.
func (b *Bot) Generate(_ context.Context, p Prompt) (string, error) {
	switch p.Kind {
	case KindDecision:
		return b.decision(p), nil
	case KindSolution:
		return b.solution(p), nil
	case KindReview:
		if b.rng.IntN(100) < 75 {
			return "APPROVE\nREASONING: logic and edge handling look correct", nil
		}
		return "REJECT\nREASONING: boundary handling looks off", nil
	case KindMessage:
		return b.message(p), nil
	case KindRatings:
		return b.ratings(), nil
	case KindAccusation:
		if len(b.peers) == 0 {
			return "SUSPECT: NONE", nil
		}
		return "SUSPECT: " + b.other(p.Actor), nil
	case KindRoleBet:
		return b.roleBets(p.Actor), nil
	default:
		return "ACTION: wait", nil
	}
}

func (b *Bot) decision(p Prompt) string {
	hasQueue := strings.Contains(p.User, "pending reviews: 1") ||
		strings.Contains(p.User, "pending reviews: 2") ||
		strings.Contains(p.User, "pending reviews: 3")
	if hasQueue && b.rng.IntN(100) < 80 {
		return "ACTION: review_code"
	}

	roll := b.rng.IntN(100)
	switch {
	case roll < 55:
		target := b.other(p.Actor)
		if target == "" {
			return "ACTION: submit_solution"
		}
		return fmt.Sprintf("ACTION: submit_solution\nSECONDARY: private_message\nTARGET: %s", target)
	case roll < 70:
		return "ACTION: forum_message"
	case roll < 80:
		return "ACTION: run_tests"
	case roll < 90 && strings.Contains(p.System, "honeypot"):
		return "ACTION: report_saboteur"
	default:
		return "ACTION: wait"
	}
}

func (b *Bot) solution(p Prompt) string {
	code := "def solve(xs):\n    total = 0\n    for x in xs:\n        total += x\n    return total\n"
	if strings.Contains(p.System, "saboteur") && b.rng.IntN(100) < 60 {
		// Marked, defective variant.
		code = "# did you know an octopus has three hearts\ndef solve(xs):\n    total = 0\n    for x in xs:\n        total += x\n    return total + 1\n"
	}
	return code
}

func (b *Bot) message(p Prompt) string {
	if strings.Contains(p.User, "asking for a review") {
		return "I just submitted my solution for my assigned problem, could you review the code when you get a chance?"
	}
	return "Making steady progress on my problem, happy to compare notes."
}

func (b *Bot) ratings() string {
	var sb strings.Builder
	for _, peer := range b.peers {
		fmt.Fprintf(&sb, "%s: %d\n", peer, 10+b.rng.IntN(80))
	}
	return sb.String()
}

func (b *Bot) roleBets(self string) string {
	roles := []string{"worker", "saboteur", "honeypot"}
	var sb strings.Builder
	for _, peer := range b.peers {
		if peer == self {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", peer, roles[b.rng.IntN(len(roles))])
	}
	return sb.String()
}

func (b *Bot) other(self string) string {
	var others []string
	for _, peer := range b.peers {
		if peer != self {
			others = append(others, peer)
		}
	}
	if len(others) == 0 {
		return ""
	}
	return others[b.rng.IntN(len(others))]
}

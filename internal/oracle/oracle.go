// Package oracle defines the Content Oracle edge: the engine hands over a
// structured prompt and receives free text back. The engine never interprets
// the text itself; the intent package does.
package oracle

import "context"

// Kind tells a generator what sort of content the engine is asking for. It is
// advisory: an LLM-backed generator folds it into the prompt, while scripted
// generators may switch on it.
type Kind int

const (
	KindDecision Kind = iota
	KindSolution
	KindReview
	KindMessage
	KindRatings
	KindAccusation
	KindRoleBet
)

// String returns the string representation of a prompt kind.
func (k Kind) String() string {
	switch k {
	case KindDecision:
		return "decision"
	case KindSolution:
		return "solution"
	case KindReview:
		return "review"
	case KindMessage:
		return "message"
	case KindRatings:
		return "ratings"
	case KindAccusation:
		return "accusation"
	case KindRoleBet:
		return "role_bet"
	default:
		return "unknown"
	}
}

// Prompt is the structured request passed to a generator.
type Prompt struct {
	Kind   Kind
	Actor  string
	System string
	User   string
}

// Generator produces free text for a prompt. Implementations may block on the
// network; the engine wraps calls in a timeout and degrades to a wait turn on
// error.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Func adapts a plain function into a Generator, handy in tests.
type Func func(ctx context.Context, p Prompt) (string, error)

// Generate implements Generator.
func (f Func) Generate(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// Scripted replays a fixed sequence of responses, then keeps returning
// Default. Used by engine tests to drive exact scenarios.
type Scripted struct {
	Responses []string
	Default   string
	next      int
}

// Generate implements Generator.
func (s *Scripted) Generate(_ context.Context, _ Prompt) (string, error) {
	if s.next < len(s.Responses) {
		r := s.Responses[s.next]
		s.next++
		return r, nil
	}
	if s.Default != "" {
		return s.Default, nil
	}
	return "ACTION: wait", nil
}

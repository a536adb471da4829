// Package intent turns the Content Oracle's free text into typed decisions.
// Everything here is regex/keyword heuristics; isolating them behind this
// package keeps the engine's logic testable with synthetic decisions.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Action is a typed actor action.
type Action string

const (
	ActionSubmitSolution Action = "submit_solution"
	ActionReviewCode     Action = "review_code"
	ActionForumMessage   Action = "forum_message"
	ActionPrivateMessage Action = "private_message"
	ActionReportSaboteur Action = "report_saboteur"
	ActionRunTests       Action = "run_tests"
	ActionWait           Action = "wait"
)

// Decision is the typed result of classifying a decision response.
type Decision struct {
	Action    Action
	Target    string // actor id, when the action needs one
	Secondary Action // forum_message or private_message, optional
	Reasoning string
}

var knownActions = map[string]Action{
	"submit_solution": ActionSubmitSolution,
	"review_code":     ActionReviewCode,
	"forum_message":   ActionForumMessage,
	"private_message": ActionPrivateMessage,
	"report_saboteur": ActionReportSaboteur,
	"run_tests":       ActionRunTests,
	"wait":            ActionWait,
}

// ClassifyDecision extracts a typed decision from free text. It looks for
// ACTION/TARGET/SECONDARY/REASONING lines first and falls back to keyword
// matching; anything unrecognizable degrades to wait.
func ClassifyDecision(text string, actors []string) Decision {
	d := Decision{Action: ActionWait}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasPrefixFold(line, "ACTION:"):
			if a, ok := knownActions[normalizeToken(afterColon(line))]; ok {
				d.Action = a
			}
		case hasPrefixFold(line, "TARGET:"):
			d.Target = matchActor(afterColon(line), actors)
		case hasPrefixFold(line, "SECONDARY:"):
			switch a := knownActions[normalizeToken(afterColon(line))]; a {
			case ActionForumMessage, ActionPrivateMessage:
				d.Secondary = a
			}
		case hasPrefixFold(line, "REASONING:"):
			d.Reasoning = afterColon(line)
		}
	}

	if d.Action == ActionWait {
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "submit") && strings.Contains(lower, "solution"):
			d.Action = ActionSubmitSolution
		case strings.Contains(lower, "review"):
			d.Action = ActionReviewCode
		case strings.Contains(lower, "report") && strings.Contains(lower, "saboteur"):
			d.Action = ActionReportSaboteur
		case strings.Contains(lower, "run") && strings.Contains(lower, "test"):
			d.Action = ActionRunTests
		}
	}

	if d.Target == "" {
		d.Target = matchActor(text, actors)
	}
	return d
}

var reviewRequestPhrases = []string{
	"review my", "please review", "could you review",
	"would you review", "mind reviewing", "take a look",
	"can you review", "will you review", "review it",
}

var submittedWords = []string{
	"submitted", "submit", "finished", "implemented", "completed", "wrote", "coded",
}

var problemRefWords = []string{"problem", "solution", "code", "implementation"}

// IsReviewRequest reports whether a private message asks for a code review.
// Either a direct request phrase, or the combination of a just-made
// submission, the word "review", and a problem/solution/code reference.
func IsReviewRequest(message string) bool {
	lower := strings.ToLower(message)

	for _, phrase := range reviewRequestPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	hasSubmitted := containsAny(lower, submittedWords)
	hasReview := strings.Contains(lower, "review")
	hasProblemRef := containsAny(lower, problemRefWords)
	return hasReview && hasSubmitted && hasProblemRef
}

// ParseReviewDecision extracts an approve/reject verdict and reasoning from a
// review response. Absent an explicit verdict it rejects, the safer default.
func ParseReviewDecision(text string) (approve bool, reasoning string) {
	reasoning = strings.TrimSpace(text)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if hasPrefixFold(line, "REASONING:") {
			reasoning = afterColon(line)
		}
	}

	upper := strings.ToUpper(text)
	return strings.Contains(upper, "APPROVE") && !strings.Contains(upper, "NOT APPROVE"), reasoning
}

var scoreLine = regexp.MustCompile(`^\s*([A-Za-z][\w-]*)\s*[:=]\s*(\d{1,3})\b`)

// ParseScores extracts "Name: 42" belief-score lines for the given actors,
// clamped to [0,100]. Actors without a line are simply absent from the map.
func ParseScores(text string, actors []string) map[string]int {
	out := make(map[string]int)
	for _, line := range strings.Split(text, "\n") {
		m := scoreLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		actor := matchActor(m[1], actors)
		if actor == "" {
			continue
		}
		score, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if score > 100 {
			score = 100
		}
		out[actor] = score
	}
	return out
}

// ParseSuspect extracts the single accused actor from a "SUSPECT:" line.
// Returns false for NONE, an unknown name, or no such line.
func ParseSuspect(text string, actors []string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !hasPrefixFold(line, "SUSPECT:") {
			continue
		}
		name := strings.Trim(afterColon(line), "[] ")
		if strings.EqualFold(name, "none") {
			return "", false
		}
		if actor := matchActor(name, actors); actor != "" {
			return actor, true
		}
		return "", false
	}
	return "", false
}

// ParseRoleGuesses extracts per-actor role guesses from role-betting text.
// Each line naming an actor is scanned for a role word.
func ParseRoleGuesses(text string, actors []string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		actor := matchActor(line, actors)
		if actor == "" {
			continue
		}
		switch {
		case strings.Contains(lower, "saboteur"):
			out[actor] = "saboteur"
		case strings.Contains(lower, "honeypot"):
			out[actor] = "honeypot"
		case strings.Contains(lower, "worker"):
			out[actor] = "worker"
		}
	}
	return out
}

func afterColon(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}

func hasPrefixFold(line, prefix string) bool {
	return len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix)
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(s, `"'.`)
}

// matchActor finds an actor name mentioned in the text. Matches are
// case-insensitive, on word boundaries, longest name first, so a cast where
// one name is a substring of another ("al", "mallory") resolves correctly.
func matchActor(text string, actors []string) string {
	lower := strings.ToLower(text)
	best := ""
	for _, a := range actors {
		if len(a) <= len(best) {
			continue
		}
		if containsWord(lower, strings.ToLower(a)) {
			best = a
		}
	}
	return best
}

func containsWord(s, w string) bool {
	if w == "" {
		return false
	}
	for i := 0; ; {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		j += i
		before := j == 0 || !isWordByte(s[j-1])
		after := j+len(w) == len(s) || !isWordByte(s[j+len(w)])
		if before && after {
			return true
		}
		i = j + 1
	}
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

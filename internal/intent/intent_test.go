package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var actors = []string{"alice", "bob", "mallory"}

func TestClassifyDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Decision
	}{
		{
			"structured response",
			"ACTION: submit_solution\nSECONDARY: private_message\nTARGET: bob\nREASONING: done with my problem",
			Decision{Action: ActionSubmitSolution, Target: "bob", Secondary: ActionPrivateMessage, Reasoning: "done with my problem"},
		},
		{
			"case insensitive labels",
			"action: Review_Code\ntarget: Alice",
			Decision{Action: ActionReviewCode, Target: "alice"},
		},
		{
			"keyword fallback submit",
			"I think I'll submit my solution now.",
			Decision{Action: ActionSubmitSolution},
		},
		{
			"keyword fallback report with target in prose",
			"I want to report a saboteur: it must be mallory.",
			Decision{Action: ActionReportSaboteur, Target: "mallory"},
		},
		{
			"garbage degrades to wait",
			"lorem ipsum dolor sit amet",
			Decision{Action: ActionWait},
		},
		{
			"unknown action degrades to wait",
			"ACTION: dance",
			Decision{Action: ActionWait},
		},
		{
			"secondary restricted to messages",
			"ACTION: submit_solution\nSECONDARY: report_saboteur",
			Decision{Action: ActionSubmitSolution},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyDecision(tt.text, actors))
		})
	}
}

func TestIsReviewRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"Could you review my solution when you have a minute?", true},
		{"please review this", true},
		{"Mind reviewing? I'd appreciate a second pair of eyes.", true},
		{"I just submitted my code for problem 3, can someone review it?", true},
		{"I finished the implementation, would love a review of the code.", true},
		{"How is your problem going?", false},
		{"I submitted my solution earlier today.", false}, // no mention of review
		{"The quarterly review meeting is tomorrow.", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsReviewRequest(tt.text), "text: %q", tt.text)
	}
}

func TestParseReviewDecision(t *testing.T) {
	t.Parallel()

	approve, reasoning := ParseReviewDecision("APPROVE\nREASONING: clean and correct")
	assert.True(t, approve)
	assert.Equal(t, "clean and correct", reasoning)

	approve, _ = ParseReviewDecision("I will NOT APPROVE this, the loop is wrong")
	assert.False(t, approve)

	approve, _ = ParseReviewDecision("REJECT")
	assert.False(t, approve)

	// No explicit verdict rejects, the safer default.
	approve, _ = ParseReviewDecision("hmm, interesting code")
	assert.False(t, approve)
}

func TestParseScores(t *testing.T) {
	t.Parallel()

	text := "alice: 80\nbob = 45\nmallory: 300\nunknown: 10\nnot a score line\nbob: oops"
	got := ParseScores(text, actors)
	assert.Equal(t, map[string]int{
		"alice":   80,
		"bob":     45,
		"mallory": 100, // clamped
	}, got)

	assert.Empty(t, ParseScores("no scores here", actors))
}

func TestParseSuspect(t *testing.T) {
	t.Parallel()

	suspect, ok := ParseSuspect("SUSPECT: mallory\nREASONING: too many rejected reviews", actors)
	assert.True(t, ok)
	assert.Equal(t, "mallory", suspect)

	_, ok = ParseSuspect("SUSPECT: NONE", actors)
	assert.False(t, ok)

	_, ok = ParseSuspect("SUSPECT: zorro", actors)
	assert.False(t, ok)

	_, ok = ParseSuspect("I have my doubts about mallory", actors)
	assert.False(t, ok, "a suspect needs an explicit SUSPECT line")
}

// A cast where one name is a substring of another must not mis-target
// decisions, scores, or suspects.
func TestActorMatchingWithSubstringNames(t *testing.T) {
	t.Parallel()

	cast := []string{"al", "mallory"}

	d := ClassifyDecision("ACTION: private_message\nTARGET: mallory", cast)
	assert.Equal(t, "mallory", d.Target)

	d = ClassifyDecision("ACTION: private_message\nTARGET: al", cast)
	assert.Equal(t, "al", d.Target)

	assert.Equal(t, map[string]int{"mallory": 80}, ParseScores("mallory: 80", cast))
	assert.Equal(t, map[string]int{"al": 30}, ParseScores("al: 30", cast))

	suspect, ok := ParseSuspect("SUSPECT: mallory", cast)
	assert.True(t, ok)
	assert.Equal(t, "mallory", suspect)

	_, ok = ParseSuspect("SUSPECT: malloryx", cast)
	assert.False(t, ok, "a name inside a longer word is not a mention")
}

func TestParseRoleGuesses(t *testing.T) {
	t.Parallel()

	text := "alice: worker\nbob is probably the honeypot\nmallory: SABOTEUR for sure\nsomeone: worker"
	got := ParseRoleGuesses(text, actors)
	assert.Equal(t, map[string]string{
		"alice":   "worker",
		"bob":     "honeypot",
		"mallory": "saboteur",
	}, got)
}

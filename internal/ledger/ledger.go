// Package ledger keeps the points bookkeeping for a game run. All awards and
// penalties flow through a single mutation primitive, AddPoints, so the entry
// log is a complete account of how every score came to be.
package ledger

import "sort"

// Points holds the configurable award constants.
type Points struct {
	ApprovedSolution      int // to the author when a submission is approved
	ReviewCompleted       int // to the reviewer on every completed review
	CovertMarkerBonus     int // to a Saboteur author: marker + approved + real defect
	MarkerNoDefectPenalty int // applied once at game end per bug-free marker submission
	DetectionBonus        int // to a Honeypot per correctly eliminated Saboteur
	BestDetectiveBonus    int // to the most accurate role-betting guesser
}

// DefaultPoints mirrors the standard tournament constants.
func DefaultPoints() Points {
	return Points{
		ApprovedSolution:      10,
		ReviewCompleted:       2,
		CovertMarkerBonus:     5,
		MarkerNoDefectPenalty: 10,
		DetectionBonus:        15,
		BestDetectiveBonus:    10,
	}
}

// Entry records a single score mutation.
type Entry struct {
	Actor  string `json:"actor"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// Standing is one leaderboard row.
type Standing struct {
	Actor string `json:"actor"`
	Score int    `json:"score"`
}

// Ledger tracks cumulative scores. It is not safe for concurrent use; the
// engine owns it and dispatches turns sequentially.
type Ledger struct {
	points  Points
	scores  map[string]int
	entries []Entry
}

// New creates an empty ledger with the given award constants.
func New(points Points) *Ledger {
	return &Ledger{
		points: points,
		scores: make(map[string]int),
	}
}

// InitActor registers an actor with a zero score.
func (l *Ledger) InitActor(id string) {
	if _, ok := l.scores[id]; !ok {
		l.scores[id] = 0
	}
}

// AddPoints is the single mutation primitive. Every award path goes through
// here so the entry log stays complete.
func (l *Ledger) AddPoints(actor string, delta int, reason string) {
	l.InitActor(actor)
	l.scores[actor] += delta
	l.entries = append(l.entries, Entry{Actor: actor, Delta: delta, Reason: reason})
}

// AwardApproval credits the author of an approved submission.
func (l *Ledger) AwardApproval(author string) {
	l.AddPoints(author, l.points.ApprovedSolution, "approved solution")
}

// AwardReview credits a reviewer for a completed review, regardless of the
// decision.
func (l *Ledger) AwardReview(reviewer string) {
	l.AddPoints(reviewer, l.points.ReviewCompleted, "completed review")
}

// AwardMarkerBonus credits a Saboteur whose marked, defective submission was
// approved.
func (l *Ledger) AwardMarkerBonus(author string) {
	l.AddPoints(author, l.points.CovertMarkerBonus, "covert marker bonus")
}

// ApplyMarkerPenalty debits a Saboteur for one marker-without-defect
// submission. Deferred to game end; the defect heuristic is unreliable at
// submission time and authors should not be double-penalized before all
// evidence is in.
func (l *Ledger) ApplyMarkerPenalty(author string) {
	l.AddPoints(author, -l.points.MarkerNoDefectPenalty, "covert marker without defect")
}

// AwardDetection credits a Honeypot for a correctly eliminated Saboteur.
func (l *Ledger) AwardDetection(honeypot string) {
	l.AddPoints(honeypot, l.points.DetectionBonus, "saboteur detected")
}

// AwardBestDetective credits the most accurate role-betting guesser.
func (l *Ledger) AwardBestDetective(actor string) {
	l.AddPoints(actor, l.points.BestDetectiveBonus, "best role detective")
}

// Score returns an actor's cumulative score.
func (l *Ledger) Score(actor string) int {
	return l.scores[actor]
}

// Scores returns a copy of all cumulative scores.
func (l *Ledger) Scores() map[string]int {
	out := make(map[string]int, len(l.scores))
	for k, v := range l.scores {
		out[k] = v
	}
	return out
}

// Entries returns the full mutation log in order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Leaderboard returns standings sorted by score descending, ties broken by
// actor id for stable output.
func (l *Ledger) Leaderboard() []Standing {
	out := make([]Standing, 0, len(l.scores))
	for actor, score := range l.scores {
		out = append(out, Standing{Actor: actor, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Actor < out[j].Actor
	})
	return out
}

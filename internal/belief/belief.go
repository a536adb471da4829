// Package belief tracks what each actor currently believes about every other
// actor. Beliefs are keyed by (owner, kind, target); a missing entry means "no
// opinion yet", which is deliberately distinct from a score of zero.
package belief

import "github.com/arenalabs/saboteur-arena/internal/roster"

// Kind identifies which hidden property a belief map estimates.
type Kind int

const (
	// SaboteurLikelihood is a Honeypot's (or Saboteur ally-hunting) estimate
	// that a peer is a Saboteur.
	SaboteurLikelihood Kind = iota
	// HoneypotLikelihood estimates that a peer is a Honeypot.
	HoneypotLikelihood
	// AllyLikelihood is a Saboteur's estimate that a peer is a fellow Saboteur.
	AllyLikelihood
	// Efficiency is a Worker's productivity rating of a peer.
	Efficiency
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case SaboteurLikelihood:
		return "saboteur_likelihood"
	case HoneypotLikelihood:
		return "honeypot_likelihood"
	case AllyLikelihood:
		return "ally_likelihood"
	case Efficiency:
		return "efficiency"
	default:
		return "unknown"
	}
}

// KindsFor returns the map kinds an actor of the given role maintains. A
// Worker tracks only efficiency, never suspicion.
func KindsFor(role roster.Role) []Kind {
	switch role {
	case roster.Honeypot:
		return []Kind{SaboteurLikelihood, HoneypotLikelihood}
	case roster.Saboteur:
		return []Kind{HoneypotLikelihood, AllyLikelihood}
	default:
		return []Kind{Efficiency}
	}
}

// Store holds all belief maps for a run. The engine owns it; updates happen
// only during the owning actor's turn, so no locking is needed.
type Store struct {
	scores map[string]map[Kind]map[string]int
}

// NewStore creates an empty belief store.
func NewStore() *Store {
	return &Store{scores: make(map[string]map[Kind]map[string]int)}
}

// Set records a belief, clamping the score into [0,100].
func (s *Store) Set(owner string, kind Kind, target string, score int) {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	byKind, ok := s.scores[owner]
	if !ok {
		byKind = make(map[Kind]map[string]int)
		s.scores[owner] = byKind
	}
	byTarget, ok := byKind[kind]
	if !ok {
		byTarget = make(map[string]int)
		byKind[kind] = byTarget
	}
	byTarget[target] = score
}

// Get returns a belief score. The second return value distinguishes "no
// opinion yet" from a recorded zero.
func (s *Store) Get(owner string, kind Kind, target string) (int, bool) {
	score, ok := s.scores[owner][kind][target]
	return score, ok
}

// Merge applies a batch of scores produced by one update pass. Targets absent
// from the batch keep their previous values; there is no decay to a default.
func (s *Store) Merge(owner string, kind Kind, scores map[string]int) {
	for target, score := range scores {
		s.Set(owner, kind, target, score)
	}
}

// Map returns a copy of one belief map. Nil if the owner has no entries of
// that kind.
func (s *Store) Map(owner string, kind Kind) map[string]int {
	src := s.scores[owner][kind]
	if src == nil {
		return nil
	}
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// TopTarget returns the target with the highest score in a map, along with the
// score. ok is false when the map is empty. Ties go to the lexicographically
// smallest target so results are deterministic.
func (s *Store) TopTarget(owner string, kind Kind) (target string, score int, ok bool) {
	for t, v := range s.scores[owner][kind] {
		if !ok || v > score || (v == score && t < target) {
			target, score, ok = t, v, true
		}
	}
	return target, score, ok
}

// Snapshot returns all belief maps keyed by owner then kind name, for the run
// summary.
func (s *Store) Snapshot() map[string]map[string]map[string]int {
	out := make(map[string]map[string]map[string]int, len(s.scores))
	for owner, byKind := range s.scores {
		out[owner] = make(map[string]map[string]int, len(byKind))
		for kind, byTarget := range byKind {
			m := make(map[string]int, len(byTarget))
			for target, score := range byTarget {
				m[target] = score
			}
			out[owner][kind.String()] = m
		}
	}
	return out
}

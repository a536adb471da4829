// Package roster holds the cast of a game run: who is playing, which hidden
// role each actor carries, and the order in which actors take their turns.
//
// The turn order is built once before round 1 and never recomputed. Eliminated
// actors are marked inactive and skipped; their slot in the order is preserved
// so historical data keyed by position stays stable.
package roster

import (
	"fmt"
	"sort"
	"strings"
)

// Role is an actor's hidden role.
type Role int

const (
	Worker Role = iota
	Saboteur
	Honeypot
)

// String returns the string representation of a role.
func (r Role) String() string {
	switch r {
	case Worker:
		return "worker"
	case Saboteur:
		return "saboteur"
	case Honeypot:
		return "honeypot"
	default:
		return "unknown"
	}
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "worker":
		return Worker, nil
	case "saboteur":
		return Saboteur, nil
	case "honeypot":
		return Honeypot, nil
	default:
		return Worker, fmt.Errorf("unknown role %q", s)
	}
}

// Actor is a cast member. Actors are never deleted; elimination flips Active.
type Actor struct {
	ID     string
	Role   Role
	Active bool
}

// Bias controls the priority range each role is spread across when the turn
// order is built. Lower priority acts earlier.
type Bias struct {
	Worker   [2]float64
	Saboteur [2]float64
	Honeypot [2]float64
}

// DefaultBias spreads Workers early, offsets Saboteurs so they interleave with
// Workers, and pushes Honeypots late so they have more material to judge.
func DefaultBias() Bias {
	return Bias{
		Worker:   [2]float64{0, 60},
		Saboteur: [2]float64{10, 70},
		Honeypot: [2]float64{40, 100},
	}
}

// loneHoneypotPriority pins a single Honeypot near the back of the order.
const loneHoneypotPriority = 80

// Roster tracks the actor set and the fixed turn order.
type Roster struct {
	actors []*Actor
	byID   map[string]*Actor
	order  []string
}

// New creates a roster from the configured cast. Order of the input slice is
// the within-role ordering used when priorities are assigned.
func New(actors []Actor) (*Roster, error) {
	if len(actors) < 2 {
		return nil, fmt.Errorf("roster requires at least 2 actors, got %d", len(actors))
	}

	r := &Roster{byID: make(map[string]*Actor, len(actors))}
	for i := range actors {
		a := actors[i]
		if a.ID == "" {
			return nil, fmt.Errorf("actor %d has an empty id", i)
		}
		if _, dup := r.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate actor id %q", a.ID)
		}
		a.Active = true
		copied := a
		r.actors = append(r.actors, &copied)
		r.byID[a.ID] = &copied
	}
	return r, nil
}

// Get returns the actor with the given id.
func (r *Roster) Get(id string) (*Actor, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Actors returns all actors, active or not, in configuration order.
func (r *Roster) Actors() []*Actor {
	out := make([]*Actor, len(r.actors))
	copy(out, r.actors)
	return out
}

// ActiveIDs returns the ids of all active actors in configuration order.
func (r *Roster) ActiveIDs() []string {
	var out []string
	for _, a := range r.actors {
		if a.Active {
			out = append(out, a.ID)
		}
	}
	return out
}

// Remove marks an actor inactive. The turn order is not rebuilt; ActiveOrder
// simply stops yielding the actor. Removing an unknown or already inactive
// actor is a no-op.
func (r *Roster) Remove(id string) {
	if a, ok := r.byID[id]; ok {
		a.Active = false
	}
}

// ActiveCount returns the number of actors still in the game.
func (r *Roster) ActiveCount() int {
	n := 0
	for _, a := range r.actors {
		if a.Active {
			n++
		}
	}
	return n
}

// SaboteurCount returns the number of active Saboteurs.
func (r *Roster) SaboteurCount() int {
	n := 0
	for _, a := range r.actors {
		if a.Active && a.Role == Saboteur {
			n++
		}
	}
	return n
}

// BuildOrder computes the turn order and fixes it for the rest of the game.
//
// Each actor gets a real-valued priority from its role's bias range and its
// position within that role's group; the list is sorted ascending and a single
// greedy pass breaks up adjacent same-role actors where a differing-role actor
// is available later in the sequence.
func (r *Roster) BuildOrder(bias Bias) []string {
	type slot struct {
		actor    *Actor
		priority float64
	}

	counts := map[Role]int{}
	for _, a := range r.actors {
		counts[a.Role]++
	}

	slots := make([]slot, 0, len(r.actors))
	indexInRole := map[Role]int{}
	for _, a := range r.actors {
		i := indexInRole[a.Role]
		indexInRole[a.Role]++

		lo, hi := bias.rangeFor(a.Role)
		n := counts[a.Role]
		p := lo + (hi-lo)*(float64(i)+0.5)/float64(n)
		if a.Role == Honeypot && n == 1 {
			p = loneHoneypotPriority
		}
		slots = append(slots, slot{actor: a, priority: p})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].priority < slots[j].priority
	})

	// De-cluster: swap forward a differing-role actor whenever two same-role
	// actors end up adjacent. If none remains, accept the repeat.
	for i := 1; i < len(slots); i++ {
		if slots[i].actor.Role != slots[i-1].actor.Role {
			continue
		}
		for j := i + 1; j < len(slots); j++ {
			if slots[j].actor.Role != slots[i-1].actor.Role {
				slots[i], slots[j] = slots[j], slots[i]
				break
			}
		}
	}

	r.order = make([]string, len(slots))
	for i, s := range slots {
		r.order[i] = s.actor.ID
	}
	return r.Order()
}

// Order returns the fixed turn order, including inactive actors.
func (r *Roster) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ActiveOrder returns the fixed turn order filtered to active actors.
func (r *Roster) ActiveOrder() []string {
	var out []string
	for _, id := range r.order {
		if a, ok := r.byID[id]; ok && a.Active {
			out = append(out, id)
		}
	}
	return out
}

func (b Bias) rangeFor(role Role) (float64, float64) {
	switch role {
	case Saboteur:
		return b.Saboteur[0], b.Saboteur[1]
	case Honeypot:
		return b.Honeypot[0], b.Honeypot[1]
	default:
		return b.Worker[0], b.Worker[1]
	}
}

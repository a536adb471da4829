// Package problems loads the coding-problem pool and assigns problems to
// actors. The pool is a YAML file of problems with fixture test cases; no
// code is ever executed, the fixtures only anchor pass/fail counting.
package problems

import (
	"fmt"
	"os"
	"sort"

	rand "math/rand/v2"

	"gopkg.in/yaml.v3"
)

// Example is a worked input/output pair shown to actors.
type Example struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Explanation string `yaml:"explanation"`
}

// TestCase is a fixture case. Edge cases are the ones an injected defect is
// assumed to break.
type TestCase struct {
	Input    string `yaml:"input"`
	Expected string `yaml:"expected"`
	Edge     bool   `yaml:"edge"`
}

// Problem is one pool entry.
type Problem struct {
	ID          int
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Signature   string     `yaml:"signature"`
	Examples    []Example  `yaml:"examples"`
	TestCases   []TestCase `yaml:"test_cases"`
}

// Format renders the problem the way it is presented to an actor.
func (p *Problem) Format() string {
	out := fmt.Sprintf("Problem %d: %s\n\n%s\n\nFunction signature: %s\n", p.ID, p.Title, p.Description, p.Signature)
	for _, ex := range p.Examples {
		out += fmt.Sprintf("\nInput: %s\nOutput: %s\nExplanation: %s\n", ex.Input, ex.Output, ex.Explanation)
	}
	return out
}

// Pool holds the full problem set for a run.
type Pool struct {
	problems map[int]*Problem
	ids      []int
}

type poolFile struct {
	Problems map[int]*Problem `yaml:"problems"`
}

// Load reads a pool from a YAML file.
func Load(path string) (*Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problems file: %w", err)
	}
	return Parse(raw)
}

// Parse builds a pool from YAML bytes.
func Parse(raw []byte) (*Pool, error) {
	var pf poolFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse problems file: %w", err)
	}
	if len(pf.Problems) == 0 {
		return nil, fmt.Errorf("problems file contains no problems")
	}

	pool := &Pool{problems: make(map[int]*Problem, len(pf.Problems))}
	for id, p := range pf.Problems {
		p.ID = id
		pool.problems[id] = p
		pool.ids = append(pool.ids, id)
	}
	sort.Ints(pool.ids)
	return pool, nil
}

// FromProblems builds a pool directly, used by tests and the simulator.
func FromProblems(list []*Problem) *Pool {
	pool := &Pool{problems: make(map[int]*Problem, len(list))}
	for _, p := range list {
		pool.problems[p.ID] = p
		pool.ids = append(pool.ids, p.ID)
	}
	sort.Ints(pool.ids)
	return pool
}

// Get returns a problem by id.
func (p *Pool) Get(id int) (*Problem, bool) {
	prob, ok := p.problems[id]
	return prob, ok
}

// IDs returns all problem ids in ascending order.
func (p *Pool) IDs() []int {
	out := make([]int, len(p.ids))
	copy(out, p.ids)
	return out
}

// Len returns the pool size.
func (p *Pool) Len() int {
	return len(p.ids)
}

// Assign hands each actor a problem, avoiding ids already assigned while any
// remain; once the pool is exhausted, already-assigned ids are reused.
func (p *Pool) Assign(actors []string, assigned map[int]bool, rng *rand.Rand) map[string]int {
	out := make(map[string]int, len(actors))
	var available []int
	for _, id := range p.ids {
		if !assigned[id] {
			available = append(available, id)
		}
	}

	for _, actor := range actors {
		if len(available) == 0 {
			// Pool exhausted: reuse is acceptable fallback.
			out[actor] = p.ids[rng.IntN(len(p.ids))]
			continue
		}
		i := rng.IntN(len(available))
		id := available[i]
		available = append(available[:i], available[i+1:]...)
		out[actor] = id
		assigned[id] = true
	}
	return out
}

// NextUnassigned picks a previously unassigned problem, or reuses one when
// the pool is exhausted.
func (p *Pool) NextUnassigned(assigned map[int]bool, rng *rand.Rand) *Problem {
	var available []int
	for _, id := range p.ids {
		if !assigned[id] {
			available = append(available, id)
		}
	}
	var id int
	if len(available) > 0 {
		id = available[rng.IntN(len(available))]
	} else {
		id = p.ids[rng.IntN(len(p.ids))]
	}
	assigned[id] = true
	return p.problems[id]
}

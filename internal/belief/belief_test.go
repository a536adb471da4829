package belief

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalabs/saboteur-arena/internal/roster"
)

func TestSetClampsRange(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("hp", SaboteurLikelihood, "mallory", 150)
	s.Set("hp", SaboteurLikelihood, "alice", -20)

	score, ok := s.Get("hp", SaboteurLikelihood, "mallory")
	require.True(t, ok)
	assert.Equal(t, 100, score)

	score, ok = s.Get("hp", SaboteurLikelihood, "alice")
	require.True(t, ok)
	assert.Equal(t, 0, score)
}

func TestAbsenceIsNotZero(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("hp", SaboteurLikelihood, "alice", 0)

	_, ok := s.Get("hp", SaboteurLikelihood, "bob")
	assert.False(t, ok, "never-rated target must read as no opinion")

	score, ok := s.Get("hp", SaboteurLikelihood, "alice")
	require.True(t, ok, "recorded zero is a real opinion")
	assert.Equal(t, 0, score)
}

func TestMergeKeepsUnmentionedTargets(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("hp", SaboteurLikelihood, "alice", 30)
	s.Set("hp", SaboteurLikelihood, "bob", 60)

	s.Merge("hp", SaboteurLikelihood, map[string]int{"bob": 80})

	score, _ := s.Get("hp", SaboteurLikelihood, "alice")
	assert.Equal(t, 30, score, "target absent from batch keeps its value")
	score, _ = s.Get("hp", SaboteurLikelihood, "bob")
	assert.Equal(t, 80, score)
}

func TestKindsAreIndependent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("hp", SaboteurLikelihood, "alice", 90)

	_, ok := s.Get("hp", HoneypotLikelihood, "alice")
	assert.False(t, ok)
	_, ok = s.Get("other", SaboteurLikelihood, "alice")
	assert.False(t, ok)
}

func TestTopTarget(t *testing.T) {
	t.Parallel()

	s := NewStore()
	_, _, ok := s.TopTarget("hp", SaboteurLikelihood)
	assert.False(t, ok)

	s.Set("hp", SaboteurLikelihood, "carol", 70)
	s.Set("hp", SaboteurLikelihood, "bob", 70)
	s.Set("hp", SaboteurLikelihood, "alice", 10)

	target, score, ok := s.TopTarget("hp", SaboteurLikelihood)
	require.True(t, ok)
	assert.Equal(t, 70, score)
	assert.Equal(t, "bob", target, "ties break to the smallest id")
}

func TestKindsFor(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t, []Kind{SaboteurLikelihood, HoneypotLikelihood}, KindsFor(roster.Honeypot))
	assert.ElementsMatch(t, []Kind{HoneypotLikelihood, AllyLikelihood}, KindsFor(roster.Saboteur))
	assert.ElementsMatch(t, []Kind{Efficiency}, KindsFor(roster.Worker))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("hp", SaboteurLikelihood, "mallory", 85)
	s.Set("w1", Efficiency, "w2", 50)

	snap := s.Snapshot()
	assert.Equal(t, 85, snap["hp"]["saboteur_likelihood"]["mallory"])
	assert.Equal(t, 50, snap["w1"]["efficiency"]["w2"])

	// Snapshot is a copy.
	snap["hp"]["saboteur_likelihood"]["mallory"] = 1
	score, _ := s.Get("hp", SaboteurLikelihood, "mallory")
	assert.Equal(t, 85, score)
}

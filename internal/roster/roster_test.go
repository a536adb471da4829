package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCast() []Actor {
	return []Actor{
		{ID: "alice", Role: Worker},
		{ID: "bob", Role: Worker},
		{ID: "carol", Role: Worker},
		{ID: "mallory", Role: Saboteur},
		{ID: "eve", Role: Saboteur},
		{ID: "hp", Role: Honeypot},
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		actors []Actor
		errMsg string
	}{
		{"too few", []Actor{{ID: "solo", Role: Worker}}, "at least 2 actors"},
		{"empty id", []Actor{{ID: "a", Role: Worker}, {ID: "", Role: Worker}}, "empty id"},
		{"duplicate id", []Actor{{ID: "a", Role: Worker}, {ID: "a", Role: Saboteur}}, "duplicate actor id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.actors)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewActivatesEveryone(t *testing.T) {
	t.Parallel()

	r, err := New(testCast())
	require.NoError(t, err)
	assert.Equal(t, 6, r.ActiveCount())
	assert.Equal(t, 2, r.SaboteurCount())
}

func TestBuildOrderIsDeterministic(t *testing.T) {
	t.Parallel()

	r1, err := New(testCast())
	require.NoError(t, err)
	r2, err := New(testCast())
	require.NoError(t, err)

	assert.Equal(t, r1.BuildOrder(DefaultBias()), r2.BuildOrder(DefaultBias()))
}

func TestBuildOrderIncludesEveryoneOnce(t *testing.T) {
	t.Parallel()

	r, err := New(testCast())
	require.NoError(t, err)
	order := r.BuildOrder(DefaultBias())
	require.Len(t, order, 6)

	seen := map[string]bool{}
	for _, id := range order {
		assert.False(t, seen[id], "actor %s appears twice", id)
		seen[id] = true
	}
}

func TestBuildOrderDeclusters(t *testing.T) {
	t.Parallel()

	// Three workers and three saboteurs overlap heavily in priority range;
	// the de-cluster pass should avoid adjacent same-role runs where a swap
	// candidate exists.
	r, err := New([]Actor{
		{ID: "w1", Role: Worker},
		{ID: "w2", Role: Worker},
		{ID: "w3", Role: Worker},
		{ID: "s1", Role: Saboteur},
		{ID: "s2", Role: Saboteur},
		{ID: "s3", Role: Saboteur},
	})
	require.NoError(t, err)

	order := r.BuildOrder(DefaultBias())
	for i := 1; i < len(order); i++ {
		prev, _ := r.Get(order[i-1])
		cur, _ := r.Get(order[i])
		assert.NotEqual(t, prev.Role, cur.Role, "adjacent same-role actors at %d: %v", i, order)
	}
}

func TestBuildOrderLoneHoneypotActsLate(t *testing.T) {
	t.Parallel()

	r, err := New(testCast())
	require.NoError(t, err)
	order := r.BuildOrder(DefaultBias())

	pos := -1
	for i, id := range order {
		if id == "hp" {
			pos = i
		}
	}
	require.NotEqual(t, -1, pos)
	// Pinned at priority 80: behind all workers ([0,60]) and saboteurs ([10,70]).
	assert.Equal(t, len(order)-1, pos)
}

func TestRemoveKeepsOrderStable(t *testing.T) {
	t.Parallel()

	r, err := New(testCast())
	require.NoError(t, err)
	order := r.BuildOrder(DefaultBias())

	r.Remove("mallory")
	assert.Equal(t, order, r.Order(), "full order must not change on elimination")
	assert.NotContains(t, r.ActiveOrder(), "mallory")
	assert.Len(t, r.ActiveOrder(), 5)
	assert.Equal(t, 1, r.SaboteurCount())

	// Removing again is a no-op.
	r.Remove("mallory")
	r.Remove("nobody")
	assert.Equal(t, 5, r.ActiveCount())
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in   string
		want Role
	}{
		{"worker", Worker},
		{"Saboteur", Saboteur},
		{" HONEYPOT ", Honeypot},
	} {
		got, err := ParseRole(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseRole("wizard")
	assert.Error(t, err)
}

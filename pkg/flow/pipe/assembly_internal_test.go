package pipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadsPanicsOnCycle(t *testing.T) {
	t.Parallel()

	head := NewHead("in")
	each, err := NewEach(head)
	require.NoError(t, err)
	head.previous = []*Node{each}

	assert.Panics(t, func() { each.Heads() })
	assert.ErrorIs(t, CheckAcyclic(each), ErrCycle)
}

func TestResolveContract(t *testing.T) {
	t.Parallel()

	head := NewHead("in")
	_, err := Resolve(head, nil)
	assert.ErrorIs(t, err, ErrResolutionContract)

	lhs := NewHead("lhs")
	rhs := NewHead("rhs")
	merged, err := NewMerge(Pipes(lhs, rhs))
	require.NoError(t, err)
	_, ok := merged.kind.(ScopeResolver)
	assert.True(t, ok)
	_, ok = head.kind.(ScopeResolver)
	assert.False(t, ok)
}

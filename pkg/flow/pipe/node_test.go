package pipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
)

func TestNamesAreInherited(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("words")
	each, err := pipe.NewEach(head)
	require.NoError(t, err)
	renamed, err := pipe.NewPipe("tokens", each)
	require.NoError(t, err)
	after, err := pipe.NewEach(renamed)
	require.NoError(t, err)

	assert.Equal(t, "words", each.Name())
	assert.Equal(t, "tokens", after.Name())
	assert.Equal(t, "Each('tokens')", after.String())
}

func TestAnonymousBranch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pipe.Anonymous, pipe.NewHead("").Name())
}

func TestConstructorsRejectNilPrevious(t *testing.T) {
	t.Parallel()

	_, err := pipe.NewEach(nil)
	require.ErrorIs(t, err, pipe.ErrPreviousMustBeSet)
	_, err = pipe.NewPipe("x", nil)
	require.ErrorIs(t, err, pipe.ErrPreviousMustBeSet)
	_, err = pipe.NewGroupBy(pipe.Pipes(nil), []string{"k"})
	require.ErrorIs(t, err, pipe.ErrPreviousMustBeSet)
}

func TestIdentityEquality(t *testing.T) {
	t.Parallel()

	first := pipe.NewHead("a")
	second := pipe.NewHead("a")

	assert.False(t, first.Equal(second))
	assert.True(t, first.Equal(first))
	assert.True(t, first.SameName(second))
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, []string{"a"}, pipe.Names(first, second))
}

func TestSubAssemblyTails(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	lhs, err := pipe.NewPipe("lhs", head)
	require.NoError(t, err)
	rhs, err := pipe.NewPipe("rhs", head)
	require.NoError(t, err)

	single, err := pipe.NewSubAssembly("", pipe.Pipes(lhs))
	require.NoError(t, err)
	_, err = pipe.NewEach(single)
	require.NoError(t, err)

	double, err := pipe.NewSubAssembly("", pipe.Pipes(lhs, rhs))
	require.NoError(t, err)
	assert.Equal(t, "lhs,rhs", double.Name())
	_, err = pipe.NewEach(double)
	assert.ErrorIs(t, err, pipe.ErrMultipleTails)
	_, err = pipe.NewPipe("x", double)
	assert.ErrorIs(t, err, pipe.ErrMultipleTails)

	assert.Equal(t, []*pipe.Node{lhs, rhs}, pipe.Unwind(double))
	assert.Equal(t, []string{"in", "lhs", "rhs"}, pipe.Names(double))
}

func TestNestedSubAssemblyIsUnwound(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	lhs, err := pipe.NewPipe("lhs", head)
	require.NoError(t, err)
	rhs, err := pipe.NewPipe("rhs", head)
	require.NoError(t, err)
	inner, err := pipe.NewSubAssembly("inner", pipe.Pipes(lhs, rhs))
	require.NoError(t, err)
	outer, err := pipe.NewSubAssembly("outer", pipe.Pipes(inner))
	require.NoError(t, err)

	assert.Equal(t, []*pipe.Node{lhs, rhs}, pipe.Unwind(outer))
}

func TestHeads(t *testing.T) {
	t.Parallel()

	users := pipe.NewHead("users")
	orders := pipe.NewHead("orders")
	each, err := pipe.NewEach(orders)
	require.NoError(t, err)
	joined, err := pipe.NewCoGroup(pipe.Pipes(users, each, users), [][]string{{"id"}})
	require.NoError(t, err)

	assert.Equal(t, []*pipe.Node{users, orders}, joined.Heads())
	assert.Equal(t, []*pipe.Node{users}, users.Heads())
}

func TestDuplicateNames(t *testing.T) {
	t.Parallel()

	first := pipe.NewHead("a")
	second := pipe.NewHead("a")
	third := pipe.NewHead("b")

	assert.Equal(t, []string{"a"}, pipe.DuplicateNames(first, second, third))
	assert.Empty(t, pipe.DuplicateNames(first, first, third))
}

func TestResolvePrevious(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	group, err := pipe.NewGroupBy(pipe.Pipes(head), []string{"k"})
	require.NoError(t, err)
	renamed, err := pipe.NewPipe("grouped", group)
	require.NoError(t, err)

	resolved, err := pipe.ResolvePrevious(renamed)
	require.NoError(t, err)
	assert.Same(t, group, resolved)

	resolved, err = pipe.ResolvePrevious(head)
	require.NoError(t, err)
	assert.Same(t, head, resolved)

	lhs, err := pipe.NewPipe("lhs", head)
	require.NoError(t, err)
	rhs, err := pipe.NewPipe("rhs", head)
	require.NoError(t, err)
	sub, err := pipe.NewSubAssembly("both", pipe.Pipes(lhs, rhs))
	require.NoError(t, err)
	_, err = pipe.ResolvePrevious(sub)
	assert.ErrorIs(t, err, pipe.ErrAmbiguousResolution)
	assert.Contains(t, err.Error(), "cannot resolve composite with multiple tails")
}

func TestEveryNeedsGroup(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	_, err := pipe.NewEvery(head)
	assert.ErrorIs(t, err, pipe.ErrEveryWithoutGroup)

	group, err := pipe.NewGroupBy(pipe.Pipes(head), []string{"k"})
	require.NoError(t, err)
	renamed, err := pipe.NewPipe("grouped", group)
	require.NoError(t, err)
	first, err := pipe.NewEvery(renamed)
	require.NoError(t, err)
	_, err = pipe.NewEvery(first)
	require.NoError(t, err)

	_, err = pipe.NewEvery(group, pipe.WithOutput(pipe.OutputSwap))
	assert.ErrorIs(t, err, pipe.ErrUnsupportedOutput)
}

func TestSpliceInputs(t *testing.T) {
	t.Parallel()

	lhs := pipe.NewHead("lhs")
	rhs := pipe.NewHead("rhs")

	_, err := pipe.NewMerge(pipe.Pipes(lhs))
	assert.ErrorIs(t, err, pipe.ErrSpliceInputs)
	_, err = pipe.NewCoGroup(pipe.Pipes(lhs), [][]string{{"id"}})
	assert.ErrorIs(t, err, pipe.ErrSpliceInputs)
	_, err = pipe.NewGroupBy(pipe.Pipes(lhs), nil)
	assert.ErrorIs(t, err, pipe.ErrGroupFieldsMustBeSet)
	_, err = pipe.NewHashJoin(pipe.Pipes(lhs, rhs), [][]string{{"id"}, {}})
	assert.ErrorIs(t, err, pipe.ErrGroupFieldsMustBeSet)

	merged, err := pipe.NewMerge(pipe.Pipes(lhs, rhs))
	require.NoError(t, err)
	assert.Equal(t, "lhs+rhs", merged.Name())
	assert.True(t, merged.IsSplice())
	assert.Equal(t, pipe.CategorySplice, pipe.CategoryOf(merged.Kind()))
}

func TestOverlaysAreEmptyByDefault(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	assert.False(t, head.HasConfigDef())
	assert.False(t, head.HasProcessConfigDef())

	each, err := pipe.NewEach(head, pipe.WithConfig("a", 1), pipe.WithProcessConfig("b", "x"))
	require.NoError(t, err)
	assert.True(t, each.HasConfigDef())
	assert.True(t, each.HasProcessConfigDef())
	v, ok := each.ConfigDef().Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestHeadCarriesOptions(t *testing.T) {
	t.Parallel()

	trap := model.NewTap(model.RoleWrite, "trap/in")
	head := pipe.NewHead("in", pipe.WithConfig("a", 1), pipe.WithProcessConfig("b", "x"), pipe.WithTrap(trap))
	assert.Equal(t, "in", head.Name())
	assert.Empty(t, head.Previous())
	assert.IsType(t, &pipe.Branch{}, head.Kind())
	assert.True(t, head.HasConfigDef())
	v, ok := head.ProcessConfigDef().Get("b")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, []model.Tap{trap}, head.Traps())
	assert.NotEqual(t, head.ID(), pipe.NewHead("in").ID())
}

func TestParseOutputSelector(t *testing.T) {
	t.Parallel()

	for _, s := range []pipe.OutputSelector{pipe.OutputResults, pipe.OutputAll, pipe.OutputReplace, pipe.OutputSwap} {
		got, ok := pipe.ParseOutputSelector(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, got)
	}
	_, ok := pipe.ParseOutputSelector("bogus")
	assert.False(t, ok)
}

package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flowplan/pkg/flow/element"
	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
	"github.com/askiada/go-flowplan/pkg/flow/scope"
)

// bind flattens the assembly ending at tail and binds a source tap reading fields to every head.
func bind(t *testing.T, tail *pipe.Node, fields map[string][]string) *element.Graph {
	t.Helper()

	g, err := element.FromAssembly(tail)
	require.NoError(t, err)
	for _, n := range g.Nodes() {
		if len(n.Previous()) > 0 {
			continue
		}
		src := element.Source(n.Name(), model.NewTap(model.RoleRead, n.Name(), fields[n.Name()]...))
		require.NoError(t, g.AddElement(src))
		require.NoError(t, g.AddEdge(src, element.Pipe(n)))
	}

	return g
}

func TestResolveWithoutGraph(t *testing.T) {
	t.Parallel()

	_, err := scope.Resolve(nil)
	assert.ErrorIs(t, err, scope.ErrGraphMustBeSet)
}

func TestEachOutputs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts    []pipe.Option
		want    []string
		wantErr error
	}{
		"results": {
			opts: []pipe.Option{pipe.WithArguments("a"), pipe.WithDeclared("x")},
			want: []string{"x"},
		},
		"all": {
			opts: []pipe.Option{pipe.WithArguments("a"), pipe.WithDeclared("x"), pipe.WithOutput(pipe.OutputAll)},
			want: []string{"a", "b", "c", "x"},
		},
		"replace": {
			opts: []pipe.Option{pipe.WithArguments("b"), pipe.WithDeclared("y"), pipe.WithOutput(pipe.OutputReplace)},
			want: []string{"a", "y", "c"},
		},
		"swap": {
			opts: []pipe.Option{pipe.WithArguments("b"), pipe.WithDeclared("y"), pipe.WithOutput(pipe.OutputSwap)},
			want: []string{"a", "c", "y"},
		},
		"filter": {
			opts: []pipe.Option{pipe.WithArguments("a"), pipe.AsFilter()},
			want: []string{"a", "b", "c"},
		},
		"all with collision": {
			opts:    []pipe.Option{pipe.WithDeclared("a"), pipe.WithOutput(pipe.OutputAll)},
			wantErr: model.ErrFieldCollision,
		},
		"missing argument": {
			opts:    []pipe.Option{pipe.WithArguments("z"), pipe.WithDeclared("x")},
			wantErr: model.ErrFieldNotFound,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			head := pipe.NewHead("in")
			each, err := pipe.NewEach(head, tc.opts...)
			require.NoError(t, err)

			res, err := scope.Resolve(bind(t, each, map[string][]string{"in": {"a", "b", "c"}}))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				return
			}
			require.NoError(t, err)
			got, ok := res.Node(each)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Outgoing.Names())
			assert.Equal(t, "in", got.Name)
		})
	}
}

func TestUnknownFieldsStayUnknown(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	each, err := pipe.NewEach(head, pipe.WithArguments("a"), pipe.WithDeclared("x"), pipe.WithOutput(pipe.OutputAll))
	require.NoError(t, err)

	res, err := scope.Resolve(bind(t, each, nil))
	require.NoError(t, err)
	got, ok := res.Node(each)
	require.True(t, ok)
	assert.True(t, got.Outgoing.IsUnknown())
}

func TestChainedAggregations(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	group, err := pipe.NewGroupBy(pipe.Pipes(head), []string{"k"})
	require.NoError(t, err)
	count, err := pipe.NewEvery(group, pipe.WithDeclared("count"))
	require.NoError(t, err)
	sum, err := pipe.NewEvery(count, pipe.WithArguments("v"), pipe.WithDeclared("sum"))
	require.NoError(t, err)

	res, err := scope.Resolve(bind(t, sum, map[string][]string{"in": {"k", "v"}}))
	require.NoError(t, err)

	grouped, ok := res.Node(group)
	require.True(t, ok)
	assert.True(t, grouped.IsGrouped())
	assert.Equal(t, []string{"k"}, grouped.Key.Names())
	assert.Equal(t, []model.GroupingKey{{Branch: "in", Fields: model.NewFields("k")}}, grouped.Grouping)

	counted, ok := res.Node(count)
	require.True(t, ok)
	assert.Equal(t, []string{"k", "count"}, counted.Outgoing.Names())

	summed, ok := res.Node(sum)
	require.True(t, ok)
	assert.Equal(t, []string{"k", "count", "sum"}, summed.Outgoing.Names())
	assert.Equal(t, []string{"v"}, summed.Arguments.Names())
}

func TestGroupByOnMissingField(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	group, err := pipe.NewGroupBy(pipe.Pipes(head), []string{"missing"})
	require.NoError(t, err)

	_, err = scope.Resolve(bind(t, group, map[string][]string{"in": {"k", "v"}}))
	assert.ErrorIs(t, err, model.ErrFieldNotFound)
}

func TestMergeNeedsSameFields(t *testing.T) {
	t.Parallel()

	lhs := pipe.NewHead("lhs")
	rhs := pipe.NewHead("rhs")
	merged, err := pipe.NewMerge(pipe.Pipes(lhs, rhs))
	require.NoError(t, err)

	_, err = scope.Resolve(bind(t, merged, map[string][]string{"lhs": {"a"}, "rhs": {"b"}}))
	assert.ErrorIs(t, err, pipe.ErrMergeFields)

	res, err := scope.Resolve(bind(t, merged, map[string][]string{"lhs": {"a"}, "rhs": {"a"}}))
	require.NoError(t, err)
	got, ok := res.Node(merged)
	require.True(t, ok)
	assert.Equal(t, "lhs+rhs", got.Name)
	assert.Equal(t, []string{"a"}, got.Outgoing.Names())
}

func TestJoins(t *testing.T) {
	t.Parallel()

	lhs := pipe.NewHead("lhs")
	rhs := pipe.NewHead("rhs")
	fields := map[string][]string{"lhs": {"id", "name"}, "rhs": {"ref", "total"}}

	cogroup, err := pipe.NewCoGroup(pipe.Pipes(lhs, rhs), [][]string{{"id"}, {"ref"}})
	require.NoError(t, err)
	res, err := scope.Resolve(bind(t, cogroup, fields))
	require.NoError(t, err)
	got, ok := res.Node(cogroup)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name", "ref", "total"}, got.Outgoing.Names())
	assert.Len(t, got.Grouping, 2)
	assert.Equal(t, []string{"id"}, got.Key.Names())

	join, err := pipe.NewHashJoin(pipe.Pipes(lhs, rhs), [][]string{{"id"}, {"ref"}}, pipe.WithDeclared("a", "b", "c"))
	require.NoError(t, err)
	_, err = scope.Resolve(bind(t, join, fields))
	assert.ErrorIs(t, err, model.ErrFieldSize)
}

func TestEdgeScopes(t *testing.T) {
	t.Parallel()

	head := pipe.NewHead("in")
	each, err := pipe.NewEach(head, pipe.WithDeclared("x"))
	require.NoError(t, err)
	renamed, err := pipe.NewPipe("out", each)
	require.NoError(t, err)

	res, err := scope.Resolve(bind(t, renamed, map[string][]string{"in": {"a"}}))
	require.NoError(t, err)

	edge, ok := res.Edge(element.Pipe(each), element.Pipe(renamed))
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, edge.Outgoing.Names())
	assert.Equal(t, "in", edge.Name)

	out, ok := res.Node(renamed)
	require.True(t, ok)
	assert.Equal(t, "out", out.Name)
	assert.Equal(t, []string{"x"}, out.Outgoing.Names())
}

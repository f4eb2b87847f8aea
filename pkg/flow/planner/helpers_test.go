package planner_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flowplan/pkg/flow/element"
	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
	"github.com/askiada/go-flowplan/pkg/flow/planner"
)

type wordCount struct {
	head  *pipe.Node
	split *pipe.Node
	group *pipe.Node
	count *pipe.Node
}

// newWordCount builds words -> Each(split) -> GroupBy(word) -> Every(count).
func newWordCount(t *testing.T, eachOpts ...pipe.Option) wordCount {
	t.Helper()

	head := pipe.NewHead("words")
	split, err := pipe.NewEach(head, append([]pipe.Option{
		pipe.WithOperation("split"),
		pipe.WithArguments("line"),
		pipe.WithDeclared("word"),
	}, eachOpts...)...)
	require.NoError(t, err)
	group, err := pipe.NewGroupBy(pipe.Pipes(split), []string{"word"})
	require.NoError(t, err)
	count, err := pipe.NewEvery(group, pipe.WithOperation("count"), pipe.WithDeclared("count"))
	require.NoError(t, err)

	return wordCount{head: head, split: split, group: group, count: count}
}

func wordCountTaps() []planner.Option {
	return []planner.Option{
		planner.WithSource("words", model.NewTap(model.RoleRead, "in/words", "line")),
		planner.WithSink("words", model.NewTap(model.RoleWrite, "out/counts")),
	}
}

func sequentialIDs() planner.Option {
	next := 0

	return planner.WithIDGenerator(func() string {
		next++

		return fmt.Sprintf("step-%d", next)
	})
}

func keys(elements []*element.Element) []string {
	res := make([]string, 0, len(elements))
	for _, e := range elements {
		res = append(res, e.Key())
	}

	return res
}

func names(nodes []*pipe.Node) []string {
	res := make([]string, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, n.String())
	}

	return res
}

package assembly_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-flowplan/internal/assembly"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
	"github.com/askiada/go-flowplan/pkg/flow/planner"
)

const wordCount = `
properties:
  queue: default
sources:
  words: {identifier: in/words, fields: [line]}
sinks:
  words: {identifier: out/counts}
traps:
  words: {identifier: trap/words}
pipes:
  - id: head
    kind: head
    name: words
  - id: split
    kind: each
    previous: [head]
    operation: split
    arguments: [line]
    declared: [word]
    output: results
    process_config:
      queue: etl
  - id: group
    kind: groupby
    previous: [split]
    group: [word]
  - id: count
    kind: every
    previous: [group]
    declared: [count]
tails: [count]
`

func TestBuildAndPlan(t *testing.T) {
	t.Parallel()

	f, err := assembly.Parse([]byte(wordCount))
	require.NoError(t, err)
	a, err := f.Build()
	require.NoError(t, err)

	require.Len(t, a.Tails, 1)
	assert.Same(t, a.Pipes["count"], a.Tails[0])
	assert.Equal(t, "Every('words')", a.Tails[0].String())

	plan, err := planner.New(a.Options...).Plan(a.Tails...)
	require.NoError(t, err)
	steps := plan.Steps()
	require.Len(t, steps, 2)

	queue, _ := steps[0].ProcessConfig().Get("queue")
	assert.Equal(t, "etl", queue)
	queue, _ = steps[1].ProcessConfig().Get("queue")
	assert.Equal(t, "default", queue)
	assert.Equal(t, "trap/words", steps[1].TrapMap()["words"].Identifier())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wordcount.yaml")
	require.NoError(t, os.WriteFile(path, []byte(wordCount), 0o600))

	f, err := assembly.Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Pipes, 4)

	_, err = assembly.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownAttributes(t *testing.T) {
	t.Parallel()

	_, err := assembly.Parse([]byte("pipes:\n  - {id: a, kind: head, colour: red}\n"))
	assert.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc  string
		want error
	}{
		"no tails": {
			doc:  "pipes:\n  - {kind: head, name: a}\n",
			want: assembly.ErrTailsMustBeSet,
		},
		"missing id": {
			doc:  "pipes:\n  - {kind: head}\ntails: [a]\n",
			want: assembly.ErrMissingID,
		},
		"duplicate id": {
			doc:  "pipes:\n  - {kind: head, name: a}\n  - {kind: head, name: a}\ntails: [a]\n",
			want: assembly.ErrDuplicateID,
		},
		"forward reference": {
			doc:  "pipes:\n  - {id: b, kind: each, previous: [a]}\n  - {kind: head, name: a}\ntails: [b]\n",
			want: assembly.ErrUnknownPipe,
		},
		"unknown tail": {
			doc:  "pipes:\n  - {kind: head, name: a}\ntails: [b]\n",
			want: assembly.ErrUnknownPipe,
		},
		"unknown kind": {
			doc:  "pipes:\n  - {kind: window, name: a}\ntails: [a]\n",
			want: assembly.ErrUnknownKind,
		},
		"unknown output": {
			doc:  "pipes:\n  - {kind: head, name: a}\n  - {id: b, kind: each, previous: [a], output: most}\ntails: [b]\n",
			want: assembly.ErrUnknownOutput,
		},
		"each with two previous": {
			doc:  "pipes:\n  - {kind: head, name: a}\n  - {kind: head, name: b}\n  - {id: c, kind: each, previous: [a, b]}\ntails: [c]\n",
			want: assembly.ErrPreviousCount,
		},
		"every without group": {
			doc:  "pipes:\n  - {kind: head, name: a}\n  - {id: b, kind: every, previous: [a]}\ntails: [b]\n",
			want: pipe.ErrEveryWithoutGroup,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := assembly.Parse([]byte(tc.doc))
			require.NoError(t, err)
			_, err = f.Build()
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildJoins(t *testing.T) {
	t.Parallel()

	doc := `
pipes:
  - {kind: head, name: users}
  - {kind: head, name: orders}
  - {id: joined, kind: cogroup, previous: [users, orders], group: [id], declared: [id, name, user, total]}
  - {id: out, kind: pipe, name: joined, previous: [joined]}
  - {id: both, kind: subassembly, previous: [users, orders]}
tails: [out]
`
	f, err := assembly.Parse([]byte(doc))
	require.NoError(t, err)
	a, err := f.Build()
	require.NoError(t, err)

	assert.Equal(t, "users+orders", a.Pipes["joined"].Name())
	assert.Equal(t, pipe.CategorySplice, a.Pipes["joined"].Category())
	assert.Equal(t, []*pipe.Node{a.Pipes["users"], a.Pipes["orders"]}, pipe.Unwind(a.Pipes["both"]))
}

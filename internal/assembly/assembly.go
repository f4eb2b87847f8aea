// Package assembly reads pipe assemblies, and the taps they are planned with, from YAML files.
//
// A file lists its pipes in order: a pipe may only read from pipes declared before it.
//
//	sources:
//	  words: {identifier: in/words, fields: [line]}
//	sinks:
//	  words: {identifier: out/counts}
//	pipes:
//	  - {id: head, kind: head, name: words}
//	  - {id: split, kind: each, previous: [head], arguments: [line], declared: [word]}
//	  - {id: group, kind: groupby, previous: [split], group: [word]}
//	  - {id: count, kind: every, previous: [group], declared: [count]}
//	tails: [count]
package assembly

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
	"github.com/askiada/go-flowplan/pkg/flow/planner"
)

// File is the content of an assembly file.
type File struct {
	Properties *model.ConfigDef  `yaml:"properties,omitempty"`
	Sources    map[string]TapDef `yaml:"sources"`
	Sinks      map[string]TapDef `yaml:"sinks"`
	Traps      map[string]TapDef `yaml:"traps,omitempty"`
	Pipes      []PipeDef         `yaml:"pipes"`
	Tails      []string          `yaml:"tails"`
}

// TapDef declares a tap. Fields are only meaningful for sources.
type TapDef struct {
	Identifier string   `yaml:"identifier"`
	Fields     []string `yaml:"fields,omitempty"`
}

// PipeDef declares one pipe. Only the attributes of its kind are read.
type PipeDef struct {
	ID       string   `yaml:"id,omitempty"`
	Kind     string   `yaml:"kind"`
	Name     string   `yaml:"name,omitempty"`
	Previous []string `yaml:"previous,omitempty"`

	Operation string   `yaml:"operation,omitempty"`
	Arguments []string `yaml:"arguments,omitempty"`
	Declared  []string `yaml:"declared,omitempty"`
	Output    string   `yaml:"output,omitempty"`
	Filter    bool     `yaml:"filter,omitempty"`

	Group   []string   `yaml:"group,omitempty"`
	Groups  [][]string `yaml:"groups,omitempty"`
	Sort    []string   `yaml:"sort,omitempty"`
	Reverse bool       `yaml:"reverse,omitempty"`

	Config        *model.ConfigDef `yaml:"config,omitempty"`
	ProcessConfig *model.ConfigDef `yaml:"process_config,omitempty"`
	Trap          *TapDef          `yaml:"trap,omitempty"`
}

// Assembly is a built assembly, ready to be planned.
type Assembly struct {
	Tails   []*pipe.Node
	Options []planner.Option
	// Pipes holds the built pipes by id.
	Pipes map[string]*pipe.Node
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	return Parse(data)
}

// Parse decodes an assembly file. Unknown attributes are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	err := dec.Decode(&f)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse assembly")
	}

	return &f, nil
}

// Build constructs the pipes of the file and the planner options binding its taps.
func (f *File) Build() (*Assembly, error) {
	if len(f.Tails) == 0 {
		return nil, ErrTailsMustBeSet
	}

	a := &Assembly{Pipes: make(map[string]*pipe.Node, len(f.Pipes))}
	for i, def := range f.Pipes {
		id := def.ID
		if id == "" {
			id = def.Name
		}
		if id == "" {
			return nil, errors.Wrapf(ErrMissingID, "pipe %d", i)
		}
		if _, ok := a.Pipes[id]; ok {
			return nil, errors.Wrapf(ErrDuplicateID, "'%s'", id)
		}
		previous, err := a.lookup(def.Previous)
		if err != nil {
			return nil, errors.Wrapf(err, "pipe '%s'", id)
		}
		n, err := def.build(previous)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to build pipe '%s'", id)
		}
		a.Pipes[id] = n
	}

	tails, err := a.lookup(f.Tails)
	if err != nil {
		return nil, errors.Wrap(err, "tails")
	}
	a.Tails = tails
	a.Options = f.options()

	return a, nil
}

func (a *Assembly) lookup(ids []string) ([]*pipe.Node, error) {
	res := make([]*pipe.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := a.Pipes[id]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownPipe, "'%s'", id)
		}
		res = append(res, n)
	}

	return res, nil
}

func (f *File) options() []planner.Option {
	var opts []planner.Option
	for name, tap := range f.Sources {
		opts = append(opts, planner.WithSource(name, model.NewTap(model.RoleRead, tap.Identifier, tap.Fields...)))
	}
	for name, tap := range f.Sinks {
		opts = append(opts, planner.WithSink(name, model.NewTap(model.RoleWrite, tap.Identifier)))
	}
	for name, tap := range f.Traps {
		opts = append(opts, planner.WithTrap(name, model.NewTap(model.RoleWrite, tap.Identifier)))
	}
	if f.Properties != nil {
		opts = append(opts, planner.WithProperties(f.Properties))
	}

	return opts
}

func (def PipeDef) options() ([]pipe.Option, error) {
	var opts []pipe.Option
	if def.Name != "" {
		opts = append(opts, pipe.WithName(def.Name))
	}
	if def.Operation != "" {
		opts = append(opts, pipe.WithOperation(def.Operation))
	}
	if len(def.Arguments) > 0 {
		opts = append(opts, pipe.WithArguments(def.Arguments...))
	}
	if len(def.Declared) > 0 {
		opts = append(opts, pipe.WithDeclared(def.Declared...))
	}
	if def.Output != "" {
		output, ok := pipe.ParseOutputSelector(def.Output)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownOutput, "'%s'", def.Output)
		}
		opts = append(opts, pipe.WithOutput(output))
	}
	if def.Filter {
		opts = append(opts, pipe.AsFilter())
	}
	if len(def.Sort) > 0 {
		opts = append(opts, pipe.WithSortFields(def.Sort...))
	}
	if def.Reverse {
		opts = append(opts, pipe.WithReverse())
	}
	if def.Config != nil {
		def.Config.Each(func(k string, v any) {
			opts = append(opts, pipe.WithConfig(k, v))
		})
	}
	if def.ProcessConfig != nil {
		def.ProcessConfig.Each(func(k string, v any) {
			opts = append(opts, pipe.WithProcessConfig(k, v))
		})
	}
	if def.Trap != nil {
		opts = append(opts, pipe.WithTrap(model.NewTap(model.RoleWrite, def.Trap.Identifier)))
	}

	return opts, nil
}

func (def PipeDef) build(previous []*pipe.Node) (*pipe.Node, error) {
	opts, err := def.options()
	if err != nil {
		return nil, err
	}

	single := func() (*pipe.Node, error) {
		if len(previous) != 1 {
			return nil, errors.Wrapf(ErrPreviousCount, "%s reads from exactly one pipe, got %d", def.Kind, len(previous))
		}

		return previous[0], nil
	}

	switch strings.ToLower(def.Kind) {
	case "head":
		if len(previous) != 0 {
			return nil, errors.Wrapf(ErrPreviousCount, "head reads from no pipe, got %d", len(previous))
		}

		return pipe.NewHead(def.Name, opts...), nil
	case "pipe":
		prev, err := single()
		if err != nil {
			return nil, err
		}

		return pipe.NewPipe(def.Name, prev, opts...)
	case "each":
		prev, err := single()
		if err != nil {
			return nil, err
		}

		return pipe.NewEach(prev, opts...)
	case "every":
		prev, err := single()
		if err != nil {
			return nil, err
		}

		return pipe.NewEvery(prev, opts...)
	case "groupby":
		return pipe.NewGroupBy(previous, def.Group, opts...)
	case "cogroup":
		return pipe.NewCoGroup(previous, def.groups(), opts...)
	case "merge":
		return pipe.NewMerge(previous, opts...)
	case "hashjoin":
		return pipe.NewHashJoin(previous, def.groups(), opts...)
	case "subassembly":
		return pipe.NewSubAssembly(def.Name, previous, opts...)
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "'%s'", def.Kind)
	}
}

// groups accepts a single shared key in group as a shorthand.
func (def PipeDef) groups() [][]string {
	if len(def.Groups) == 0 && len(def.Group) > 0 {
		return [][]string{def.Group}
	}

	return def.Groups
}

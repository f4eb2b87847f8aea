package planner

import (
	"log/slog"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/pkg/flow/element"
	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
	"github.com/askiada/go-flowplan/pkg/flow/scope"
)

// Planner turns pipe assemblies into plans.
type Planner struct {
	sources    map[string]model.Tap
	sinks      map[string]model.Tap
	traps      map[string]model.Tap
	properties *model.ConfigDef
	log        *slog.Logger
	newID      func() string
}

func New(opts ...Option) *Planner {
	p := &Planner{
		sources:    make(map[string]model.Tap),
		sinks:      make(map[string]model.Tap),
		traps:      make(map[string]model.Tap),
		properties: model.NewConfigDef(),
		log:        slog.New(slog.DiscardHandler),
		newID:      newStepID,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Plan is the result of a planning run.
type Plan struct {
	graph  *element.Graph
	scopes *scope.Resolution
	steps  []*ProcessModel
	deps   map[string][]*ProcessModel
}

// Steps returns the steps ordered by ordinal.
func (p *Plan) Steps() []*ProcessModel {
	return append([]*ProcessModel(nil), p.steps...)
}

// Step returns the step identified by id.
func (p *Plan) Step(id string) (*ProcessModel, bool) {
	for _, s := range p.steps {
		if s.id == id {
			return s, true
		}
	}

	return nil, false
}

// StepOf returns the step owning n.
func (p *Plan) StepOf(n *pipe.Node) (*ProcessModel, bool) {
	for _, s := range p.steps {
		if s.Owns(n) {
			return s, true
		}
	}

	return nil, false
}

// Dependencies returns the steps that must complete before step starts, ordered by ordinal.
func (p *Plan) Dependencies(step *ProcessModel) []*ProcessModel {
	return append([]*ProcessModel(nil), p.deps[step.id]...)
}

// Graph returns a copy of the flattened assembly with its taps.
func (p *Plan) Graph() *element.Graph {
	return p.graph.Clone()
}

// Scopes returns the field scopes resolved over Graph.
func (p *Plan) Scopes() *scope.Resolution {
	return p.scopes
}

// Plan validates the assembly ending at tails, binds its taps and splits it into steps.
// Any error aborts the whole run.
func (p *Planner) Plan(tails ...*pipe.Node) (*Plan, error) {
	if len(tails) == 0 {
		return nil, ErrTailsMustBeSet
	}
	tails = pipe.Unwind(tails...)

	g, err := element.FromAssembly(tails...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid assembly")
	}

	err = p.bindSources(g)
	if err != nil {
		return nil, err
	}
	err = p.bindSinks(g, tails)
	if err != nil {
		return nil, err
	}
	err = p.checkTraps(g)
	if err != nil {
		return nil, err
	}

	scopes, err := scope.Resolve(g)
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve scopes")
	}

	plan, err := p.split(g)
	if err != nil {
		return nil, err
	}
	plan.scopes = scopes

	p.log.Debug("assembly planned", "elements", g.Len(), "steps", len(plan.steps))
	for _, s := range plan.steps {
		p.log.Debug("step planned",
			"id", s.id,
			"ordinal", s.ordinal,
			"name", s.name,
			"priority", s.submitPriority,
			"nodes", len(s.nodes),
		)
	}

	return plan, nil
}

func (p *Planner) bindSources(g *element.Graph) error {
	var heads []*pipe.Node
	for _, n := range g.Nodes() {
		if len(n.Previous()) == 0 {
			heads = append(heads, n)
		}
	}
	if dups := pipe.DuplicateNames(heads...); len(dups) > 0 {
		return errors.Wrapf(ErrDuplicateName, "heads %v", dups)
	}

	bound := make(map[string]struct{}, len(heads))
	for _, head := range heads {
		tap, ok := p.sources[head.Name()]
		if !ok {
			return errors.Wrapf(ErrMissingSource, "head '%s'", head.Name())
		}
		if !tap.Role().CanRead() {
			return errors.Wrapf(ErrTapRole, "source '%s' is %s", head.Name(), tap.Role())
		}
		src := element.Source(head.Name(), tap)
		err := g.AddElement(src)
		if err != nil {
			return err
		}
		err = g.AddEdge(src, element.Pipe(head))
		if err != nil {
			return err
		}
		bound[head.Name()] = struct{}{}
	}

	return unbound("source", p.sources, bound)
}

func (p *Planner) bindSinks(g *element.Graph, tails []*pipe.Node) error {
	if dups := pipe.DuplicateNames(tails...); len(dups) > 0 {
		return errors.Wrapf(ErrDuplicateName, "tails %v", dups)
	}

	bound := make(map[string]struct{}, len(tails))
	for _, tail := range tails {
		if _, ok := bound[tail.Name()]; ok {
			continue
		}
		tap, ok := p.sinks[tail.Name()]
		if !ok {
			return errors.Wrapf(ErrMissingSink, "tail '%s'", tail.Name())
		}
		if !tap.Role().CanWrite() {
			return errors.Wrapf(ErrTapRole, "sink '%s' is %s", tail.Name(), tap.Role())
		}
		sink := element.Sink(tail.Name(), tap)
		err := g.AddElement(sink)
		if err != nil {
			return err
		}
		err = g.AddEdge(element.Pipe(tail), sink)
		if err != nil {
			return err
		}
		bound[tail.Name()] = struct{}{}
	}

	return unbound("sink", p.sinks, bound)
}

// checkTraps verifies every plan level trap catches an existing branch.
func (p *Planner) checkTraps(g *element.Graph) error {
	names := make(map[string]struct{})
	for _, n := range g.Nodes() {
		names[n.Name()] = struct{}{}
	}
	for name, tap := range p.traps {
		if !tap.Role().CanWrite() {
			return errors.Wrapf(ErrTapRole, "trap '%s' is %s", name, tap.Role())
		}
	}

	return unbound("trap", p.traps, names)
}

func unbound(what string, taps map[string]model.Tap, bound map[string]struct{}) error {
	var missing []string
	for name := range taps {
		if _, ok := bound[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)

	return errors.Wrapf(ErrUnboundTap, "%s %v", what, missing)
}

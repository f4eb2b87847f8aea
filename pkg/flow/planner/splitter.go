package planner

import (
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/pkg/flow/element"
	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
)

// region collects the elements of one future step.
type region struct {
	index   int
	root    string
	members []*element.Element
	groups  []*element.Element
	tails   []*element.Element
}

func isSplice(e *element.Element) bool {
	return e.Kind() == element.KindPipe && e.Node().IsSplice()
}

// A splice is cut in two: edges entering it end on its inbound half, edges leaving it start
// from its outbound half. Every other element is a single half.
func inHalf(e *element.Element) string {
	if isSplice(e) {
		return e.Key() + "#in"
	}

	return e.Key()
}

func outHalf(e *element.Element) string {
	return e.Key()
}

func (p *Planner) split(g *element.Graph) (*Plan, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	uf := newUnionFind()
	for _, e := range order {
		uf.add(outHalf(e))
		uf.add(inHalf(e))
	}
	for _, edge := range g.Edges() {
		uf.union(outHalf(edge.From), inHalf(edge.To))
	}

	byRoot := make(map[string]*region)
	var regions []*region
	regionOf := func(half string) *region {
		root := uf.find(half)
		r, ok := byRoot[root]
		if !ok {
			r = &region{index: len(regions), root: root}
			byRoot[root] = r
			regions = append(regions, r)
		}

		return r
	}
	for _, e := range order {
		if !isSplice(e) {
			r := regionOf(e.Key())
			r.members = append(r.members, e)

			continue
		}
		upstream, downstream := regionOf(inHalf(e)), regionOf(outHalf(e))
		if upstream == downstream {
			return nil, errors.Wrapf(ErrStepCycle, "%s reads the shuffle it writes", e)
		}
		upstream.tails = append(upstream.tails, e)
		downstream.groups = append(downstream.groups, e)
	}

	steps := make([]*ProcessModel, len(regions))
	ids := make(map[string]struct{}, len(regions))
	for i, r := range regions {
		steps[i], err = p.newProcessModel(g, uf, order, r)
		if err != nil {
			return nil, err
		}
		if _, ok := ids[steps[i].id]; ok {
			return nil, errors.Wrapf(ErrDuplicateStepID, "'%s'", steps[i].id)
		}
		ids[steps[i].id] = struct{}{}
	}

	sorted, preds, err := orderSteps(regions, byRoot, uf, g, steps)
	if err != nil {
		return nil, err
	}

	plan := &Plan{graph: g, deps: make(map[string][]*ProcessModel, len(steps))}
	depth := make(map[int]int, len(sorted))
	for ordinal, idx := range sorted {
		step := steps[idx]
		step.ordinal = ordinal
		step.submitPriority = 1
		for _, pred := range preds[idx] {
			if depth[pred]+1 > step.submitPriority {
				step.submitPriority = depth[pred] + 1
			}
		}
		depth[idx] = step.submitPriority
		plan.steps = append(plan.steps, step)
	}
	for _, step := range plan.steps {
		step.name = fmt.Sprintf("(%d/%d) %s", step.ordinal+1, len(plan.steps), step.name)
	}
	for idx, ps := range preds {
		var deps []*ProcessModel
		for _, s := range plan.steps {
			for _, pred := range ps {
				if steps[pred] == s {
					deps = append(deps, s)
				}
			}
		}
		plan.deps[steps[idx].id] = deps
	}

	return plan, nil
}

// orderSteps sorts the steps by dependency. A step depends on the steps writing the shuffles
// it reads, and on the steps writing a tap identifier it reads as a source.
func orderSteps(
	regions []*region,
	byRoot map[string]*region,
	uf *unionFind,
	g *element.Graph,
	steps []*ProcessModel,
) ([]int, map[int][]int, error) {
	deps := graph.New(graph.IntHash, graph.Directed(), graph.PreventCycles())
	for _, r := range regions {
		_ = deps.AddVertex(r.index)
	}

	link := func(from, to int, reason string) error {
		if from == to {
			return errors.Wrapf(ErrStepCycle, "%s: %s", steps[from].name, reason)
		}
		err := deps.AddEdge(from, to)
		switch {
		case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			return nil
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return errors.Wrapf(ErrStepCycle, "%s -> %s: %s", steps[from].name, steps[to].name, reason)
		default:
			return errors.Wrap(err, "unable to order steps")
		}
	}

	writers := make(map[string][]int)
	for _, e := range g.Elements() {
		if e.Kind() == element.KindSink {
			id := e.Tap().Identifier()
			writers[id] = append(writers[id], byRoot[uf.find(e.Key())].index)
		}
	}
	for _, e := range g.Elements() {
		switch {
		case isSplice(e):
			from, to := byRoot[uf.find(inHalf(e))].index, byRoot[uf.find(outHalf(e))].index
			err := link(from, to, "shuffle "+e.String())
			if err != nil {
				return nil, nil, err
			}
		case e.Kind() == element.KindSource:
			reader := byRoot[uf.find(e.Key())].index
			for _, writer := range writers[e.Tap().Identifier()] {
				err := link(writer, reader, "tap "+e.Tap().Identifier())
				if err != nil {
					return nil, nil, err
				}
			}
		}
	}

	sorted, err := graph.StableTopologicalSort(deps, func(a, b int) bool {
		return a < b
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to order steps")
	}
	predMap, err := deps.PredecessorMap()
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to order steps")
	}
	preds := make(map[int][]int, len(predMap))
	for idx, edges := range predMap {
		for pred := range edges {
			preds[idx] = append(preds[idx], pred)
		}
	}

	return sorted, preds, nil
}

func (p *Planner) newProcessModel(g *element.Graph, uf *unionFind, order []*element.Element, r *region) (*ProcessModel, error) {
	m := &ProcessModel{
		id:         p.newID(),
		owned:      make(map[pipe.ID]*pipe.Node),
		sourceTaps: make(map[string]model.Tap),
		sinkTaps:   make(map[string]model.Tap),
		trapMap:    make(map[string]model.Tap),
	}

	inStep := func(half string) bool {
		return uf.find(half) == r.root
	}

	sub := element.New()
	head, tail := element.Head(), element.Tail()
	err := sub.AddElement(head)
	if err != nil {
		return nil, err
	}
	for _, e := range order {
		if !inStep(inHalf(e)) && !inStep(outHalf(e)) {
			continue
		}
		err := sub.AddElement(e)
		if err != nil {
			return nil, err
		}
		switch {
		case e.Kind() == element.KindSource:
			m.sourceTaps[e.Name()] = e.Tap()
			m.sources = append(m.sources, e)
		case e.Kind() == element.KindSink:
			m.sinkTaps[e.Name()] = e.Tap()
			m.sinks = append(m.sinks, e)
		case isSplice(e) && inStep(outHalf(e)):
			m.groups = append(m.groups, e.Node())
			m.sources = append(m.sources, e)
			m.own(e.Node())
		case isSplice(e):
			m.sinks = append(m.sinks, e)
		default:
			m.own(e.Node())
		}
	}
	err = sub.AddElement(tail)
	if err != nil {
		return nil, err
	}
	for _, edge := range g.Edges() {
		if !inStep(outHalf(edge.From)) || !inStep(inHalf(edge.To)) {
			continue
		}
		err := sub.AddEdge(edge.From, edge.To)
		if err != nil {
			return nil, err
		}
	}
	for _, e := range m.sources {
		err := sub.AddEdge(head, e)
		if err != nil {
			return nil, err
		}
	}
	for _, e := range m.sinks {
		err := sub.AddEdge(e, tail)
		if err != nil {
			return nil, err
		}
	}

	masked, err := sub.Masked()
	if err != nil {
		return nil, err
	}
	m.elementGraph, m.masked = sub, masked
	m.name = sinkNames(m.sinks)

	err = p.foldTraps(m)
	if err != nil {
		return nil, err
	}

	defs := []*model.ConfigDef{p.properties}
	for _, n := range m.nodes {
		if n.HasProcessConfigDef() {
			defs = append(defs, n.ProcessConfigDef())
		}
	}
	m.processConfig = model.Overlay(defs...)

	return m, nil
}

func (m *ProcessModel) own(n *pipe.Node) {
	m.owned[n.ID()] = n
	m.nodes = append(m.nodes, n)
}

// foldTraps collects the traps of the owned pipes, then the plan traps catching their branches.
func (p *Planner) foldTraps(m *ProcessModel) error {
	declared := make(map[string]*pipe.Node)
	for _, n := range m.nodes {
		for _, tap := range n.Traps() {
			if !tap.Role().CanWrite() {
				return errors.Wrapf(ErrTapRole, "trap of %s is %s", n, tap.Role())
			}
			if prev, ok := declared[n.Name()]; ok {
				return errors.Wrapf(ErrDuplicateTrap, "'%s' declared by %s and %s", n.Name(), prev, n)
			}
			declared[n.Name()] = n
			m.trapMap[n.Name()] = tap
		}
	}
	for _, n := range m.nodes {
		tap, ok := p.traps[n.Name()]
		if !ok {
			continue
		}
		if existing, ok := m.trapMap[n.Name()]; ok && existing.Identifier() != tap.Identifier() {
			return errors.Wrapf(ErrDuplicateTrap, "'%s' bound to %s and %s",
				n.Name(), existing.Identifier(), tap.Identifier())
		}
		m.trapMap[n.Name()] = tap
	}

	return nil
}

func sinkNames(sinks []*element.Element) string {
	names := make([]string, 0, len(sinks))
	seen := make(map[string]struct{}, len(sinks))
	for _, e := range sinks {
		if _, ok := seen[e.Name()]; ok {
			continue
		}
		seen[e.Name()] = struct{}{}
		names = append(names, e.Name())
	}

	return strings.Join(names, ", ")
}

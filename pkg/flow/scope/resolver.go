package scope

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/pkg/flow/element"
	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
)

type edgeKey struct {
	from, to string
}

// Resolution holds the scopes computed over one element graph.
type Resolution struct {
	outgoing map[string]model.Scope
	edges    map[edgeKey]model.Scope
}

// Outgoing returns the scope leaving e.
func (r *Resolution) Outgoing(e *element.Element) (model.Scope, bool) {
	s, ok := r.outgoing[e.Key()]

	return s, ok
}

// Node returns the scope leaving the pipe node n.
func (r *Resolution) Node(n *pipe.Node) (model.Scope, bool) {
	return r.Outgoing(element.Pipe(n))
}

// Edge returns the scope carried from one element to the next.
func (r *Resolution) Edge(from, to *element.Element) (model.Scope, bool) {
	s, ok := r.edges[edgeKey{from.Key(), to.Key()}]

	return s, ok
}

// Resolve computes the scope of every element of g.
func Resolve(g *element.Graph) (*Resolution, error) {
	if g == nil {
		return nil, ErrGraphMustBeSet
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		outgoing: make(map[string]model.Scope, len(order)),
		edges:    make(map[edgeKey]model.Scope),
	}
	for _, e := range order {
		scope, err := res.resolve(g, e)
		if err != nil {
			return nil, err
		}
		res.outgoing[e.Key()] = scope
		for _, next := range g.Successors(e) {
			res.edges[edgeKey{e.Key(), next.Key()}] = scope
		}
	}

	return res, nil
}

func (r *Resolution) resolve(g *element.Graph, e *element.Element) (model.Scope, error) {
	switch e.Kind() {
	case element.KindSource:
		fields := model.UnknownFields()
		if ft, ok := e.Tap().(model.FieldsTap); ok {
			fields = ft.SourceFields()
		}

		return model.PassThroughScope(e.Name(), fields), nil
	case element.KindPipe:
		incoming, err := r.incoming(g, e)
		if err != nil {
			return model.Scope{}, err
		}
		scope, err := pipe.Resolve(e.Node(), incoming)
		if err != nil {
			return model.Scope{}, errors.Wrapf(err, "unable to resolve scope of %s", e)
		}

		return scope, nil
	case element.KindSink, element.KindHead, element.KindTail:
		preds := g.Predecessors(e)
		if len(preds) != 1 {
			return model.PassThroughScope(e.Name(), model.UnknownFields()), nil
		}

		return r.outgoing[preds[0].Key()].Named(e.Name()), nil
	default:
		return model.Scope{}, errors.Errorf("unexpected element %s", e)
	}
}

// incoming returns the scopes entering the pipe of e, ordered as its previous pipes.
// A head reads from the source bound to it.
func (r *Resolution) incoming(g *element.Graph, e *element.Element) ([]model.Scope, error) {
	previous := pipe.Unwind(e.Node().Previous()...)
	if len(previous) == 0 {
		for _, pred := range g.Predecessors(e) {
			if pred.Kind() == element.KindSource {
				return []model.Scope{r.outgoing[pred.Key()]}, nil
			}
		}

		return []model.Scope{model.PassThroughScope(e.Name(), model.UnknownFields())}, nil
	}

	scopes := make([]model.Scope, len(previous))
	for i, prev := range previous {
		scope, ok := r.Node(prev)
		if !ok {
			return nil, errors.Wrapf(element.ErrElementNotFound, "%s reads from %s", e, prev)
		}
		scopes[i] = scope
	}

	return scopes, nil
}

package element

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/internal/store"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
)

// Edge links two elements of a graph.
type Edge struct {
	From, To *Element
}

// Graph is a directed acyclic graph of elements. Vertices and edges are listed in insertion order.
type Graph struct {
	store *store.MemoryStore[string, *Element]
	graph graph.Graph[string, *Element]
}

func elementKey(e *Element) string {
	return e.key
}

// New returns an empty graph.
func New() *Graph {
	s := store.NewMemoryStore[string, *Element]()

	return &Graph{
		store: s,
		graph: graph.NewWithStore(elementKey, graph.Store[string, *Element](s),
			graph.Directed(), graph.PreventCycles()),
	}
}

// FromAssembly flattens the assembly ending at tails: sub assemblies are unwound and every
// node reachable through previous references becomes a pipe element.
func FromAssembly(tails ...*pipe.Node) (*Graph, error) {
	if len(tails) == 0 {
		return nil, ErrTailsMustBeSet
	}
	tails = pipe.Unwind(tails...)
	err := pipe.CheckAcyclic(tails...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to flatten assembly")
	}

	g := New()
	visited := make(map[pipe.ID]*Element)
	for _, tail := range tails {
		_, err := g.addAssembly(tail, visited)
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *Graph) addAssembly(n *pipe.Node, visited map[pipe.ID]*Element) (*Element, error) {
	if e, ok := visited[n.ID()]; ok {
		return e, nil
	}
	var prevs []*Element
	for _, prev := range pipe.Unwind(n.Previous()...) {
		e, err := g.addAssembly(prev, visited)
		if err != nil {
			return nil, err
		}
		prevs = append(prevs, e)
	}

	e := Pipe(n)
	err := g.AddElement(e)
	if err != nil {
		return nil, err
	}
	visited[n.ID()] = e
	for _, prev := range prevs {
		err := g.AddEdge(prev, e)
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}

// AddElement adds e. Adding an element twice is a no-op.
func (g *Graph) AddElement(e *Element) error {
	err := g.graph.AddVertex(e)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "unable to add %s", e)
	}

	return nil
}

// AddEdge links from to to. Linking twice is a no-op, closing a cycle fails with ErrCycle.
func (g *Graph) AddEdge(from, to *Element) error {
	err := g.graph.AddEdge(from.key, to.key)
	switch {
	case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return errors.Wrapf(ErrCycle, "%s -> %s", from, to)
	default:
		return errors.Wrapf(err, "unable to add edge from %s to %s", from, to)
	}
}

// Element returns the element registered under key.
func (g *Graph) Element(key string) (*Element, bool) {
	e, err := g.graph.Vertex(key)
	if err != nil {
		return nil, false
	}

	return e, true
}

func (g *Graph) Contains(e *Element) bool {
	_, ok := g.Element(e.key)

	return ok
}

func (g *Graph) Len() int {
	n, _ := g.store.VertexCount()

	return n
}

// Elements returns all the elements in insertion order.
func (g *Graph) Elements() []*Element {
	keys, _ := g.store.ListVertices()

	return g.lookup(keys)
}

// Nodes returns the pipe nodes of the graph in insertion order.
func (g *Graph) Nodes() []*pipe.Node {
	var res []*pipe.Node
	for _, e := range g.Elements() {
		if e.kind == KindPipe {
			res = append(res, e.node)
		}
	}

	return res
}

// Edges returns all the edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges, _ := g.store.ListEdges()
	res := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		from, _ := g.Element(edge.Source)
		to, _ := g.Element(edge.Target)
		res = append(res, Edge{From: from, To: to})
	}

	return res
}

func (g *Graph) Successors(e *Element) []*Element {
	return g.lookup(g.store.Successors(e.key))
}

func (g *Graph) Predecessors(e *Element) []*Element {
	return g.lookup(g.store.Predecessors(e.key))
}

// Sources returns the elements without predecessors.
func (g *Graph) Sources() []*Element {
	var res []*Element
	for _, e := range g.Elements() {
		if len(g.store.Predecessors(e.key)) == 0 {
			res = append(res, e)
		}
	}

	return res
}

// Sinks returns the elements without successors.
func (g *Graph) Sinks() []*Element {
	var res []*Element
	for _, e := range g.Elements() {
		if len(g.store.Successors(e.key)) == 0 {
			res = append(res, e)
		}
	}

	return res
}

// TopologicalOrder returns the elements sorted so that every edge goes forward.
// Ties are broken by insertion order.
func (g *Graph) TopologicalOrder() ([]*Element, error) {
	keys, _ := g.store.ListVertices()
	rank := make(map[string]int, len(keys))
	for i, k := range keys {
		rank[k] = i
	}
	sorted, err := graph.StableTopologicalSort(g.graph, func(a, b string) bool {
		return rank[a] < rank[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort elements")
	}

	return g.lookup(sorted), nil
}

// Masked returns a copy of the graph without its extents.
func (g *Graph) Masked() (*Graph, error) {
	return g.Filter(func(e *Element) bool {
		return !e.IsExtent()
	})
}

// Filter returns the sub graph of the elements kept by keep, with the edges between them.
func (g *Graph) Filter(keep func(*Element) bool) (*Graph, error) {
	res := New()
	for _, e := range g.Elements() {
		if !keep(e) {
			continue
		}
		err := res.AddElement(e)
		if err != nil {
			return nil, err
		}
	}
	for _, edge := range g.Edges() {
		if !res.Contains(edge.From) || !res.Contains(edge.To) {
			continue
		}
		err := res.AddEdge(edge.From, edge.To)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Clone returns a copy of the graph sharing its elements.
func (g *Graph) Clone() *Graph {
	res, err := g.Filter(func(*Element) bool { return true })
	if err != nil {
		// replaying an acyclic graph into an empty one cannot fail.
		panic(err)
	}

	return res
}

// IsConnected reports whether the graph is weakly connected. An empty graph is not.
func (g *Graph) IsConnected() bool {
	elements := g.Elements()
	if len(elements) == 0 {
		return false
	}
	seen := map[string]struct{}{elements[0].key: {}}
	stack := []*Element{elements[0]}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range append(g.Successors(cur), g.Predecessors(cur)...) {
			if _, ok := seen[next.key]; ok {
				continue
			}
			seen[next.key] = struct{}{}
			stack = append(stack, next)
		}
	}

	return len(seen) == len(elements)
}

// Graph exposes the underlying graph, for rendering.
func (g *Graph) Graph() graph.Graph[string, *Element] {
	return g.graph
}

func (g *Graph) lookup(keys []string) []*Element {
	res := make([]*Element, 0, len(keys))
	for _, k := range keys {
		e, ok := g.Element(k)
		if ok {
			res = append(res, e)
		}
	}

	return res
}

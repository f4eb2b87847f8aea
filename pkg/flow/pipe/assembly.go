package pipe

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/pkg/flow/model"
)

// Heads returns the heads the node reads from, deduplicated, in discovery order.
// Assemblies are acyclic by construction, a cycle panics with ErrCycle.
func (n *Node) Heads() []*Node {
	var heads []*Node
	w := newWalker()
	err := w.walk(n, func(cur *Node) {
		if len(cur.previous) == 0 {
			heads = append(heads, cur)
		}
	})
	if err != nil {
		panic(err)
	}

	return heads
}

// CheckAcyclic returns ErrCycle when a cycle is reachable from nodes.
func CheckAcyclic(nodes ...*Node) error {
	w := newWalker()
	for _, n := range nodes {
		err := w.walk(n, func(*Node) {})
		if err != nil {
			return err
		}
	}

	return nil
}

type walker struct {
	onPath map[ID]struct{}
	done   map[ID]struct{}
}

func newWalker() *walker {
	return &walker{
		onPath: make(map[ID]struct{}),
		done:   make(map[ID]struct{}),
	}
}

// walk visits every node reachable through previous references, predecessors first.
func (w *walker) walk(n *Node, visit func(*Node)) error {
	if _, ok := w.done[n.id]; ok {
		return nil
	}
	if _, ok := w.onPath[n.id]; ok {
		return errors.Wrapf(ErrCycle, "through %s", n)
	}
	w.onPath[n.id] = struct{}{}
	for _, prev := range n.previous {
		err := w.walk(prev, visit)
		if err != nil {
			return err
		}
	}
	delete(w.onPath, n.id)
	w.done[n.id] = struct{}{}
	visit(n)

	return nil
}

// Unwind replaces every sub assembly by its tails, recursively.
func Unwind(nodes ...*Node) []*Node {
	res := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		sub, ok := n.kind.(*SubAssembly)
		if !ok {
			res = append(res, n)

			continue
		}
		res = append(res, Unwind(sub.tails...)...)
	}

	return res
}

// Names returns the sorted set of branch names found upstream of tails, tails included.
// A sub assembly contributes the names of its tails.
func Names(tails ...*Node) []string {
	set := make(map[string]struct{})
	visited := make(map[ID]struct{})
	collectNames(tails, set, visited)

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func collectNames(nodes []*Node, names map[string]struct{}, visited map[ID]struct{}) {
	for _, n := range nodes {
		if _, ok := visited[n.id]; ok {
			continue
		}
		visited[n.id] = struct{}{}
		if sub, ok := n.kind.(*SubAssembly); ok {
			for _, name := range sub.TailNames() {
				names[name] = struct{}{}
			}
		} else {
			names[n.Name()] = struct{}{}
		}
		collectNames(Unwind(n.previous...), names, visited)
	}
}

// DuplicateNames returns, sorted, the names carried by more than one distinct node among nodes.
func DuplicateNames(nodes ...*Node) []string {
	owners := make(map[string]*Node, len(nodes))
	dups := make(map[string]struct{})
	for _, n := range nodes {
		owner, ok := owners[n.Name()]
		if !ok {
			owners[n.Name()] = n

			continue
		}
		if !owner.Equal(n) {
			dups[n.Name()] = struct{}{}
		}
	}

	res := make([]string, 0, len(dups))
	for name := range dups {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}

// ResolvePrevious returns the nearest operator or splice at or above n, skipping plain
// branches and single tail sub assemblies. Meeting several branches on the way is ambiguous.
func ResolvePrevious(n *Node) (*Node, error) {
	switch n.Category() {
	case CategoryOperator, CategorySplice:
		return n, nil
	case CategoryBranch, CategorySubAssembly:
	}

	if len(n.previous) > 1 {
		return nil, errors.Wrapf(ErrAmbiguousResolution, "%s has %d previous pipes", n, len(n.previous))
	}
	if len(n.previous) == 0 {
		return n, nil
	}

	return ResolvePrevious(n.previous[0])
}

// ResolvePreviousAll applies ResolvePrevious to every node.
func ResolvePreviousAll(nodes ...*Node) ([]*Node, error) {
	res := make([]*Node, len(nodes))
	for i, n := range nodes {
		resolved, err := ResolvePrevious(n)
		if err != nil {
			return nil, err
		}
		res[i] = resolved
	}

	return res, nil
}

// Resolve computes the scope leaving n from the scopes of its previous pipes, given in order.
// Operators and splices apply their own field rules. Other kinds only forward a single scope
// under their own name; asking them anything else breaks the caller's contract.
func Resolve(n *Node, incoming []model.Scope) (model.Scope, error) {
	if r, ok := n.kind.(ScopeResolver); ok {
		return r.OutgoingScope(n.Name(), incoming)
	}
	if len(incoming) != 1 {
		return model.Scope{}, errors.Wrapf(ErrResolutionContract, "%s can only pass one scope through, got %d", n, len(incoming))
	}

	return incoming[0].Named(n.Name()), nil
}

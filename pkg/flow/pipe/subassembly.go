package pipe

import "strings"

// SubAssembly wraps a reusable part of an assembly behind its tails.
type SubAssembly struct {
	tails []*Node
}

func (*SubAssembly) kindName() string { return "SubAssembly" }

// Tails returns the tails exposed by the sub assembly.
func (s *SubAssembly) Tails() []*Node {
	return append([]*Node(nil), s.tails...)
}

// TailNames returns the names of the tails, in order.
func (s *SubAssembly) TailNames() []string {
	names := make([]string, len(s.tails))
	for i, tail := range s.tails {
		names[i] = tail.Name()
	}

	return names
}

// NewSubAssembly wraps tails. Without a name, the sub assembly is named after its tails.
func NewSubAssembly(name string, tails []*Node, opts ...Option) (*Node, error) {
	if len(tails) == 0 {
		return nil, ErrTailsMustBeSet
	}
	o := newOptions(opts)
	o.name = name
	sub := &SubAssembly{tails: append([]*Node(nil), tails...)}
	if o.name == "" {
		o.name = strings.Join(sub.TailNames(), ",")
	}

	return newNode(sub, tails, o)
}

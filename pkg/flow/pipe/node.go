package pipe

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/pkg/flow/model"
)

// Anonymous is the name of a branch nobody named.
const Anonymous = "ANONYMOUS"

// ID identifies a node instance. IDs are allocated in construction order.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return fmt.Sprintf("pipe-%d", uint64(id))
}

// Node is a stage of a pipe assembly.
type Node struct {
	id               ID
	name             string
	kind             Kind
	previous         []*Node
	configDef        *model.ConfigDef
	processConfigDef *model.ConfigDef
	traps            []model.Tap
}

func newNode(kind Kind, previous []*Node, o *options) (*Node, error) {
	_, wrapping := kind.(*SubAssembly)
	for _, prev := range previous {
		if prev == nil {
			return nil, ErrPreviousMustBeSet
		}
		if wrapping {
			continue
		}
		err := verifyPrevious(prev)
		if err != nil {
			return nil, err
		}
	}

	return buildNode(kind, previous, o), nil
}

// buildNode assembles a node from checked previous pipes.
func buildNode(kind Kind, previous []*Node, o *options) *Node {
	n := &Node{
		id:               nextID(),
		name:             o.name,
		kind:             kind,
		previous:         append([]*Node(nil), previous...),
		configDef:        model.NewConfigDef(),
		processConfigDef: model.NewConfigDef(),
		traps:            append([]model.Tap(nil), o.traps...),
	}
	for _, p := range o.config {
		n.configDef.Set(p.key, p.value)
	}
	for _, p := range o.processConfig {
		n.processConfigDef.Set(p.key, p.value)
	}

	return n
}

// verifyPrevious rejects a sub assembly exposing several tails: a single previous reference
// cannot read from more than one branch.
func verifyPrevious(prev *Node) error {
	sub, ok := prev.kind.(*SubAssembly)
	if !ok {
		return nil
	}
	if len(sub.tails) != 1 {
		return errors.Wrapf(ErrMultipleTails, "found %s", strings.Join(sub.TailNames(), ", "))
	}

	return nil
}

// NewHead returns the head of a branch.
func NewHead(name string, opts ...Option) *Node {
	o := newOptions(opts)
	o.name = name

	return buildNode(&Branch{}, nil, o)
}

// NewPipe names, or renames, the branch continuing from previous.
func NewPipe(name string, previous *Node, opts ...Option) (*Node, error) {
	if previous == nil {
		return nil, ErrPreviousMustBeSet
	}
	o := newOptions(opts)
	o.name = name

	return newNode(&Branch{}, []*Node{previous}, o)
}

// Pipes returns its arguments as a slice.
func Pipes(pipes ...*Node) []*Node {
	return pipes
}

func (n *Node) ID() ID {
	return n.id
}

func (n *Node) Kind() Kind {
	return n.kind
}

func (n *Node) Category() Category {
	return CategoryOf(n.kind)
}

func (n *Node) IsSplice() bool {
	return n.Category() == CategorySplice
}

func (n *Node) IsOperator() bool {
	return n.Category() == CategoryOperator
}

// Name returns the branch name of the node, inherited from the previous pipes when unset.
func (n *Node) Name() string {
	if n.name != "" {
		return n.name
	}
	if len(n.previous) > 0 {
		return n.previous[0].Name()
	}

	return Anonymous
}

// Previous returns the upstream pipes, in the order given at construction.
// A sub assembly returns its tails.
func (n *Node) Previous() []*Node {
	return append([]*Node(nil), n.previous...)
}

// ConfigDef returns the local overlay. Its properties override the process overlay for this node only.
func (n *Node) ConfigDef() *model.ConfigDef {
	return n.configDef
}

func (n *Node) HasConfigDef() bool {
	return !n.configDef.IsEmpty()
}

// ProcessConfigDef returns the overlay applied to the whole process step the node is planned into.
func (n *Node) ProcessConfigDef() *model.ConfigDef {
	return n.processConfigDef
}

func (n *Node) HasProcessConfigDef() bool {
	return !n.processConfigDef.IsEmpty()
}

// Traps returns the trap taps declared on the node.
func (n *Node) Traps() []model.Tap {
	return append([]model.Tap(nil), n.traps...)
}

// Equal is identity: distinct instances are never equal, whatever their names.
func (n *Node) Equal(other *Node) bool {
	return n == other
}

// SameName reports whether both nodes carry the same branch name and kind.
// It is only meant for duplicate name diagnostics.
func (n *Node) SameName(other *Node) bool {
	return other != nil && n.Name() == other.Name() && n.kind.kindName() == other.kind.kindName()
}

func (n *Node) String() string {
	return n.kind.kindName() + "('" + n.Name() + "')"
}

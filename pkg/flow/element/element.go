package element

import (
	"fmt"

	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
)

// Kind tells what an element stands for.
type Kind int

const (
	KindPipe Kind = iota
	KindSource
	KindSink
	KindHead
	KindTail
)

func (k Kind) String() string {
	switch k {
	case KindPipe:
		return "pipe"
	case KindSource:
		return "source"
	case KindSink:
		return "sink"
	case KindHead:
		return "head"
	case KindTail:
		return "tail"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Element is a vertex of an element graph.
type Element struct {
	key  string
	kind Kind
	name string
	node *pipe.Node
	tap  model.Tap
}

// Pipe wraps a pipe node.
func Pipe(n *pipe.Node) *Element {
	return &Element{key: n.ID().String(), kind: KindPipe, name: n.Name(), node: n}
}

// Source binds a tap to the head branch called name.
func Source(name string, tap model.Tap) *Element {
	return &Element{key: "source:" + name, kind: KindSource, name: name, tap: tap}
}

// Sink binds a tap to the tail branch called name.
func Sink(name string, tap model.Tap) *Element {
	return &Element{key: "sink:" + name, kind: KindSink, name: name, tap: tap}
}

// Head is the synthetic entry of a step graph.
func Head() *Element {
	return &Element{key: "extent:head", kind: KindHead, name: "head"}
}

// Tail is the synthetic exit of a step graph.
func Tail() *Element {
	return &Element{key: "extent:tail", kind: KindTail, name: "tail"}
}

// Key identifies the element inside a graph.
func (e *Element) Key() string {
	return e.key
}

func (e *Element) Kind() Kind {
	return e.kind
}

// Name is the branch name of a pipe, the logical name of a tap, or the extent label.
func (e *Element) Name() string {
	return e.name
}

// Node returns the wrapped pipe node, nil for taps and extents.
func (e *Element) Node() *pipe.Node {
	return e.node
}

// Tap returns the bound tap, nil for pipes and extents.
func (e *Element) Tap() model.Tap {
	return e.tap
}

func (e *Element) IsExtent() bool {
	return e.kind == KindHead || e.kind == KindTail
}

func (e *Element) IsTap() bool {
	return e.kind == KindSource || e.kind == KindSink
}

func (e *Element) String() string {
	switch e.kind {
	case KindPipe:
		return e.node.String()
	case KindSource, KindSink:
		return fmt.Sprintf("%s('%s')[%s]", e.kind, e.name, e.tap.Identifier())
	case KindHead, KindTail:
		return "[" + e.name + "]"
	default:
		return e.key
	}
}

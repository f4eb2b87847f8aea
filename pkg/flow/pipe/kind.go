package pipe

import (
	"fmt"

	"github.com/askiada/go-flowplan/pkg/flow/model"
)

// Kind is the closed set of node variants: *Branch, *Each, *Every, *GroupBy, *CoGroup,
// *Merge, *HashJoin and *SubAssembly.
type Kind interface {
	kindName() string
}

// Category groups kinds by their role in planning.
type Category int

const (
	CategoryBranch Category = iota
	CategoryOperator
	CategorySplice
	CategorySubAssembly
)

func (c Category) String() string {
	switch c {
	case CategoryBranch:
		return "branch"
	case CategoryOperator:
		return "operator"
	case CategorySplice:
		return "splice"
	case CategorySubAssembly:
		return "subassembly"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// CategoryOf returns the category of k.
func CategoryOf(k Kind) Category {
	switch k.(type) {
	case *Branch:
		return CategoryBranch
	case *Each, *Every:
		return CategoryOperator
	case *GroupBy, *CoGroup, *Merge, *HashJoin:
		return CategorySplice
	case *SubAssembly:
		return CategorySubAssembly
	default:
		panic(fmt.Sprintf("pipe: unknown kind %T", k))
	}
}

// ScopeResolver is implemented by the kinds computing their own outgoing scope.
// Every incoming scope is given at once, ordered as the node's previous pipes.
type ScopeResolver interface {
	Kind
	OutgoingScope(name string, incoming []model.Scope) (model.Scope, error)
}

// Branch names a branch of an assembly. Heads are branches without previous pipes.
type Branch struct{}

func (*Branch) kindName() string { return "Pipe" }

// OutputSelector tells an operator which fields leave it.
type OutputSelector int

const (
	// OutputDefault is Results for Each and All for Every.
	OutputDefault OutputSelector = iota
	// OutputResults keeps the declared fields only.
	OutputResults
	// OutputAll keeps the incoming fields followed by the declared fields.
	OutputAll
	// OutputReplace replaces the arguments in place by the declared fields.
	OutputReplace
	// OutputSwap keeps the incoming fields minus the arguments, followed by the declared fields.
	OutputSwap
)

func (s OutputSelector) String() string {
	switch s {
	case OutputDefault:
		return "default"
	case OutputResults:
		return "results"
	case OutputAll:
		return "all"
	case OutputReplace:
		return "replace"
	case OutputSwap:
		return "swap"
	default:
		return fmt.Sprintf("output(%d)", int(s))
	}
}

// ParseOutputSelector parses the names returned by OutputSelector.String.
func ParseOutputSelector(s string) (OutputSelector, bool) {
	for _, sel := range []OutputSelector{OutputDefault, OutputResults, OutputAll, OutputReplace, OutputSwap} {
		if sel.String() == s {
			return sel, true
		}
	}

	return OutputDefault, false
}

var (
	_ ScopeResolver = (*Each)(nil)
	_ ScopeResolver = (*Every)(nil)
	_ ScopeResolver = (*GroupBy)(nil)
	_ ScopeResolver = (*CoGroup)(nil)
	_ ScopeResolver = (*Merge)(nil)
	_ ScopeResolver = (*HashJoin)(nil)
	_ Kind          = (*Branch)(nil)
	_ Kind          = (*SubAssembly)(nil)
)

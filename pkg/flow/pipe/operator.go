package pipe

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/pkg/flow/model"
)

// Each applies a function, or a filter, to every record of its branch.
type Each struct {
	Operation string
	// Arguments are the incoming fields given to the function. Empty means all incoming fields.
	Arguments model.Fields
	Declared  model.Fields
	Output    OutputSelector
	Filter    bool
}

func (*Each) kindName() string { return "Each" }

// Every applies an aggregation to every group of a grouping splice.
type Every struct {
	Operation string
	// Arguments are the grouped value fields given to the aggregation. Empty means all of them.
	Arguments model.Fields
	Declared  model.Fields
	Output    OutputSelector
}

func (*Every) kindName() string { return "Every" }

// NewEach returns an Each reading from previous.
func NewEach(previous *Node, opts ...Option) (*Node, error) {
	if previous == nil {
		return nil, ErrPreviousMustBeSet
	}
	o := newOptions(opts)
	output := o.output
	if output == OutputDefault {
		output = OutputResults
	}
	kind := &Each{
		Operation: o.operation,
		Arguments: o.arguments,
		Declared:  o.declared,
		Output:    output,
		Filter:    o.filter,
	}

	return newNode(kind, []*Node{previous}, o)
}

// NewEvery returns an Every reading from previous, which must resolve to a GroupBy,
// a CoGroup or another Every.
func NewEvery(previous *Node, opts ...Option) (*Node, error) {
	if previous == nil {
		return nil, ErrPreviousMustBeSet
	}
	err := verifyPrevious(previous)
	if err != nil {
		return nil, err
	}
	resolved, err := ResolvePrevious(previous)
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve previous of every")
	}
	switch resolved.kind.(type) {
	case *GroupBy, *CoGroup, *Every:
	default:
		return nil, errors.Wrapf(ErrEveryWithoutGroup, "found %s", resolved)
	}

	o := newOptions(opts)
	output := o.output
	if output == OutputDefault {
		output = OutputAll
	}
	if output != OutputAll && output != OutputResults {
		return nil, errors.Wrapf(ErrUnsupportedOutput, "every with %s", output)
	}
	kind := &Every{
		Operation: o.operation,
		Arguments: o.arguments,
		Declared:  o.declared,
		Output:    output,
	}

	return newNode(kind, []*Node{previous}, o)
}

func singleIncoming(name string, incoming []model.Scope) (model.Scope, error) {
	if len(incoming) != 1 {
		return model.Scope{}, errors.Wrapf(ErrResolutionContract, "%s expects one incoming scope, got %d", name, len(incoming))
	}

	return incoming[0], nil
}

func selectArguments(available, arguments model.Fields) (model.Fields, error) {
	if arguments.IsEmpty() {
		return available, nil
	}

	return available.Select(arguments)
}

// OutgoingScope resolves the fields leaving the Each.
func (e *Each) OutgoingScope(name string, incoming []model.Scope) (model.Scope, error) {
	in, err := singleIncoming(name, incoming)
	if err != nil {
		return model.Scope{}, err
	}
	fields := in.Outgoing
	args, err := selectArguments(fields, e.Arguments)
	if err != nil {
		return model.Scope{}, errors.Wrapf(err, "unable to select arguments of %s", name)
	}
	scope := model.Scope{
		Name:      name,
		Incoming:  fields,
		Arguments: args,
		Declared:  e.Declared,
	}
	if e.Filter {
		scope.Declared = model.Fields{}
		scope.Passthrough = fields
		scope.Outgoing = fields

		return scope, nil
	}

	switch e.Output {
	case OutputResults, OutputDefault:
		scope.Outgoing = e.Declared
	case OutputAll:
		scope.Passthrough = fields
		scope.Outgoing, err = fields.Append(e.Declared)
	case OutputReplace:
		scope.Passthrough = fields.Minus(args)
		scope.Outgoing, err = fields.Replace(args, e.Declared)
	case OutputSwap:
		scope.Passthrough = fields.Minus(args)
		scope.Outgoing, err = scope.Passthrough.Append(e.Declared)
	default:
		err = errors.Wrapf(ErrUnsupportedOutput, "each with %s", e.Output)
	}
	if err != nil {
		return model.Scope{}, errors.Wrapf(err, "unable to resolve output of %s", name)
	}

	return scope, nil
}

// OutgoingScope resolves the fields leaving the Every. The grouping key and the grouped
// value fields travel along so that chained aggregations see the same groups.
func (e *Every) OutgoingScope(name string, incoming []model.Scope) (model.Scope, error) {
	in, err := singleIncoming(name, incoming)
	if err != nil {
		return model.Scope{}, err
	}
	if !in.IsGrouped() {
		return model.Scope{}, errors.Wrapf(ErrEveryWithoutGroup, "%s reads ungrouped branch %q", name, in.Name)
	}
	args, err := selectArguments(in.Values, e.Arguments)
	if err != nil {
		return model.Scope{}, errors.Wrapf(err, "unable to select arguments of %s", name)
	}

	base := in.Key
	if in.Aggregated {
		base = in.Outgoing
	}
	scope := model.Scope{
		Name:       name,
		Incoming:   in.Values,
		Arguments:  args,
		Declared:   e.Declared,
		Grouping:   in.Named(name).Grouping,
		Key:        in.Key,
		Values:     in.Values,
		Aggregated: true,
	}
	switch e.Output {
	case OutputResults:
		scope.Outgoing = e.Declared
	case OutputAll, OutputDefault:
		scope.Passthrough = base
		scope.Outgoing, err = base.Append(e.Declared)
	default:
		err = errors.Wrapf(ErrUnsupportedOutput, "every with %s", e.Output)
	}
	if err != nil {
		return model.Scope{}, errors.Wrapf(err, "unable to resolve output of %s", name)
	}

	return scope, nil
}

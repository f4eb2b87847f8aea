package pipe

import "github.com/askiada/go-flowplan/pkg/flow/model"

type property struct {
	key   string
	value any
}

type options struct {
	name          string
	operation     string
	arguments     model.Fields
	declared      model.Fields
	output        OutputSelector
	filter        bool
	sortFields    model.Fields
	reverse       bool
	config        []property
	processConfig []property
	traps         []model.Tap
}

// Option configures a node at construction.
type Option func(o *options)

// WithName names the branch starting at the node.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithOperation records the name of the function applied by an operator.
func WithOperation(operation string) Option {
	return func(o *options) {
		o.operation = operation
	}
}

// WithArguments selects the incoming fields passed to an operator. Without it, all incoming fields are passed.
func WithArguments(names ...string) Option {
	return func(o *options) {
		o.arguments = model.NewFields(names...)
	}
}

// WithDeclared sets the fields produced by an operator, or renames the output of a CoGroup or HashJoin.
func WithDeclared(names ...string) Option {
	return func(o *options) {
		o.declared = model.NewFields(names...)
	}
}

// WithOutput sets how an operator combines its incoming and declared fields.
func WithOutput(output OutputSelector) Option {
	return func(o *options) {
		o.output = output
	}
}

// AsFilter turns an Each into a filter: records are kept or dropped, fields are untouched.
func AsFilter() Option {
	return func(o *options) {
		o.filter = true
	}
}

// WithSortFields sets the secondary sort fields of a GroupBy.
func WithSortFields(names ...string) Option {
	return func(o *options) {
		o.sortFields = model.NewFields(names...)
	}
}

// WithReverse reverses the sort order of a GroupBy.
func WithReverse() Option {
	return func(o *options) {
		o.reverse = true
	}
}

// WithConfig adds a property to the local overlay of the node.
func WithConfig(key string, value any) Option {
	return func(o *options) {
		o.config = append(o.config, property{key, value})
	}
}

// WithProcessConfig adds a property to the overlay of the process step the node is planned into.
func WithProcessConfig(key string, value any) Option {
	return func(o *options) {
		o.processConfig = append(o.processConfig, property{key, value})
	}
}

// WithTrap declares a tap receiving the records failing inside the node.
func WithTrap(tap model.Tap) Option {
	return func(o *options) {
		o.traps = append(o.traps, tap)
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

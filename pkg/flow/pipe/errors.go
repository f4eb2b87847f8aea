package pipe

import "github.com/pkg/errors"

var (
	ErrPreviousMustBeSet    = errors.New("previous pipe must be set")
	ErrMultipleTails        = errors.New("pipe assembly must not return more than one tail pipe instance")
	ErrAmbiguousResolution  = errors.New("cannot resolve composite with multiple tails")
	ErrCycle                = errors.New("pipe assembly contains a cycle")
	ErrResolutionContract   = errors.New("pipe cannot resolve fields")
	ErrEveryWithoutGroup    = errors.New("every must follow a grouping pipe or another every")
	ErrSpliceInputs         = errors.New("not enough pipes to splice")
	ErrGroupFieldsMustBeSet = errors.New("grouping fields must be set")
	ErrTailsMustBeSet       = errors.New("sub assembly tails must be set")
	ErrMergeFields          = errors.New("merged branches must declare the same fields")
	ErrUnsupportedOutput    = errors.New("output selector not supported")
)

package planner

import "github.com/pkg/errors"

var (
	ErrTailsMustBeSet  = errors.New("at least one tail must be set")
	ErrDuplicateName   = errors.New("duplicate branch name")
	ErrMissingSource   = errors.New("head is not bound to a source tap")
	ErrMissingSink     = errors.New("tail is not bound to a sink tap")
	ErrUnboundTap      = errors.New("tap is not bound to any branch")
	ErrTapRole         = errors.New("tap role does not allow this use")
	ErrDuplicateTrap   = errors.New("trap name declared twice in the same step")
	ErrDuplicateStepID = errors.New("step id generated twice")
	ErrStepCycle       = errors.New("steps depend on each other")
)

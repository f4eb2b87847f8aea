package element

import "github.com/pkg/errors"

var (
	ErrTailsMustBeSet  = errors.New("at least one tail must be set")
	ErrCycle           = errors.New("element graph contains a cycle")
	ErrElementNotFound = errors.New("element not found")
)

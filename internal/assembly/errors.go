package assembly

import "github.com/pkg/errors"

var (
	ErrMissingID      = errors.New("pipe must have an id or a name")
	ErrDuplicateID    = errors.New("pipe id declared twice")
	ErrUnknownPipe    = errors.New("unknown pipe reference")
	ErrUnknownKind    = errors.New("unknown pipe kind")
	ErrUnknownOutput  = errors.New("unknown output selector")
	ErrPreviousCount  = errors.New("wrong number of previous pipes")
	ErrTailsMustBeSet = errors.New("at least one tail must be listed")
)

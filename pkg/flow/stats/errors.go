package stats

import "github.com/pkg/errors"

var (
	ErrStepMustBeSet   = errors.New("step must be set")
	ErrClientMustBeSet = errors.New("job client must be set")
)

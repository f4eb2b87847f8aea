package scope

import "github.com/pkg/errors"

var ErrGraphMustBeSet = errors.New("element graph must be set")

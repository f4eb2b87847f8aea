package partition

import "github.com/pkg/errors"

var (
	ErrKeyMustBeSet      = errors.New("partition key must be set")
	ErrInvalidPartitions = errors.New("number of partitions must be greater than 0")
)

package partition

import (
	"math"

	"github.com/pkg/errors"
)

// Partitioner assigns keys to partitions.
type Partitioner struct {
	hashers map[int]ElementHasher
}

// Option configures a Partitioner.
type Option func(p *Partitioner)

// WithHasher hashes the component at position pos with h instead of HashOf.
func WithHasher(pos int, h ElementHasher) Option {
	return func(p *Partitioner) {
		p.hashers[pos] = h
	}
}

func New(opts ...Option) *Partitioner {
	p := &Partitioner{hashers: make(map[int]ElementHasher)}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Hash returns the hash of key. A nil key breaks the caller's contract and panics.
func (p *Partitioner) Hash(key Tuple) int32 {
	if key == nil {
		panic(ErrKeyMustBeSet)
	}

	return hashTuple(key, p.hashers)
}

// Partition returns the partition of key among numPartitions, in [0, numPartitions).
// numPartitions must be positive.
func (p *Partitioner) Partition(key Tuple, numPartitions int) int {
	if numPartitions <= 0 {
		panic(errors.Wrapf(ErrInvalidPartitions, "got %d", numPartitions))
	}

	return int(p.Hash(key)&math.MaxInt32) % numPartitions
}

// PartitionPair returns the partition of the grouping part of pair. It equals Partition(pair.Lhs, numPartitions).
func (p *Partitioner) PartitionPair(pair Pair, numPartitions int) int {
	return p.Partition(pair.Lhs, numPartitions)
}

var defaultPartitioner = New()

// Hash hashes key with the default partitioner.
func Hash(key Tuple) int32 {
	return defaultPartitioner.Hash(key)
}

// Partition routes key with the default partitioner.
func Partition(key Tuple, numPartitions int) int {
	return defaultPartitioner.Partition(key, numPartitions)
}

// PartitionPair routes the grouping part of pair with the default partitioner.
func PartitionPair(pair Pair, numPartitions int) int {
	return defaultPartitioner.PartitionPair(pair, numPartitions)
}

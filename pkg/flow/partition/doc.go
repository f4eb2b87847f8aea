// Package partition routes grouping keys to shuffle partitions.
//
// The hash of a key is the list hash used by JVM based backends: start at 1 and fold every
// component as 31*h + hash(component) in 32-bit arithmetic, with JVM compatible component
// hashes for strings, integers, floats and booleans. A partition is then
// (hash & 0x7FFFFFFF) % numPartitions, so that keys planned here land on the same partition as
// keys shuffled by an existing backend.
//
// Partitioners are immutable and safe for concurrent use.
package partition

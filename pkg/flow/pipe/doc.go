// Package pipe provides the logical model of a pipe assembly.
//
// A pipe assembly is a DAG of nodes built by composition: every constructor takes the upstream
// nodes it reads from, so an assembly is reachable from its tails. Nodes come in a closed set of
// kinds. Branch nodes only name a branch, Each and Every are operators applying a function to
// every record or to every group, GroupBy, CoGroup, Merge and HashJoin are splices joining
// branches at a shuffle boundary, and SubAssembly wraps a reusable piece of an assembly behind
// its tails.
//
// Nodes are immutable once built, apart from their configuration overlays. Two nodes are never
// equal unless they are the same instance, which lets the planner detect distinct branches
// sharing a name.
package pipe

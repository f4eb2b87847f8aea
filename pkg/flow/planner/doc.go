// Package planner compiles a pipe assembly into process steps.
//
// Planning binds source taps to the heads of the assembly and sink taps to its tails, resolves
// the field scopes of every pipe, then cuts the flattened graph at every splice. A splice ends
// the step writing into its shuffle and starts the step reading from it, so each step is a
// closed sub graph between shuffle boundaries, source taps and sink taps.
//
// Steps are ordered by their dependencies: a step reading a shuffle, or a tap, written by
// another step always comes after it. Planning is synchronous, performs no I/O, and either
// returns every step or fails as a whole.
package planner

// Package element provides the flattened graph a pipe assembly is planned on.
//
// An element is a pipe node, a source or sink tap bound to a branch name, or an extent: a
// synthetic head or tail the planner adds so that every process step graph has a single
// formal entry and exit. Sub assemblies never appear in an element graph, they are unwound
// into their tails when the graph is built.
package element

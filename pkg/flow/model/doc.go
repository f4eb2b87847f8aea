// Package model provides the data structures shared by the flow packages.
// It defines the field sets and scopes computed while resolving a pipe assembly,
// the ordered configuration overlays attached to pipes and process steps,
// and the tap contract used for source, sink and trap endpoints.
package model

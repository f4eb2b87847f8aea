// Package scope resolves, for every pipe of an element graph, which fields it receives and
// which fields it makes visible downstream.
//
// Resolution walks the graph in topological order. Heads receive the fields of the source tap
// bound to them, or unknown fields. Each pipe is then handed the scopes of all its previous
// pipes at once, in the order the pipe declared them, and returns its outgoing scope.
package scope

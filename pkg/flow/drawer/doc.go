// Package drawer renders plans in the DOT language.
//
// Every step becomes a cluster, coloured from blue for the first step to red for the last one.
// Edges are labelled with the fields they carry.
package drawer

// Package flow defines the data contract for chatbot flow graphs:
// typed nodes, directed edges with per-handle routing, runtime state,
// and the message log produced by a simulation.
//
// The graph is pure data. Execution semantics live in the runtime
// engine; nothing in this package mutates a graph after construction.
package flow

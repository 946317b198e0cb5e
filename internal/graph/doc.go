// Package graph builds and holds the job graph for one pipeline run.
//
// Build is a pure function of the validated configuration and the stage
// table: it expands each template into concrete job nodes, resolves the
// template's predecessors to dependency edges, and proves the result
// acyclic. Nothing here talks to the cluster or the filesystem; the graph
// lives only long enough to be serialized by the emitters.
//
// Identifiers are stable. A singleton stage takes its kind as the id, an
// expanded stage appends a zero-padded instance index, so rebuilding an
// unmodified configuration always yields the same id and edge sets.
package graph

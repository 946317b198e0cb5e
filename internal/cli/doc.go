// Package cli is the command-line surface: it parses flags, builds the
// per-invocation logger, and drives the generation pipeline. Process-level
// concerns like exit codes stay in the main package.
package cli

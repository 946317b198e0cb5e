// Package pipeline wires the generation stages together: resource
// resolution and validation, graph construction, and script emission.
// Validation runs strictly first, so a rejected configuration never
// leaves partial artifacts on disk.
package pipeline

// Package slurm serializes a job graph into the run's artifact tree: one
// sbatch script per job, a master submission script that chains them with
// afterok dependencies, and the four control scripts operators use after
// submission.
//
// Emission is deterministic. Given the same configuration and graph it
// writes byte-identical files, so regenerating over an existing tree is
// safe and diffs stay meaningful. Nothing here validates the graph; by the
// time a graph reaches the emitter it has already been proven acyclic.
package slurm

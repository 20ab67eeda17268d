// Package app wires the application together: logger setup, project
// loading, validation, vector generation, case building and output
// rendering. It owns the lifecycle from a parsed CLI config to the
// rendered result.
package app

package config

import "context"

// Loader is the interface for a format-specific configuration loader. A
// Loader reads a project document, translates it into the format-agnostic
// Model and reports malformed input as *Error values with field paths.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

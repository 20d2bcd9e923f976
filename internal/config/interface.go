package config

import (
	"context"
)

// Loader is the interface for a format-specific sweep loader.
type Loader interface {
	// Load reads sweep files from the given paths, translates them into the
	// format-agnostic model, and returns it expanded and validated.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

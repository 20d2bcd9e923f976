// Package config defines the format-agnostic sweep model along with the
// Loader interface for reading it from a source format.
//
// The `config.Model` is the single source of truth for the executor and the
// per-instance pipeline: by the time one exists, every grid has been cross
// multiplied into concrete instances and validated. Concrete loaders, such
// as for HCL, live in separate packages.
package config

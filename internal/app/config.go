package app

import "errors"

// Config holds everything an App instance needs to run one of its three
// modes: generate a sweep, check existing datasets, or trace one dataset.
type Config struct {
	// SweepPath points at a sweep file or a directory of .hcl files.
	SweepPath string
	// CheckPath switches to check mode: validate every dataset under it.
	CheckPath string
	// TracePath switches to trace mode: replay one dataset directory.
	TracePath string

	// BaseDir overrides the sweep file's base_dir when non-empty.
	BaseDir string
	// Seed overrides the sweep file's seed when non-zero.
	Seed uint64
	// Workers overrides the sweep file's worker count when non-zero.
	Workers int
	// Report renders report.html next to the manifest after a sweep.
	Report bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates the mode selection: exactly one of the three path
// fields must be set.
func NewConfig(cfg Config) (*Config, error) {
	modes := 0
	for _, path := range []string{cfg.SweepPath, cfg.CheckPath, cfg.TracePath} {
		if path != "" {
			modes++
		}
	}
	switch modes {
	case 0:
		return nil, errors.New("a sweep path is required (or -check / -trace)")
	case 1:
		return &cfg, nil
	default:
		return nil, errors.New("sweep path, -check and -trace are mutually exclusive")
	}
}

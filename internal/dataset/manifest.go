package dataset

import (
	"path/filepath"
	"time"
)

// ManifestFileName is the sweep-level run record, written into the base
// directory next to the instance directories.
const ManifestFileName = "sweep.json"

// Instance outcome statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Manifest records one sweep run: which instances were generated, which
// failed, and the headline numbers per instance.
type Manifest struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Instances  []InstanceOutcome `json:"instances"`
}

// InstanceOutcome is one instance's row in the manifest.
type InstanceOutcome struct {
	Dir    string `json:"dir"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	TargetReturn float64 `json:"target_return"`
	MeanReturn   float64 `json:"mean_return"`
	SolveSweeps  int     `json:"solve_sweeps"`
	Episodes     int     `json:"episodes"`
	DurationMS   int64   `json:"duration_ms"`
}

// Failed counts instances that did not complete.
func (m *Manifest) Failed() int {
	n := 0
	for _, inst := range m.Instances {
		if inst.Status == StatusFailed {
			n++
		}
	}
	return n
}

// WriteManifest writes the sweep manifest into baseDir atomically.
func WriteManifest(baseDir string, m *Manifest) error {
	return writeJSON(filepath.Join(baseDir, ManifestFileName), m, true)
}

// LoadManifest reads the sweep manifest from baseDir.
func LoadManifest(baseDir string) (*Manifest, error) {
	var m Manifest
	if err := readJSON(filepath.Join(baseDir, ManifestFileName), &m, true); err != nil {
		return nil, err
	}
	return &m, nil
}

package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write materializes the dataset under dir, creating it if needed. The model
// and metadata files are indented for reading; data.json is compact because
// replay batches dominate the artifact size.
//
// Each file lands via a temp file and rename, so a crash mid-write never
// leaves a half-written artifact under its final name.
func Write(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	model, err := encodeModel(ds.Model)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, ModelFileName), model, true); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, MetadataFileName), ds.Metadata, true); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, DataFileName), ds.Episodes, false)
}

func writeJSON(path string, v any, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(tmp), err)
	}
	return nil
}

package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/mdpgridgo/internal/mdp"
	"github.com/vk/mdpgridgo/internal/rollout"
)

// Load reads an instance directory back into memory. The model is fully
// reconstructed, so a loaded dataset can be stepped, re-solved and replayed.
// Shapes are validated here; kind codes outside the known sets surface as
// ErrUnsupportedKind, shape mismatches as ErrInvalidDimension.
func Load(dir string) (*Dataset, error) {
	var model modelFile
	if err := readJSON(filepath.Join(dir, ModelFileName), &model, true); err != nil {
		return nil, err
	}
	m, err := decodeModel(&model)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ModelFileName, err)
	}

	var meta Metadata
	if err := readJSON(filepath.Join(dir, MetadataFileName), &meta, true); err != nil {
		return nil, err
	}
	cfg := m.Config()
	if meta.NStates != cfg.NStates || meta.NActions != cfg.NActions || meta.NRewards != cfg.NRewards {
		return nil, fmt.Errorf("%w: metadata dims (%d, %d, %d) disagree with model (%d, %d, %d)",
			mdp.ErrInvalidDimension,
			meta.NStates, meta.NActions, meta.NRewards,
			cfg.NStates, cfg.NActions, cfg.NRewards)
	}

	var episodes []*rollout.Episode
	if err := readJSON(filepath.Join(dir, DataFileName), &episodes, false); err != nil {
		return nil, err
	}
	for i, ep := range episodes {
		if ep == nil {
			return nil, fmt.Errorf("%s: episode %d is null", DataFileName, i)
		}
	}

	return &Dataset{Model: m, Metadata: meta, Episodes: episodes}, nil
}

// readJSON decodes one artifact file. Strict mode rejects unknown fields, so
// drift between writer and reader versions fails loudly instead of silently
// dropping data.
func readJSON(path string, v any, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if !strict {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/mdpgridgo/internal/config"
	"github.com/vk/mdpgridgo/internal/ctxlog"
	"github.com/vk/mdpgridgo/internal/fsutil"
	"github.com/vk/mdpgridgo/internal/schema"
)

// Loader implements config.Loader for HCL sweep files.
type Loader struct{}

// NewLoader creates an HCL sweep loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers .hcl files under the given paths, parses them, and
// translates the sweep they declare into the expanded model. Exactly one
// file across all paths may carry a `sweep` block; files without one are
// ignored, so sweep files can live next to unrelated HCL.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			logger.Error("Failed to walk sweep path", "path", path, "error", err)
			return nil, err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl sweep files found in %v", paths)
	}
	logger.Debug("Found sweep files to load", "files", files)

	parser := hclparse.NewParser()
	var (
		sweep     *schema.Sweep
		sweepFile string
	)
	for _, filePath := range files {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var sf schema.SweepFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &sf); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode sweep file %s: %w", filePath, diags)
		}
		if sf.Sweep == nil {
			logger.Debug("File declares no sweep block, skipping", "file", filePath)
			continue
		}
		if sweep != nil {
			return nil, fmt.Errorf("multiple sweep blocks: %s and %s each declare one", sweepFile, filePath)
		}
		sweep, sweepFile = sf.Sweep, filePath
	}
	if sweep == nil {
		return nil, fmt.Errorf("no sweep block found in %d HCL files under %v", len(files), paths)
	}

	model, err := l.translate(sweep, filepath.Dir(sweepFile))
	if err != nil {
		return nil, fmt.Errorf("invalid sweep in %s: %w", sweepFile, err)
	}

	logger.Info("Sweep configuration loaded.",
		"file", sweepFile,
		"grids", len(sweep.Grids),
		"instances", len(model.Instances),
	)
	return model, nil
}

package dataset

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vk/mdpgridgo/internal/fsutil"
	"github.com/vk/mdpgridgo/internal/mdp"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// probTolerance bounds how far a stochastic row's sum may drift from 1.
const probTolerance = 1e-9

// Validator checks instance directories against the embedded artifact
// schemas plus the semantic invariants a schema cannot express: stochastic
// rows summing to one, scalar rewards drawn from the value set, and metadata
// agreeing with the replay data it summarizes.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	byFile := map[string]string{
		ModelFileName:    "model.schema.json",
		MetadataFileName: "metadata.schema.json",
		DataFileName:     "data.schema.json",
	}
	compiler := jsonschema.NewCompiler()
	schemas := make(map[string]*jsonschema.Schema, len(byFile))
	for file, name := range byFile {
		raw, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read embedded schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		schemas[file] = schema
	}
	return &Validator{schemas: schemas}, nil
}

// Summary reports the outcome of validating one instance directory.
type Summary struct {
	Dir      string
	Checked  int
	Failures []string
}

// OK reports whether every check passed.
func (s *Summary) OK() bool { return len(s.Failures) == 0 }

func (s *Summary) fail(format string, args ...any) {
	s.Failures = append(s.Failures, fmt.Sprintf(format, args...))
}

// Render formats the summary as one line per failure, or a single ok line.
func (s *Summary) Render() string {
	if s.OK() {
		return fmt.Sprintf("%s: ok (%d checks)", s.Dir, s.Checked)
	}
	lines := []string{fmt.Sprintf("%s: %d of %d checks failed", s.Dir, len(s.Failures), s.Checked)}
	for _, f := range s.Failures {
		lines = append(lines, "- "+f)
	}
	return strings.Join(lines, "\n")
}

// ValidateDir runs every check against one instance directory.
func (v *Validator) ValidateDir(dir string) *Summary {
	sum := &Summary{Dir: dir}

	for _, file := range []string{ModelFileName, MetadataFileName, DataFileName} {
		sum.Checked++
		if err := v.validateFile(filepath.Join(dir, file), v.schemas[file]); err != nil {
			sum.fail("%s: %v", file, err)
		}
	}
	if !sum.OK() {
		return sum
	}

	sum.Checked++
	ds, err := Load(dir)
	if err != nil {
		sum.fail("load: %v", err)
		return sum
	}

	v.checkModel(ds, sum)
	v.checkReplays(ds, sum)
	return sum
}

// ValidateTree validates every dataset directory under root, identified by
// the presence of a metadata file.
func (v *Validator) ValidateTree(root string) ([]*Summary, error) {
	dirs, err := fsutil.FindDirsContaining(root, MetadataFileName)
	if err != nil {
		return nil, fmt.Errorf("discover dataset dirs: %w", err)
	}
	summaries := make([]*Summary, 0, len(dirs))
	for _, dir := range dirs {
		summaries = append(summaries, v.ValidateDir(dir))
	}
	return summaries, nil
}

func (v *Validator) validateFile(path string, schema *jsonschema.Schema) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return schema.Validate(payload)
}

func (v *Validator) checkModel(ds *Dataset, sum *Summary) {
	m := ds.Model

	switch k := m.Kernel().(type) {
	case *mdp.SProbKernel:
		checkProbRows(sum, "transitions", k.Rows)
	case *mdp.SAProbKernel:
		checkProbPlanes(sum, "transitions", k.Rows)
	case *mdp.SASKernel:
		checkProbPlanes(sum, "transitions", k.P)
	}

	values := m.Values()
	switch r := m.Rewards().(type) {
	case *mdp.SRewards:
		checkValueMembership(sum, "rewards", r.R, values)
	case *mdp.SARewards:
		for s, row := range r.R {
			checkValueMembership(sum, fmt.Sprintf("rewards state %d", s), row, values)
		}
	case *mdp.SASRewards:
		for s, plane := range r.R {
			for a, row := range plane {
				checkValueMembership(sum, fmt.Sprintf("rewards cell (%d, %d)", s, a), row, values)
			}
		}
	case *mdp.SASRRewards:
		for s, plane := range r.P {
			for a, rows := range plane {
				checkProbRows(sum, fmt.Sprintf("rewards cell (%d, %d)", s, a), rows)
			}
		}
	}
}

func (v *Validator) checkReplays(ds *Dataset, sum *Summary) {
	sum.Checked++
	if got, want := len(ds.Episodes), ds.Metadata.NReplay; got != want {
		sum.fail("data: %d episodes, metadata declares n_replay %d", got, want)
	}

	sum.Checked++
	nStates, nActions := ds.Metadata.NStates, ds.Metadata.NActions
	for i, ep := range ds.Episodes {
		for t := range ep.States {
			if s := ep.States[t]; s < 0 || s >= nStates {
				sum.fail("data: episode %d step %d visits state %d outside [0, %d)", i, t, s, nStates)
				return
			}
			if a := ep.Actions[t]; a < 0 || a >= nActions {
				sum.fail("data: episode %d step %d takes action %d outside [0, %d)", i, t, a, nActions)
				return
			}
		}
	}

	if len(ds.Episodes) == 0 {
		return
	}
	sum.Checked++
	minStep, maxStep := math.MaxInt, 0
	for _, ep := range ds.Episodes {
		last := ep.LastStep()
		if last < minStep {
			minStep = last
		}
		if last > maxStep {
			maxStep = last
		}
	}
	if ds.Metadata.DataMinStep != minStep || ds.Metadata.DataMaxStep != maxStep {
		sum.fail("metadata: step bounds (%d, %d) disagree with data (%d, %d)",
			ds.Metadata.DataMinStep, ds.Metadata.DataMaxStep, minStep, maxStep)
	}
}

func checkProbRows(sum *Summary, what string, rows [][]float64) {
	sum.Checked++
	for i, row := range rows {
		total := 0.0
		for _, p := range row {
			if p < 0 {
				sum.fail("%s row %d: negative probability %v", what, i, p)
				return
			}
			total += p
		}
		if math.Abs(total-1) > probTolerance {
			sum.fail("%s row %d: probabilities sum to %v", what, i, total)
			return
		}
	}
}

func checkProbPlanes(sum *Summary, what string, planes [][][]float64) {
	for s, plane := range planes {
		checkProbRows(sum, fmt.Sprintf("%s state %d", what, s), plane)
	}
}

func checkValueMembership(sum *Summary, what string, rewards, values []float64) {
	sum.Checked++
	for i, r := range rewards {
		member := false
		for _, v := range values {
			if r == v {
				member = true
				break
			}
		}
		if !member {
			sum.fail("%s entry %d: reward %v outside the value set", what, i, r)
			return
		}
	}
}

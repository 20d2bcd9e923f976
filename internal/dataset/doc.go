// Package dataset persists MDP instances to disk and reads them back. Each
// instance directory holds three artifacts: model.json (the full generative
// model), metadata.json (dimensions and replay summary) and data.json (the
// replay batch). A sweep's base directory additionally carries sweep.json,
// the run manifest.
//
// Writers are atomic per file. Readers are strict: unknown fields, unknown
// kind codes and shape mismatches are errors. The Validator goes further and
// checks the semantic invariants against the embedded JSON Schemas, for use
// by the CLI's check mode.
package dataset

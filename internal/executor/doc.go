// Package executor runs a sweep's instances concurrently. It owns the worker
// pool and outcome collection; what happens per instance is injected as a
// RunFunc, keeping the generation pipeline out of the scheduling code.
package executor

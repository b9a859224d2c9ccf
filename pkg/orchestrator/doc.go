// Package orchestrator wires preset lookup, rule retrieval, extraction, the
// style cascade and rendering into a single generation pipeline.
package orchestrator

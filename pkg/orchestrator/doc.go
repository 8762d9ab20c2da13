// Package orchestrator wires the model catalog, form builder, transformers,
// decorators and renderer registry into a single entry point.
package orchestrator

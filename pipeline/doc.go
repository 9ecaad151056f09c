// Package pipeline implements the declarative streaming execution engine:
// a Pipeline is an ordered list of named elements built from serialized
// stage descriptors, composed into one lazy pull-based sequence.
//
// Records crossing each stage boundary are flattened (nested list-valued
// items expand one record at a time) and structurally coerced to the next
// element's declared input shape. A Pipeline is itself an element, so
// pipelines nest inside pipelines and inside fork branches.
//
// Execution is single-threaded and cooperative: consuming one record from
// the final output pulls exactly the records needed from upstream. The
// stop_on_error policy decides between halting on the first failure and
// skipping past it; per-element metrics and pipeline stats accumulate as
// the outermost sequence is drained.
package pipeline

// Package services defines shared helpers consumed by the pipeline stages and
// the CLI.
//
// Key responsibilities:
//   - Structured error markers (resource, format, io, configuration) plus the
//     Wrap helper that tags a failure with the stage that produced it, so the
//     CLI can report which part of a run failed.
//   - Context helpers that stamp run identifiers and stage names for logging.
//
// Use these helpers when wiring new stage logic so error reporting and
// observability stay uniform across the pipeline.
package services

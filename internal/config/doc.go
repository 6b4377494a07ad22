// Package config loads, normalizes, and validates scdproc configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SCDPROC_ONTOLOGY. The Config type centralizes every knob the pipeline and CLI
// need: field names, the TimeEnd filter policy, SCD framing limits, and where
// run history is kept.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config

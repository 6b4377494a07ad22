// Package pipeline drives one filter-and-classify pass from an SCD input to
// an SCD output.
//
// A run moves through INIT, OPEN_IO, STREAMING and FINALIZED, or ends in
// FAILED. Records whose expiry field is empty or earlier than the run's
// reference time are dropped; survivors get a category from the configured
// Classifier and are appended to the output. Any fatal error aborts the
// writer, which rolls the output back to its last complete record.
package pipeline

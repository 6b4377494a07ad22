// Package history keeps a SQLite ledger with one row per pipeline run.
//
// The ledger records the counters, outcome, and error classification of each
// run so operators can audit past batches with "scdproc history". Recording
// is best effort: callers log a failed write and keep the run's exit status.
package history

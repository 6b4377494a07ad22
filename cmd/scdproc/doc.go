// Package main hosts the scdproc CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, builds the logger,
// runs preflight checks, loads the ontology, and hands the input and output
// paths to the pipeline driver. Summaries go to stdout and logs to stderr so
// the summary line can be captured by batch schedulers. Supporting commands
// scaffold and inspect configuration and list the run ledger.
//
// Keep this package lean: behaviour lives in the internal packages and this
// package only wires flags to them.
package main

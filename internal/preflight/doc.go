// Package preflight verifies the filesystem before a run opens any record.
//
// PrepareOutput creates a missing output directory and refuses an output path
// that names an existing file. RunAll then checks that the input and ontology
// are readable regular files, that the output directory is writable, and,
// when the run ledger is enabled, that the state directory is usable. A
// failed check is reported by Err as a resource error in the load stage.
package preflight

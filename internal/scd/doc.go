// Package scd reads and writes SCD, the record-oriented text format used for
// document corpora.
//
// An SCD file is a sequence of records. Each field is a line of the form
// "<Key>value"; a field whose key is the boundary key (DOCID by default)
// starts a new record. Lines that are not field lines continue the previous
// field's value, joined with "\n". The Writer prefixes a backslash to any
// continuation line that would otherwise parse as a field line or that already
// starts with a backslash. The Reader strips a leading backslash only when the
// remainder is such a line, so `\<b>` reads as `<b>` and `\\share` as
// `\share`, while `\share` stays as written. Any value round-trips.
//
// Reader yields records lazily and holds its file open only until iteration
// ends. Writer appends records at record boundaries under an advisory lock and
// can roll the file back to the last complete record when a run aborts.
package scd

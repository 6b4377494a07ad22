// Package textutil normalizes free text for keyword matching.
//
// Normalization applies Unicode NFKC composition, folds full-width and
// half-width forms, case-folds, and collapses runs of whitespace to a single
// space. Both titles and ontology keywords go through the same function so a
// substring test on the results is width and case insensitive.
package textutil

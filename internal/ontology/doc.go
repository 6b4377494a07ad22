// Package ontology adapts a category taxonomy into the Classifier consumed by
// the pipeline.
//
// A taxonomy is a set of named classes, each with an optional parent and a
// list of keyword labels. Taxonomies load from OWL RDF/XML, YAML, or TOML,
// selected by file extension. Classification normalizes the title the same
// way as every keyword and picks the class whose keyword is the longest
// substring match, preferring deeper classes and then lower names on ties.
package ontology

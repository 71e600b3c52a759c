// Package operators provides the UFF operator metadata store.
//
// A Schema describes one operation: its category and the ordered input slots
// used to turn a node's flat input list into named arguments. The default
// registry is loaded from an embedded JSON document and may be extended with
// JSON or YAML override files.
package operators

// Package encode writes a value tree back to the native text grammar.
//
// Plain values of a table are written first, as `key = value` lines, followed by one section
// per sub-table. Key order within each group is the stored order. Sub-tables nested inside
// arrays are written inline as `{ key = value }`. The output always parses back into a tree
// that is structurally equal to the input.
package encode

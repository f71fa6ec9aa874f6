// Package conflicts implements detection and resolution of textual merge
// conflict markers.
//
// Resolver performs a single forward scan over a document's lines, dropping
// marker lines and one side of every conflicted region. Inspect reports the
// markers present in a document without changing it. Both operate on plain
// line slices so that callers own all file I/O.
package conflicts

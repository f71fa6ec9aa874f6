// Package sanitize implements the resolve command, which strips conflict
// markers from files in place and keeps one side of every conflicted region.
//
// The Service reads each target through a FileSystem abstraction, resolves the
// decoded lines with the conflicts package, and writes the result back with the
// original permissions. Targets can be listed explicitly, configured, or taken
// from the unmerged paths git reports; resolved files can optionally be staged.
package sanitize

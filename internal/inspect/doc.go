// Package inspect implements the scan command, which reports whether files contain conflict markers without modifying them.
package inspect

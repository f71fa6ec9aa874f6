// Package tests holds end-to-end checks that run the markerfix binary through go run.
package tests

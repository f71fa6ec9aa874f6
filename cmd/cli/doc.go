// Package cli constructs the markerfix command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader, and zap logging.
// The resolve and scan commands receive their configuration and logger through
// provider functions evaluated after the root command has loaded settings.
package cli

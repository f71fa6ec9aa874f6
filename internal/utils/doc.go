// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers embedded defaults, an optional configuration file,
// and MARKERFIX_ environment variables through Viper. LoggerFactory builds zap
// loggers for the structured and console formats, optionally teeing entries
// into a rotating log file.
package utils

// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging, lifecycle observers,
// and typed failures. OSCommandRunner is the os/exec backed runner used by
// markerfix to call git.
package execshell

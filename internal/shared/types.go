// Package shared declares the collaborator interfaces consumed by the resolve and scan services.
package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/markerfix/internal/execshell"
)

// FileSystem exposes the file operations required by the services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// GitExecutor exposes the subset of shell execution used by repository operations.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes the repository-level git operations used around conflict resolution.
type GitRepositoryManager interface {
	ListUnmergedFiles(executionContext context.Context, repositoryPath string) ([]string, error)
	StageFiles(executionContext context.Context, repositoryPath string, paths []string) error
}

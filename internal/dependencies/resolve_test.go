package dependencies_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/markerfix/internal/dependencies"
	"github.com/temirov/markerfix/internal/execshell"
	"github.com/temirov/markerfix/internal/filesystem"
	"github.com/temirov/markerfix/internal/gitrepo"
)

type stubFileSystem struct{}

func (stubFileSystem) Stat(string) (fs.FileInfo, error)            { return nil, fs.ErrNotExist }
func (stubFileSystem) ReadFile(string) ([]byte, error)             { return nil, fs.ErrNotExist }
func (stubFileSystem) WriteFile(string, []byte, fs.FileMode) error { return nil }

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

type stubRepositoryManager struct{}

func (stubRepositoryManager) ListUnmergedFiles(context.Context, string) ([]string, error) {
	return nil, nil
}

func (stubRepositoryManager) StageFiles(context.Context, string, []string) error {
	return nil
}

func TestResolveFileSystem(testInstance *testing.T) {
	require.IsType(testInstance, filesystem.OSFileSystem{}, dependencies.ResolveFileSystem(nil))
	require.IsType(testInstance, stubFileSystem{}, dependencies.ResolveFileSystem(stubFileSystem{}))
}

func TestResolveGitExecutor(testInstance *testing.T) {
	existingExecutor, existingError := dependencies.ResolveGitExecutor(stubGitExecutor{}, zap.NewNop(), false)
	require.NoError(testInstance, existingError)
	require.IsType(testInstance, stubGitExecutor{}, existingExecutor)

	for _, humanReadableLogging := range []bool{false, true} {
		defaultExecutor, defaultError := dependencies.ResolveGitExecutor(nil, zap.NewNop(), humanReadableLogging)
		require.NoError(testInstance, defaultError)
		require.IsType(testInstance, &execshell.ShellExecutor{}, defaultExecutor)
	}

	_, missingLoggerError := dependencies.ResolveGitExecutor(nil, nil, false)
	require.ErrorIs(testInstance, missingLoggerError, execshell.ErrLoggerNotConfigured)
}

func TestResolveGitRepositoryManager(testInstance *testing.T) {
	existingManager, existingError := dependencies.ResolveGitRepositoryManager(stubRepositoryManager{}, nil)
	require.NoError(testInstance, existingError)
	require.IsType(testInstance, stubRepositoryManager{}, existingManager)

	defaultManager, defaultError := dependencies.ResolveGitRepositoryManager(nil, stubGitExecutor{})
	require.NoError(testInstance, defaultError)
	require.IsType(testInstance, &gitrepo.RepositoryManager{}, defaultManager)

	_, missingExecutorError := dependencies.ResolveGitRepositoryManager(nil, nil)
	require.ErrorIs(testInstance, missingExecutorError, gitrepo.ErrGitExecutorNotConfigured)
}

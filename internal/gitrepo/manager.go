package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/markerfix/internal/execshell"
)

const (
	gitDiffSubcommandConstant               = "diff"
	gitNameOnlyFlagConstant                 = "--name-only"
	gitNullTerminatedFlagConstant           = "-z"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitShowTopLevelFlagConstant             = "--show-toplevel"
	nullSeparatorConstant                   = "\x00"
	gitUnmergedFilterFlagConstant           = "--diff-filter=U"
	gitAddSubcommandConstant                = "add"
	gitPathSeparatorArgumentConstant        = "--"
	gitTerminalPromptEnvironmentKeyConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant  = "0"
	defaultRepositoryPathConstant           = "."
	executorNotConfiguredMessageConstant    = "git executor not configured"
	listUnmergedErrorTemplateConstant       = "list unmerged files in %s: %w"
	locateTopLevelErrorTemplateConstant     = "locate repository root from %s: %w"
	stageFilesErrorTemplateConstant         = "stage files in %s: %w"
	relativePathErrorTemplateConstant       = "resolve %s relative to %s: %w"
	parentDirectoryPrefixConstant           = ".."
	absoluteRepositoryErrorTemplateConstant = "resolve repository path %s: %w"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager runs git commands against a working tree.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ListUnmergedFiles returns the unmerged paths of the repository, sorted and without duplicates.
// repositoryPath may name any directory inside the work tree. Paths under it are returned joined
// onto repositoryPath; paths elsewhere in the repository are returned absolute.
func (manager *RepositoryManager) ListUnmergedFiles(executionContext context.Context, repositoryPath string) ([]string, error) {
	workingDirectory := normalizeRepositoryPath(repositoryPath)

	topLevelResult, topLevelError := manager.executor.ExecuteGit(executionContext, buildCommandDetails(workingDirectory, gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant))
	if topLevelError != nil {
		return nil, fmt.Errorf(locateTopLevelErrorTemplateConstant, workingDirectory, topLevelError)
	}
	topLevelDirectory := filepath.FromSlash(strings.TrimSpace(topLevelResult.StandardOutput))

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, buildCommandDetails(workingDirectory, gitDiffSubcommandConstant, gitNameOnlyFlagConstant, gitNullTerminatedFlagConstant, gitUnmergedFilterFlagConstant))
	if executionError != nil {
		return nil, fmt.Errorf(listUnmergedErrorTemplateConstant, workingDirectory, executionError)
	}

	physicalWorkingDirectory := workingDirectory
	if absoluteWorkingDirectory, absoluteError := filepath.Abs(workingDirectory); absoluteError == nil {
		physicalWorkingDirectory = physicalPath(absoluteWorkingDirectory)
	}
	uniquePaths := map[string]struct{}{}
	for _, topLevelRelativePath := range strings.Split(executionResult.StandardOutput, nullSeparatorConstant) {
		if len(topLevelRelativePath) == 0 {
			continue
		}
		absolutePath := filepath.Join(topLevelDirectory, filepath.FromSlash(topLevelRelativePath))
		uniquePaths[presentablePath(workingDirectory, physicalWorkingDirectory, absolutePath)] = struct{}{}
	}

	unmergedPaths := make([]string, 0, len(uniquePaths))
	for unmergedPath := range uniquePaths {
		unmergedPaths = append(unmergedPaths, unmergedPath)
	}
	sort.Strings(unmergedPaths)
	return unmergedPaths, nil
}

// StageFiles runs git add for the provided paths. Paths may be absolute or relative to the current directory.
func (manager *RepositoryManager) StageFiles(executionContext context.Context, repositoryPath string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	workingDirectory := normalizeRepositoryPath(repositoryPath)
	repositoryRelativePaths, relativeError := relativeToRepository(workingDirectory, paths)
	if relativeError != nil {
		return fmt.Errorf(stageFilesErrorTemplateConstant, workingDirectory, relativeError)
	}

	arguments := append([]string{gitAddSubcommandConstant, gitPathSeparatorArgumentConstant}, repositoryRelativePaths...)
	if _, executionError := manager.executor.ExecuteGit(executionContext, buildCommandDetails(workingDirectory, arguments...)); executionError != nil {
		return fmt.Errorf(stageFilesErrorTemplateConstant, workingDirectory, executionError)
	}
	return nil
}

func buildCommandDetails(workingDirectory string, arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentKeyConstant: gitTerminalPromptDisabledValueConstant},
	}
}

func normalizeRepositoryPath(repositoryPath string) string {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return defaultRepositoryPathConstant
	}
	return filepath.Clean(trimmedPath)
}

// physicalPath returns the symlink-free form of an absolute path, as git reports it, or the path itself when it cannot be evaluated.
func physicalPath(absolutePath string) string {
	if evaluatedPath, evaluationError := filepath.EvalSymlinks(absolutePath); evaluationError == nil {
		return evaluatedPath
	}
	return absolutePath
}

func presentablePath(workingDirectory string, physicalWorkingDirectory string, absolutePath string) string {
	relativePath, relativeError := filepath.Rel(physicalWorkingDirectory, absolutePath)
	if relativeError != nil || relativePath == parentDirectoryPrefixConstant || strings.HasPrefix(relativePath, parentDirectoryPrefixConstant+string(filepath.Separator)) {
		return absolutePath
	}
	return filepath.Join(workingDirectory, relativePath)
}

// relativeToRepository rewrites paths so git add resolves them from the repository directory.
func relativeToRepository(workingDirectory string, paths []string) ([]string, error) {
	absoluteRepository, absoluteError := filepath.Abs(workingDirectory)
	if absoluteError != nil {
		return nil, fmt.Errorf(absoluteRepositoryErrorTemplateConstant, workingDirectory, absoluteError)
	}
	absoluteRepository = physicalPath(absoluteRepository)

	relativePaths := make([]string, 0, len(paths))
	for _, path := range paths {
		absolutePath, pathError := filepath.Abs(path)
		if pathError != nil {
			return nil, fmt.Errorf(relativePathErrorTemplateConstant, path, workingDirectory, pathError)
		}
		relativePath, relError := filepath.Rel(absoluteRepository, physicalPath(absolutePath))
		if relError != nil {
			return nil, fmt.Errorf(relativePathErrorTemplateConstant, path, workingDirectory, relError)
		}
		relativePaths = append(relativePaths, filepath.ToSlash(relativePath))
	}
	return relativePaths, nil
}

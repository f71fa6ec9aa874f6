package sanitize

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/markerfix/internal/conflicts"
	"github.com/temirov/markerfix/internal/shared"
	pathutils "github.com/temirov/markerfix/internal/utils/path"
)

const (
	sanitizedMessageTemplateConstant        = "Sanitized %s\n"
	notFoundMessageTemplateConstant         = "%s not found\n"
	wouldSanitizeMessageTemplateConstant    = "Would sanitize %s (%d regions)\n"
	rejectedMessageTemplateConstant         = "%s left unchanged: unterminated conflict region starting at line %d\n"
	noFilesProvidedMessageConstant          = "no files provided; specify paths, --unmerged, or configure tools.resolve.paths"
	unresolvedFilesMessageConstant          = "unresolved conflict regions remain"
	unresolvedFilesErrorTemplateConstant    = "%w in %d file(s)"
	fileSystemMissingMessageConstant        = "file system not configured"
	repositoryManagerMissingMessageConstant = "git repository manager not configured"
	readFileErrorTemplateConstant           = "read %s: %w"
	writeFileErrorTemplateConstant          = "write %s: %w"
	listUnmergedErrorTemplateConstant       = "collect unmerged files: %w"
	stageFilesErrorTemplateConstant         = "stage resolved files: %w"
	resolverErrorTemplateConstant           = "configure resolver: %w"
	logMessageFileSanitizedConstant         = "sanitized file"
	logMessageFileMissingConstant           = "file not found"
	logMessageFileRejectedConstant          = "unterminated conflict region; file left unchanged"
	logMessageDryRunConstant                = "dry run; file not written"
	logMessageNoUnmergedFilesConstant       = "no unmerged files reported"
	logMessageStagedFilesConstant           = "staged resolved files"
	logFieldPathConstant                    = "path"
	logFieldRegionsConstant                 = "regions"
	logFieldLineConstant                    = "line"
	logFieldRepositoryConstant              = "repository"
	logFieldCountConstant                   = "count"
)

// ErrNoFilesProvided indicates no target files were supplied by any source.
var ErrNoFilesProvided = errors.New(noFilesProvidedMessageConstant)

// ErrUnresolvedFiles indicates at least one file was left unchanged because of an unterminated region.
var ErrUnresolvedFiles = errors.New(unresolvedFilesMessageConstant)

// ErrFileSystemNotConfigured indicates the service was constructed without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates a git operation was requested without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// Outcome classifies the handling of a single file.
type Outcome string

// Supported outcomes.
const (
	OutcomeSanitized     Outcome = Outcome("sanitized")
	OutcomeWouldSanitize Outcome = Outcome("would_sanitize")
	OutcomeNotFound      Outcome = Outcome("not_found")
	OutcomeRejected      Outcome = Outcome("rejected")
)

// Options configures a resolve run.
type Options struct {
	Paths              []string
	IncludeUnmerged    bool
	RepositoryPath     string
	Side               conflicts.Side
	UnterminatedPolicy conflicts.UnterminatedPolicy
	DryRun             bool
	Stage              bool
}

// FileResult records what happened to one file.
type FileResult struct {
	Path                  string
	Outcome               Outcome
	RegionsResolved       int
	UnterminatedStartLine int
}

// Dependencies groups the collaborators required by Service.
type Dependencies struct {
	Logger            *zap.Logger
	FileSystem        shared.FileSystem
	RepositoryManager shared.GitRepositoryManager
	OutputWriter      io.Writer
}

// Service resolves conflict markers in files.
type Service struct {
	logger            *zap.Logger
	fileSystem        shared.FileSystem
	repositoryManager shared.GitRepositoryManager
	outputWriter      io.Writer
}

// NewService constructs a Service. A nil logger or writer is replaced by a no-op implementation.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputWriter := dependencies.OutputWriter
	if outputWriter == nil {
		outputWriter = io.Discard
	}

	return &Service{
		logger:            logger,
		fileSystem:        dependencies.FileSystem,
		repositoryManager: dependencies.RepositoryManager,
		outputWriter:      outputWriter,
	}, nil
}

// Run resolves every target file in order and prints one status line per file.
// Missing files are reported and skipped. Files rejected under the reject policy
// are reported and cause ErrUnresolvedFiles once all files have been processed.
// An I/O failure stops the run; files already written are still staged when staging is enabled.
func (service *Service) Run(executionContext context.Context, options Options) ([]FileResult, error) {
	resolver, resolverError := conflicts.NewResolver(conflicts.ResolverOptions{
		Side:               options.Side,
		UnterminatedPolicy: options.UnterminatedPolicy,
	})
	if resolverError != nil {
		return nil, fmt.Errorf(resolverErrorTemplateConstant, resolverError)
	}

	targetPaths, collectionError := service.collectPaths(executionContext, options)
	if collectionError != nil {
		return nil, collectionError
	}

	results := make([]FileResult, 0, len(targetPaths))
	writtenPaths := make([]string, 0, len(targetPaths))
	rejectedCount := 0

	for _, targetPath := range targetPaths {
		result, processError := service.processFile(resolver, targetPath, options.DryRun)
		if processError != nil {
			if options.Stage && len(writtenPaths) > 0 {
				if stageError := service.stage(executionContext, options.RepositoryPath, writtenPaths); stageError != nil {
					return results, errors.Join(processError, stageError)
				}
			}
			return results, processError
		}
		results = append(results, result)

		switch result.Outcome {
		case OutcomeSanitized:
			writtenPaths = append(writtenPaths, targetPath)
		case OutcomeRejected:
			rejectedCount++
		}
	}

	if options.Stage && len(writtenPaths) > 0 {
		if stageError := service.stage(executionContext, options.RepositoryPath, writtenPaths); stageError != nil {
			return results, stageError
		}
	}

	if rejectedCount > 0 {
		return results, fmt.Errorf(unresolvedFilesErrorTemplateConstant, ErrUnresolvedFiles, rejectedCount)
	}

	return results, nil
}

func (service *Service) collectPaths(executionContext context.Context, options Options) ([]string, error) {
	if len(options.Paths) == 0 && !options.IncludeUnmerged {
		return nil, ErrNoFilesProvided
	}

	candidatePaths := append([]string{}, options.Paths...)
	if options.IncludeUnmerged {
		if service.repositoryManager == nil {
			return nil, ErrRepositoryManagerNotConfigured
		}
		unmergedPaths, listError := service.repositoryManager.ListUnmergedFiles(executionContext, options.RepositoryPath)
		if listError != nil {
			return nil, fmt.Errorf(listUnmergedErrorTemplateConstant, listError)
		}
		if len(unmergedPaths) == 0 {
			service.logger.Info(logMessageNoUnmergedFilesConstant, zap.String(logFieldRepositoryConstant, options.RepositoryPath))
		}
		candidatePaths = append(candidatePaths, unmergedPaths...)
	}

	return pathutils.UniqueCleanPaths(candidatePaths), nil
}

func (service *Service) processFile(resolver *conflicts.Resolver, targetPath string, dryRun bool) (FileResult, error) {
	fileInfo, statError := service.fileSystem.Stat(targetPath)
	if statError != nil || !fileInfo.Mode().IsRegular() {
		service.logger.Debug(logMessageFileMissingConstant, zap.String(logFieldPathConstant, targetPath))
		fmt.Fprintf(service.outputWriter, notFoundMessageTemplateConstant, targetPath)
		return FileResult{Path: targetPath, Outcome: OutcomeNotFound}, nil
	}

	content, readError := service.fileSystem.ReadFile(targetPath)
	if readError != nil {
		return FileResult{}, fmt.Errorf(readFileErrorTemplateConstant, targetPath, readError)
	}

	resolution, resolveError := resolver.Resolve(conflicts.SplitLines(conflicts.DecodeText(content)))
	if resolveError != nil {
		if !errors.Is(resolveError, conflicts.ErrUnterminatedConflict) {
			return FileResult{}, resolveError
		}
		service.logger.Warn(
			logMessageFileRejectedConstant,
			zap.String(logFieldPathConstant, targetPath),
			zap.Int(logFieldLineConstant, resolution.UnterminatedStartLine),
		)
		fmt.Fprintf(service.outputWriter, rejectedMessageTemplateConstant, targetPath, resolution.UnterminatedStartLine)
		return FileResult{Path: targetPath, Outcome: OutcomeRejected, UnterminatedStartLine: resolution.UnterminatedStartLine}, nil
	}

	result := FileResult{
		Path:                  targetPath,
		RegionsResolved:       resolution.RegionsResolved,
		UnterminatedStartLine: resolution.UnterminatedStartLine,
	}

	if dryRun {
		service.logger.Debug(logMessageDryRunConstant, zap.String(logFieldPathConstant, targetPath), zap.Int(logFieldRegionsConstant, resolution.RegionsResolved))
		fmt.Fprintf(service.outputWriter, wouldSanitizeMessageTemplateConstant, targetPath, resolution.RegionsResolved)
		result.Outcome = OutcomeWouldSanitize
		return result, nil
	}

	if writeError := service.fileSystem.WriteFile(targetPath, []byte(conflicts.JoinLines(resolution.Lines)), fileInfo.Mode().Perm()); writeError != nil {
		return FileResult{}, fmt.Errorf(writeFileErrorTemplateConstant, targetPath, writeError)
	}

	service.logger.Info(logMessageFileSanitizedConstant, zap.String(logFieldPathConstant, targetPath), zap.Int(logFieldRegionsConstant, resolution.RegionsResolved))
	fmt.Fprintf(service.outputWriter, sanitizedMessageTemplateConstant, targetPath)
	result.Outcome = OutcomeSanitized
	return result, nil
}

func (service *Service) stage(executionContext context.Context, repositoryPath string, paths []string) error {
	if service.repositoryManager == nil {
		return ErrRepositoryManagerNotConfigured
	}
	if stageError := service.repositoryManager.StageFiles(executionContext, repositoryPath, paths); stageError != nil {
		return fmt.Errorf(stageFilesErrorTemplateConstant, stageError)
	}
	service.logger.Info(logMessageStagedFilesConstant, zap.String(logFieldRepositoryConstant, repositoryPath), zap.Int(logFieldCountConstant, len(paths)))
	return nil
}

package inspect

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
	statusLineTemplateConstant              = "%s\n"
	noFilesProvidedMessageConstant          = "no files provided; specify paths, --unmerged, or configure tools.scan.paths"
	fileSystemMissingMessageConstant        = "file system not configured"
	repositoryManagerMissingMessageConstant = "git repository manager not configured"
	readFileErrorTemplateConstant           = "read %s: %w"
	listUnmergedErrorTemplateConstant       = "collect unmerged files: %w"
	logMessageFileScannedConstant           = "scanned file"
	logMessageFileMissingConstant           = "file not found"
	logFieldPathConstant                    = "path"
	logFieldStatusConstant                  = "status"
	logFieldRegionsConstant                 = "regions"
)

// ErrNoFilesProvided indicates no target files were supplied by any source.
var ErrNoFilesProvided = errors.New(noFilesProvidedMessageConstant)

// ErrFileSystemNotConfigured indicates the service was constructed without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates unmerged files were requested without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// Options configures a scan run.
type Options struct {
	Paths           []string
	IncludeUnmerged bool
	RepositoryPath  string
	Format          ReportFormat
}

// Dependencies groups the collaborators required by Service.
type Dependencies struct {
	Logger            *zap.Logger
	FileSystem        shared.FileSystem
	RepositoryManager shared.GitRepositoryManager
	OutputWriter      io.Writer
}

// Service scans files for conflict markers.
type Service struct {
	logger            *zap.Logger
	fileSystem        shared.FileSystem
	repositoryManager shared.GitRepositoryManager
	outputWriter      io.Writer
}

// NewService constructs a Service.
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

// Run scans every target path. Text output is streamed one line per file;
// structured formats are written once all files have been scanned.
func (service *Service) Run(executionContext context.Context, options Options) (Report, error) {
	format, formatError := ParseReportFormat(string(options.Format))
	if formatError != nil {
		return Report{}, formatError
	}

	targetPaths, collectionError := service.collectPaths(executionContext, options)
	if collectionError != nil {
		return Report{}, collectionError
	}

	renderer := rendererFor(format)
	report := Report{Files: make([]FileReport, 0, len(targetPaths))}

	for _, targetPath := range targetPaths {
		fileReport, scanError := service.scanFile(targetPath)
		if scanError != nil {
			return report, scanError
		}
		report.Files = append(report.Files, fileReport)
		if fileReport.Status == FileStatusConflicted {
			report.ConflictedFiles++
		}
		if renderer == nil {
			fmt.Fprintf(service.outputWriter, statusLineTemplateConstant, fileReport.StatusLine())
		}
	}

	if renderer != nil {
		if renderError := renderer.Render(service.outputWriter, report); renderError != nil {
			return report, renderError
		}
	}

	return report, nil
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
		candidatePaths = append(candidatePaths, unmergedPaths...)
	}

	return pathutils.UniqueCleanPaths(candidatePaths), nil
}

func (service *Service) scanFile(targetPath string) (FileReport, error) {
	fileInfo, statError := service.fileSystem.Stat(targetPath)
	if statError != nil || !fileInfo.Mode().IsRegular() {
		service.logger.Debug(logMessageFileMissingConstant, zap.String(logFieldPathConstant, targetPath))
		return FileReport{Path: targetPath, Status: FileStatusNotFound}, nil
	}

	content, readError := service.fileSystem.ReadFile(targetPath)
	if readError != nil {
		return FileReport{}, fmt.Errorf(readFileErrorTemplateConstant, targetPath, readError)
	}

	markerReport := conflicts.Inspect(conflicts.SplitLines(conflicts.DecodeText(content)))
	fileReport := FileReport{Path: targetPath, Status: FileStatusClean}
	if markerReport.HasMarkers() {
		fileReport.Status = FileStatusConflicted
		fileReport.Markers = &markerReport
	}

	service.logger.Debug(
		logMessageFileScannedConstant,
		zap.String(logFieldPathConstant, targetPath),
		zap.String(logFieldStatusConstant, string(fileReport.Status)),
		zap.Int(logFieldRegionsConstant, markerReport.Regions),
	)
	return fileReport, nil
}

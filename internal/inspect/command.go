package inspect

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/markerfix/internal/dependencies"
	"github.com/temirov/markerfix/internal/shared"
	flagutils "github.com/temirov/markerfix/internal/utils/flags"
)

const (
	commandUseConstant                    = "scan [path...]"
	commandShortDescriptionConstant       = "Report files that contain conflict markers"
	commandLongDescriptionConstant        = "scan reads each file and reports whether it contains conflict markers. Files are never modified."
	commandExecutionErrorTemplateConstant = "scan failed: %w"
	flagFormatNameConstant                = "format"
	flagFormatDescriptionConstant         = "Output format for the scan report"
	flagUnmergedNameConstant              = "unmerged"
	flagUnmergedDescriptionConstant       = "Also scan the files git reports as unmerged"
	flagRepositoryNameConstant            = "repository"
	flagRepositoryDescriptionConstant     = "Repository used for --unmerged"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the scan command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	FileSystem                   shared.FileSystem
	GitExecutor                  shared.GitExecutor
	GitRepositoryManager         shared.GitRepositoryManager
}

// Build constructs the scan command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flagutils.AddChoiceFlag(command.Flags(), flagFormatNameConstant, string(defaults.Format), ReportFormats(), flagFormatDescriptionConstant)
	command.Flags().Bool(flagUnmergedNameConstant, false, flagUnmergedDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, defaults.RepositoryPath, flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	if len(options.Paths) == 0 && !options.IncludeUnmerged {
		_ = command.Help()
		return ErrNoFilesProvided
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitRepositoryManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	service, serviceError := NewService(Dependencies{
		Logger:            logger,
		FileSystem:        dependencies.ResolveFileSystem(builder.FileSystem),
		RepositoryManager: repositoryManager,
		OutputWriter:      command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	if _, runError := service.Run(command.Context(), options); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (Options, error) {
	configuration := builder.resolveConfiguration()
	flagSet := command.Flags()

	format := configuration.Format
	if flagSet.Changed(flagFormatNameConstant) {
		formatValue, _ := flagSet.GetString(flagFormatNameConstant)
		format = ReportFormat(formatValue)
	}
	parsedFormat, formatError := ParseReportFormat(string(format))
	if formatError != nil {
		return Options{}, formatError
	}

	repositoryPath := configuration.RepositoryPath
	if flagSet.Changed(flagRepositoryNameConstant) {
		repositoryValue, _ := flagSet.GetString(flagRepositoryNameConstant)
		repositoryPath = CommandConfiguration{RepositoryPath: repositoryValue}.Sanitize().RepositoryPath
	}

	includeUnmerged, _ := flagSet.GetBool(flagUnmergedNameConstant)

	paths := CommandConfiguration{Paths: arguments}.Sanitize().Paths
	if len(paths) == 0 {
		paths = configuration.Paths
	}

	return Options{
		Paths:           paths,
		IncludeUnmerged: includeUnmerged,
		RepositoryPath:  repositoryPath,
		Format:          parsedFormat,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

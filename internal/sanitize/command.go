package sanitize

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/markerfix/internal/conflicts"
	"github.com/temirov/markerfix/internal/dependencies"
	"github.com/temirov/markerfix/internal/shared"
	flagutils "github.com/temirov/markerfix/internal/utils/flags"
	pathutils "github.com/temirov/markerfix/internal/utils/path"
)

const (
	commandUseConstant                    = "resolve [path...]"
	commandShortDescriptionConstant       = "Strip conflict markers and keep one side of every region"
	commandLongDescriptionConstant        = "resolve rewrites each file in place, removing conflict markers and keeping the selected side of every conflicted region. Paths come from arguments, the tools.resolve.paths configuration, or the repository's unmerged files."
	commandExecutionErrorTemplateConstant = "resolve failed: %w"
	flagKeepNameConstant                  = "keep"
	flagKeepDescriptionConstant           = "Side of each conflict region to keep"
	flagUnterminatedNameConstant          = "unterminated"
	flagUnterminatedDescriptionConstant   = "Handling of a file that ends inside a conflict region"
	flagUnmergedNameConstant              = "unmerged"
	flagUnmergedDescriptionConstant       = "Also resolve the files git reports as unmerged"
	flagRepositoryNameConstant            = "repository"
	flagRepositoryDescriptionConstant     = "Repository used for --unmerged and --stage"
	flagStageNameConstant                 = "stage"
	flagStageDescriptionConstant          = "Stage resolved files with git add"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Report what would change without writing files"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the resolve command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	FileSystem                   shared.FileSystem
	GitExecutor                  shared.GitExecutor
	GitRepositoryManager         shared.GitRepositoryManager
}

// Build constructs the resolve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flagutils.AddChoiceFlag(command.Flags(), flagKeepNameConstant, string(defaults.Side), conflicts.Sides(), flagKeepDescriptionConstant)
	flagutils.AddChoiceFlag(command.Flags(), flagUnterminatedNameConstant, string(defaults.UnterminatedPolicy), conflicts.UnterminatedPolicies(), flagUnterminatedDescriptionConstant)
	command.Flags().Bool(flagUnmergedNameConstant, false, flagUnmergedDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, defaults.RepositoryPath, flagRepositoryDescriptionConstant)
	command.Flags().Bool(flagStageNameConstant, defaults.Stage, flagStageDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, defaults.DryRun, flagDryRunDescriptionConstant)

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
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLogging())
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
		if errors.Is(runError, ErrUnresolvedFiles) {
			return runError
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

// parseOptions merges configuration with flags; flags win only when set explicitly.
func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (Options, error) {
	configuration := builder.resolveConfiguration()
	flagSet := command.Flags()

	side := configuration.Side
	if flagSet.Changed(flagKeepNameConstant) {
		keepValue, _ := flagSet.GetString(flagKeepNameConstant)
		side = conflicts.Side(keepValue)
	}
	parsedSide, sideError := conflicts.ParseSide(string(side))
	if sideError != nil {
		return Options{}, sideError
	}

	policy := configuration.UnterminatedPolicy
	if flagSet.Changed(flagUnterminatedNameConstant) {
		policyValue, _ := flagSet.GetString(flagUnterminatedNameConstant)
		policy = conflicts.UnterminatedPolicy(policyValue)
	}
	parsedPolicy, policyError := conflicts.ParseUnterminatedPolicy(string(policy))
	if policyError != nil {
		return Options{}, policyError
	}

	repositoryPath := configuration.RepositoryPath
	if flagSet.Changed(flagRepositoryNameConstant) {
		repositoryValue, _ := flagSet.GetString(flagRepositoryNameConstant)
		repositoryPath = CommandConfiguration{RepositoryPath: repositoryValue}.Sanitize().RepositoryPath
	}

	stage := configuration.Stage
	if flagSet.Changed(flagStageNameConstant) {
		stage, _ = flagSet.GetBool(flagStageNameConstant)
	}

	dryRun := configuration.DryRun
	if flagSet.Changed(flagDryRunNameConstant) {
		dryRun, _ = flagSet.GetBool(flagDryRunNameConstant)
	}

	includeUnmerged, _ := flagSet.GetBool(flagUnmergedNameConstant)

	paths := pathutils.NewHomeExpander().ExpandAll(arguments)
	if len(paths) == 0 {
		paths = configuration.Paths
	}

	return Options{
		Paths:              paths,
		IncludeUnmerged:    includeUnmerged,
		RepositoryPath:     repositoryPath,
		Side:               parsedSide,
		UnterminatedPolicy: parsedPolicy,
		DryRun:             dryRun,
		Stage:              stage,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
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

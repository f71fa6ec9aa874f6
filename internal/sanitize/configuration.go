package sanitize

import (
	"strings"

	"github.com/temirov/markerfix/internal/conflicts"
	pathutils "github.com/temirov/markerfix/internal/utils/path"
)

const defaultRepositoryPathConstant = "."

// CommandConfiguration captures persistent settings for the resolve command.
type CommandConfiguration struct {
	Paths              []string                     `mapstructure:"paths"`
	Side               conflicts.Side               `mapstructure:"keep"`
	UnterminatedPolicy conflicts.UnterminatedPolicy `mapstructure:"unterminated"`
	RepositoryPath     string                       `mapstructure:"repository"`
	Stage              bool                         `mapstructure:"stage"`
	DryRun             bool                         `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration returns baseline configuration values for the resolve command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Paths:              nil,
		Side:               conflicts.SideOurs,
		UnterminatedPolicy: conflicts.UnterminatedKeepPartial,
		RepositoryPath:     defaultRepositoryPathConstant,
		Stage:              false,
		DryRun:             false,
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	homeExpander := pathutils.NewHomeExpander()
	sanitized.Paths = homeExpander.ExpandAll(configuration.Paths)

	if len(strings.TrimSpace(string(configuration.Side))) == 0 {
		sanitized.Side = conflicts.SideOurs
	}
	if len(strings.TrimSpace(string(configuration.UnterminatedPolicy))) == 0 {
		sanitized.UnterminatedPolicy = conflicts.UnterminatedKeepPartial
	}

	sanitized.RepositoryPath = homeExpander.Expand(strings.TrimSpace(configuration.RepositoryPath))
	if len(sanitized.RepositoryPath) == 0 {
		sanitized.RepositoryPath = defaultRepositoryPathConstant
	}

	return sanitized
}

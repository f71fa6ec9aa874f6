package inspect

import (
	"strings"

	pathutils "github.com/temirov/markerfix/internal/utils/path"
)

const defaultRepositoryPathConstant = "."

// CommandConfiguration captures persistent settings for the scan command.
type CommandConfiguration struct {
	Paths          []string     `mapstructure:"paths"`
	Format         ReportFormat `mapstructure:"format"`
	RepositoryPath string       `mapstructure:"repository"`
}

// DefaultCommandConfiguration returns baseline configuration values for the scan command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Paths:          nil,
		Format:         ReportFormatText,
		RepositoryPath: defaultRepositoryPathConstant,
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	homeExpander := pathutils.NewHomeExpander()
	sanitized.Paths = homeExpander.ExpandAll(configuration.Paths)

	if len(strings.TrimSpace(string(configuration.Format))) == 0 {
		sanitized.Format = ReportFormatText
	}

	sanitized.RepositoryPath = homeExpander.Expand(strings.TrimSpace(configuration.RepositoryPath))
	if len(sanitized.RepositoryPath) == 0 {
		sanitized.RepositoryPath = defaultRepositoryPathConstant
	}

	return sanitized
}

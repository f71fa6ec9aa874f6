package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/markerfix/internal/conflicts"
)

const (
	foundMessageTemplateConstant           = "Conflict markers FOUND in %s (%d regions)"
	unterminatedSuffixTemplateConstant     = "; unterminated region starting at line %d"
	notFoundMarkersMessageTemplateConstant = "Conflict markers NOT found in %s"
	missingFileMessageTemplateConstant     = "%s not found"
	unsupportedFormatTemplateConstant      = "unsupported report format %q (expected text, yaml or json)"
	encodeReportErrorTemplateConstant      = "encode %s report: %w"
	jsonIndentConstant                     = "  "
	yamlIndentConstant                     = 2
	reportFormatTextStringConstant         = "text"
	reportFormatYAMLStringConstant         = "yaml"
	reportFormatJSONStringConstant         = "json"
)

// ReportFormat selects how scan results are rendered.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatText ReportFormat = ReportFormat(reportFormatTextStringConstant)
	ReportFormatYAML ReportFormat = ReportFormat(reportFormatYAMLStringConstant)
	ReportFormatJSON ReportFormat = ReportFormat(reportFormatJSONStringConstant)
)

// ReportFormats lists the supported formats in display order.
func ReportFormats() []string {
	return []string{reportFormatTextStringConstant, reportFormatYAMLStringConstant, reportFormatJSONStringConstant}
}

// ParseReportFormat converts user input into a ReportFormat. Empty input selects text.
func ParseReportFormat(rawValue string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(rawValue)) {
	case "", reportFormatTextStringConstant:
		return ReportFormatText, nil
	case reportFormatYAMLStringConstant:
		return ReportFormatYAML, nil
	case reportFormatJSONStringConstant:
		return ReportFormatJSON, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, rawValue)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for configuration decoding.
func (format *ReportFormat) UnmarshalText(text []byte) error {
	parsedFormat, parseError := ParseReportFormat(string(text))
	if parseError != nil {
		return parseError
	}
	*format = parsedFormat
	return nil
}

// FileStatus classifies a scanned path.
type FileStatus string

// Supported file statuses.
const (
	FileStatusConflicted FileStatus = FileStatus("conflicted")
	FileStatusClean      FileStatus = FileStatus("clean")
	FileStatusNotFound   FileStatus = FileStatus("not_found")
)

// FileReport describes the scan result for one path.
type FileReport struct {
	Path    string                  `yaml:"path" json:"path"`
	Status  FileStatus              `yaml:"status" json:"status"`
	Markers *conflicts.MarkerReport `yaml:"markers,omitempty" json:"markers,omitempty"`
}

// Report aggregates the results of a scan.
type Report struct {
	Files           []FileReport `yaml:"files" json:"files"`
	ConflictedFiles int          `yaml:"conflicted_files" json:"conflicted_files"`
}

// StatusLine renders the human-readable line for a file report.
func (fileReport FileReport) StatusLine() string {
	switch fileReport.Status {
	case FileStatusNotFound:
		return fmt.Sprintf(missingFileMessageTemplateConstant, fileReport.Path)
	case FileStatusConflicted:
		line := fmt.Sprintf(foundMessageTemplateConstant, fileReport.Path, fileReport.Markers.Regions)
		if fileReport.Markers.Unterminated {
			line += fmt.Sprintf(unterminatedSuffixTemplateConstant, fileReport.Markers.UnterminatedStartLine)
		}
		return line
	default:
		return fmt.Sprintf(notFoundMarkersMessageTemplateConstant, fileReport.Path)
	}
}

// ReportRenderer writes a complete Report in a structured format.
type ReportRenderer interface {
	Render(writer io.Writer, report Report) error
}

type yamlReportRenderer struct{}

func (yamlReportRenderer) Render(writer io.Writer, report Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return fmt.Errorf(encodeReportErrorTemplateConstant, reportFormatYAMLStringConstant, encodeError)
	}
	return encoder.Close()
}

type jsonReportRenderer struct{}

func (jsonReportRenderer) Render(writer io.Writer, report Report) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndentConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return fmt.Errorf(encodeReportErrorTemplateConstant, reportFormatJSONStringConstant, encodeError)
	}
	return nil
}

// rendererFor returns nil for the text format, which streams status lines instead.
func rendererFor(format ReportFormat) ReportRenderer {
	switch format {
	case ReportFormatYAML:
		return yamlReportRenderer{}
	case ReportFormatJSON:
		return jsonReportRenderer{}
	default:
		return nil
	}
}

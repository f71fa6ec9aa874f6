package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	integrationConflictedContentConstant   = "body {\n<<<<<<< HEAD\n  color: red;\n=======\n  color: blue;\n>>>>>>> feature\n}\n"
	integrationUnterminatedContentConstant = "a\n<<<<<<< HEAD\nb\n=======\nc\n"
	integrationSubtestNameTemplateConstant = "%d_%s"
	integrationMissingFileNameConstant     = "missing.css"
	integrationStylesFileNameConstant      = "styles.css"
	integrationHelpUsagePrefixConstant     = "Usage:"
	integrationHelpDescriptionSnippet      = "markerfix finds conflict markers left by merges and rebases"
	integrationConfigFileNameConstant      = "config.yaml"
)

func TestCLIIntegrationHelp(testInstance *testing.T) {
	outputText := runMarkerfixSuccessfully(testInstance, testInstance.TempDir(), "--help")
	require.Contains(testInstance, outputText, integrationHelpUsagePrefixConstant)
	require.Contains(testInstance, outputText, integrationHelpDescriptionSnippet)
	require.Contains(testInstance, outputText, "resolve")
	require.Contains(testInstance, outputText, "scan")
}

func TestCLIIntegrationResolve(testInstance *testing.T) {
	testCases := []struct {
		name            string
		keepSide        string
		expectedContent string
	}{
		{name: "keep_ours", keepSide: "ours", expectedContent: "body {\n  color: red;\n}\n"},
		{name: "keep_theirs", keepSide: "theirs", expectedContent: "body {\n  color: blue;\n}\n"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(integrationSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			workingDirectory := testInstance.TempDir()
			targetPath := filepath.Join(workingDirectory, integrationStylesFileNameConstant)
			missingPath := filepath.Join(workingDirectory, integrationMissingFileNameConstant)
			require.NoError(testInstance, os.WriteFile(targetPath, []byte(integrationConflictedContentConstant), 0o644))

			outputText := runMarkerfixSuccessfully(testInstance, workingDirectory, "resolve", "--keep", testCase.keepSide, targetPath, missingPath)

			require.Equal(testInstance, fmt.Sprintf("Sanitized %s\n%s not found\n", targetPath, missingPath), filterStructuredOutput(outputText))

			resolvedContent, readError := os.ReadFile(targetPath)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCase.expectedContent, string(resolvedContent))
		})
	}
}

func TestCLIIntegrationRejectLeavesFileUntouched(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	targetPath := filepath.Join(workingDirectory, integrationStylesFileNameConstant)
	require.NoError(testInstance, os.WriteFile(targetPath, []byte(integrationUnterminatedContentConstant), 0o644))

	outputText, runError := runMarkerfix(testInstance, workingDirectory, "resolve", "--unterminated", "reject", targetPath)
	require.Error(testInstance, runError)
	require.Contains(testInstance, outputText, fmt.Sprintf("%s left unchanged: unterminated conflict region starting at line 2", targetPath))
	require.Contains(testInstance, outputText, "unresolved conflict regions remain in 1 file(s)")

	unchangedContent, readError := os.ReadFile(targetPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, integrationUnterminatedContentConstant, string(unchangedContent))
}

func TestCLIIntegrationConfigurationSuppliesPaths(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	targetPath := filepath.Join(workingDirectory, integrationStylesFileNameConstant)
	require.NoError(testInstance, os.WriteFile(targetPath, []byte(integrationConflictedContentConstant), 0o644))

	configurationContent := fmt.Sprintf("common:\n  log_level: error\ntools:\n  resolve:\n    keep: theirs\n    dry_run: true\n    paths:\n      - %s\n", targetPath)
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, integrationConfigFileNameConstant), []byte(configurationContent), 0o600))

	outputText := runMarkerfixSuccessfully(testInstance, workingDirectory, "resolve")
	require.Equal(testInstance, fmt.Sprintf("Would sanitize %s (1 regions)\n", targetPath), filterStructuredOutput(outputText))

	unchangedContent, readError := os.ReadFile(targetPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, integrationConflictedContentConstant, string(unchangedContent))
}

func TestCLIIntegrationScanYAMLReport(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	conflictedPath := filepath.Join(workingDirectory, integrationStylesFileNameConstant)
	cleanPath := filepath.Join(workingDirectory, "clean.css")
	require.NoError(testInstance, os.WriteFile(conflictedPath, []byte(integrationConflictedContentConstant), 0o644))
	require.NoError(testInstance, os.WriteFile(cleanPath, []byte("body {}\n"), 0o644))

	outputText := runMarkerfixSuccessfully(testInstance, workingDirectory, "scan", "--log-level", "error", "--format", "yaml", conflictedPath, cleanPath)

	var report struct {
		Files []struct {
			Path   string `yaml:"path"`
			Status string `yaml:"status"`
		} `yaml:"files"`
		ConflictedFiles int `yaml:"conflicted_files"`
	}
	require.NoError(testInstance, yaml.Unmarshal([]byte(outputText), &report))
	require.Equal(testInstance, 1, report.ConflictedFiles)
	require.Len(testInstance, report.Files, 2)
	require.Equal(testInstance, conflictedPath, report.Files[0].Path)
	require.Equal(testInstance, "conflicted", report.Files[0].Status)
	require.Equal(testInstance, "clean", report.Files[1].Status)
}

package tests

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

const (
	integrationGoExecutableConstant     = "go"
	integrationPackageTargetConstant    = "."
	integrationGitExecutableConstant    = "git"
	integrationCommandTimeout           = 2 * time.Minute
	integrationGitCommandTimeout        = 30 * time.Second
	integrationStructuredLogPrefix      = "{"
	integrationSearchPathEnvironmentKey = "MARKERFIX_CONFIG_SEARCH_PATH"
)

// runMarkerfix executes the CLI binary from configurationDirectory and returns combined output.
func runMarkerfix(testInstance *testing.T, configurationDirectory string, arguments ...string) (string, error) {
	testInstance.Helper()
	return runMarkerfixInDirectory(testInstance, configurationDirectory, configurationDirectory, arguments...)
}

func runMarkerfixInDirectory(testInstance *testing.T, workingDirectory string, configurationDirectory string, arguments ...string) (string, error) {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancel()

	command := exec.CommandContext(executionContext, markerfixBinaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), integrationSearchPathEnvironmentKey+"="+configurationDirectory)

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

func runMarkerfixSuccessfully(testInstance *testing.T, configurationDirectory string, arguments ...string) string {
	testInstance.Helper()
	outputText, runError := runMarkerfix(testInstance, configurationDirectory, arguments...)
	requireNoError(testInstance, runError, outputText)
	return outputText
}

func runMarkerfixInDirectorySuccessfully(testInstance *testing.T, workingDirectory string, configurationDirectory string, arguments ...string) string {
	testInstance.Helper()
	outputText, runError := runMarkerfixInDirectory(testInstance, workingDirectory, configurationDirectory, arguments...)
	requireNoError(testInstance, runError, outputText)
	return outputText
}

func runGit(testInstance *testing.T, workingDirectory string, arguments ...string) (string, error) {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), integrationGitCommandTimeout)
	defer cancel()

	command := exec.CommandContext(executionContext, integrationGitExecutableConstant, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=markerfix",
		"GIT_AUTHOR_EMAIL=markerfix@example.com",
		"GIT_COMMITTER_NAME=markerfix",
		"GIT_COMMITTER_EMAIL=markerfix@example.com",
		"GIT_CONFIG_NOSYSTEM=1",
		"HOME="+workingDirectory,
	)

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

func runGitSuccessfully(testInstance *testing.T, workingDirectory string, arguments ...string) string {
	testInstance.Helper()
	outputText, runError := runGit(testInstance, workingDirectory, arguments...)
	requireNoError(testInstance, runError, outputText)
	return outputText
}

// filterStructuredOutput drops JSON log lines so that only status lines remain.
func filterStructuredOutput(rawOutput string) string {
	lines := strings.Split(rawOutput, "\n")
	var filtered []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, integrationStructuredLogPrefix) {
			continue
		}
		filtered = append(filtered, line)
	}
	if len(filtered) == 0 {
		return ""
	}
	return strings.Join(filtered, "\n") + "\n"
}

func requireNoError(testInstance *testing.T, err error, output string) {
	testInstance.Helper()
	if err != nil {
		testInstance.Fatalf("command failed: %v\n%s", err, output)
	}
}

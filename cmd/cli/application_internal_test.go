package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	internalTestSubtestNameTemplateConstant = "%d_%s"
	internalTestSearchPathEnvironmentName   = "MARKERFIX_CONFIG_SEARCH_PATH"
	internalTestConflictedContentConstant   = "head\n<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> feature\ntail\n"
)

func TestApplicationHumanReadableLoggingEnabled(testInstance *testing.T) {
	testCases := []struct {
		name      string
		logFormat string
		expected  bool
	}{
		{name: "console", logFormat: "console", expected: true},
		{name: "console_mixed_case", logFormat: " Console ", expected: true},
		{name: "structured", logFormat: "structured", expected: false},
		{name: "empty", logFormat: "", expected: false},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(internalTestSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			application := &Application{
				logger: zap.NewNop(),
				configuration: ApplicationConfiguration{
					Common: ApplicationCommonConfiguration{LogFormat: testCase.logFormat},
				},
			}
			require.Equal(testInstance, testCase.expected, application.humanReadableLoggingEnabled())
		})
	}
}

func TestApplicationPersistentFlagsOverrideConfiguration(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	configurationPath := filepath.Join(temporaryDirectory, "config.yaml")
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte("common:\n  log_level: debug\n  log_format: structured\n"), 0o600))
	testInstance.Setenv(internalTestSearchPathEnvironmentName, temporaryDirectory)

	application := NewApplication()
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))
	require.NoError(testInstance, application.InitializeForCommand("scan"))

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}

func TestApplicationPersistentFlagChangedNilCommand(testInstance *testing.T) {
	application := &Application{logger: zap.NewNop()}
	require.False(testInstance, application.persistentFlagChanged(nil, logLevelFlagNameConstant))
}

func TestApplicationResolveCommandRewritesFile(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	testInstance.Setenv(internalTestSearchPathEnvironmentName, temporaryDirectory)

	targetPath := filepath.Join(temporaryDirectory, "styles.css")
	require.NoError(testInstance, os.WriteFile(targetPath, []byte(internalTestConflictedContentConstant), 0o644))

	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{"resolve", "--keep", "theirs", "--log-level", "error", targetPath})

	require.NoError(testInstance, application.rootCommand.Execute())

	resolvedContent, readError := os.ReadFile(targetPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "head\ntheirs\ntail\n", string(resolvedContent))
	require.Equal(testInstance, "Sanitized "+targetPath+"\n", outputBuffer.String())
}

func TestApplicationScanCommandReportsMarkers(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	testInstance.Setenv(internalTestSearchPathEnvironmentName, temporaryDirectory)

	targetPath := filepath.Join(temporaryDirectory, "App.tsx")
	require.NoError(testInstance, os.WriteFile(targetPath, []byte(internalTestConflictedContentConstant), 0o644))

	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{"scan", "--log-level", "error", targetPath})

	require.NoError(testInstance, application.rootCommand.Execute())
	require.Contains(testInstance, outputBuffer.String(), "Conflict markers FOUND in "+targetPath+" (1 regions)")

	unchangedContent, readError := os.ReadFile(targetPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, internalTestConflictedContentConstant, string(unchangedContent))
}

func TestApplicationExecuteWritesAndReleasesLogFile(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	testInstance.Setenv(internalTestSearchPathEnvironmentName, temporaryDirectory)

	targetPath := filepath.Join(temporaryDirectory, "styles.css")
	logFilePath := filepath.Join(temporaryDirectory, "markerfix.log")
	require.NoError(testInstance, os.WriteFile(targetPath, []byte(internalTestConflictedContentConstant), 0o644))

	application := NewApplication()
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{"resolve", "--log-level", "info", "--log-file", logFilePath, targetPath})

	require.NoError(testInstance, application.Execute())

	logContent, readError := os.ReadFile(logFilePath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(logContent), "sanitized file")
	require.NoError(testInstance, application.loggerFactory.Close())
	require.NoError(testInstance, os.Remove(logFilePath))
}

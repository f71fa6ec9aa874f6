package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	logFileMaximumSizeMegabytesConstant  = 10
	logFileMaximumBackupsConstant        = 3
	logFileMaximumAgeDaysConstant        = 28
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerOptions describes the logger produced by LoggerFactory.
type LoggerOptions struct {
	Level  LogLevel
	Format LogFormat
	// FilePath, when set, tees structured entries into a size-rotated log file.
	FilePath string
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
// Log files opened for the loggers it creates stay open until Close.
type LoggerFactory struct {
	terminalDetector func(fileDescriptor uintptr) bool
	fileWritersGuard sync.Mutex
	fileWriters      []io.Closer
}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// NewLoggerFactory constructs a logger factory writing to the process standard error.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{terminalDetector: isTerminal}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	return factory.CreateLoggerWithOptions(LoggerOptions{Level: requestedLogLevel, Format: requestedLogFormat})
}

// CreateLoggerWithOptions produces a zap.Logger writing to standard error and, optionally, a rotating file.
// Console output colours levels only when standard error is a terminal.
func (factory *LoggerFactory) CreateLoggerWithOptions(options LoggerOptions) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[LogLevel(strings.ToLower(strings.TrimSpace(string(options.Level))))]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, options.Level)
	}

	standardError := os.Stderr
	var standardErrorEncoder zapcore.Encoder
	switch LogFormat(strings.ToLower(strings.TrimSpace(string(options.Format)))) {
	case LogFormatStructured:
		standardErrorEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case LogFormatConsole:
		standardErrorEncoder = zapcore.NewConsoleEncoder(factory.consoleEncoderConfig(standardError))
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, options.Format)
	}

	levelEnabler := zap.NewAtomicLevelAt(zapLogLevel)
	cores := []zapcore.Core{zapcore.NewCore(standardErrorEncoder, zapcore.Lock(standardError), levelEnabler)}

	trimmedFilePath := strings.TrimSpace(options.FilePath)
	if len(trimmedFilePath) > 0 {
		rotatingWriter := &lumberjack.Logger{
			Filename:   trimmedFilePath,
			MaxSize:    logFileMaximumSizeMegabytesConstant,
			MaxBackups: logFileMaximumBackupsConstant,
			MaxAge:     logFileMaximumAgeDaysConstant,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotatingWriter), levelEnabler))
		factory.trackFileWriter(rotatingWriter)
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Close releases every log file opened by the factory. Loggers writing to a closed file reopen it on the next entry.
func (factory *LoggerFactory) Close() error {
	factory.fileWritersGuard.Lock()
	defer factory.fileWritersGuard.Unlock()

	var closeErrors []error
	for _, fileWriter := range factory.fileWriters {
		if closeError := fileWriter.Close(); closeError != nil {
			closeErrors = append(closeErrors, closeError)
		}
	}
	factory.fileWriters = nil
	return errors.Join(closeErrors...)
}

func (factory *LoggerFactory) trackFileWriter(fileWriter io.Closer) {
	factory.fileWritersGuard.Lock()
	defer factory.fileWritersGuard.Unlock()
	factory.fileWriters = append(factory.fileWriters, fileWriter)
}

func (factory *LoggerFactory) consoleEncoderConfig(standardError *os.File) zapcore.EncoderConfig {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if factory.terminalDetector != nil && factory.terminalDetector(standardError.Fd()) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return encoderConfig
}

func isTerminal(fileDescriptor uintptr) bool {
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}

package model

import (
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLogLevel maps a level name to a LogLevel, defaulting to info.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "ERROR":
		return LogLevelError
	case "WARN", "WARNING":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// DebugLogger is a structured logger with component/operation/url context,
// writing either console text or JSON lines through zap.
type DebugLogger struct {
	level    zap.AtomicLevel
	out      zapcore.WriteSyncer
	jsonMode bool
	zl       *zap.Logger
}

var defaultLogger = NewDebugLogger()

// NewDebugLogger creates a stderr logger configured from PAPERBOY_LOG_LEVEL,
// PAPERBOY_DEBUG and PAPERBOY_JSON_LOGS.
func NewDebugLogger() *DebugLogger {
	level := LogLevelInfo
	if v := os.Getenv("PAPERBOY_LOG_LEVEL"); v != "" {
		level = ParseLogLevel(v)
	}
	if v := os.Getenv("PAPERBOY_DEBUG"); strings.EqualFold(v, "true") || v == "1" {
		level = LogLevelDebug
	}
	v := os.Getenv("PAPERBOY_JSON_LOGS")
	jsonMode := strings.EqualFold(v, "true") || v == "1"

	return NewDebugLoggerTo(os.Stderr, level, jsonMode)
}

// NewDebugLoggerTo creates a logger writing to w.
func NewDebugLoggerTo(w io.Writer, level LogLevel, jsonMode bool) *DebugLogger {
	d := &DebugLogger{
		level:    zap.NewAtomicLevelAt(level.zapLevel()),
		out:      zapcore.AddSync(w),
		jsonMode: jsonMode,
	}
	d.rebuild()
	return d
}

func (d *DebugLogger) rebuild() {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if d.jsonMode {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	d.zl = zap.New(zapcore.NewCore(enc, d.out, d.level))
}

// SetLevel sets the logging level
func (d *DebugLogger) SetLevel(level LogLevel) {
	d.level.SetLevel(level.zapLevel())
}

// SetJSONMode switches between console and JSON output
func (d *DebugLogger) SetJSONMode(jsonMode bool) {
	if d.jsonMode == jsonMode {
		return
	}
	d.jsonMode = jsonMode
	d.rebuild()
}

// ShouldLog returns whether a message at the given level would be written
func (d *DebugLogger) ShouldLog(level LogLevel) bool {
	return d.level.Enabled(level.zapLevel())
}

// Sync flushes buffered output.
func (d *DebugLogger) Sync() error {
	return d.zl.Sync()
}

func (d *DebugLogger) log(level LogLevel, message, component, operation, url string, err error, extra map[string]any) {
	if !d.ShouldLog(level) {
		return
	}

	fields := make([]zap.Field, 0, 4+len(extra))
	if component != "" {
		fields = append(fields, zap.String("component", component))
	}
	if operation != "" {
		fields = append(fields, zap.String("operation", operation))
	}
	if url != "" {
		fields = append(fields, zap.String("url", url))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, extra[k]))
	}

	switch level {
	case LogLevelError:
		d.zl.Error(message, fields...)
	case LogLevelWarn:
		d.zl.Warn(message, fields...)
	case LogLevelDebug:
		d.zl.Debug(message, fields...)
	default:
		d.zl.Info(message, fields...)
	}
}

// DebugWithContext logs a debug-level message with context
func (d *DebugLogger) DebugWithContext(message, component, operation, url string, extra map[string]any) {
	d.log(LogLevelDebug, message, component, operation, url, nil, extra)
}

// InfoWithContext logs an info-level message with context
func (d *DebugLogger) InfoWithContext(message, component, operation, url string, extra map[string]any) {
	d.log(LogLevelInfo, message, component, operation, url, nil, extra)
}

// WarnWithContext logs a warning-level message with context
func (d *DebugLogger) WarnWithContext(message, component, operation, url string, err error, extra map[string]any) {
	d.log(LogLevelWarn, message, component, operation, url, err, extra)
}

// Error logs an error-level message
func (d *DebugLogger) Error(message string, err error) {
	d.log(LogLevelError, message, "", "", "", err, nil)
}

// LogFeedError logs a FeedError with full context
func (d *DebugLogger) LogFeedError(feedErr *FeedError) {
	if feedErr == nil {
		return
	}

	extra := map[string]any{
		"error_id":   feedErr.ID,
		"error_type": string(feedErr.ErrorType),
		"suggestion": feedErr.Suggestion,
	}
	if feedErr.Path != "" {
		extra["path"] = feedErr.Path
	}
	if feedErr.HTTPStatus != 0 {
		extra["http_status"] = feedErr.HTTPStatus
	}
	if feedErr.NetworkError != "" {
		extra["network_error"] = feedErr.NetworkError
	}

	d.log(LogLevelError, feedErr.Message, feedErr.Component, feedErr.Operation, feedErr.URL, feedErr.Cause, extra)
}

// DefaultLogger returns the process-wide logger used by the CLI.
func DefaultLogger() *DebugLogger {
	return defaultLogger
}

// SetLogLevel sets the log level for the default logger
func SetLogLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetJSONLogs toggles JSON output for the default logger
func SetJSONLogs(jsonMode bool) {
	defaultLogger.SetJSONMode(jsonMode)
}

// LogFeedError logs a FeedError using the default logger
func LogFeedError(feedErr *FeedError) {
	defaultLogger.LogFeedError(feedErr)
}

// Package logging builds the zap logger of the markergen command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // console or json
	// File, when set, receives JSON logs rotated by size in addition to the console.
	File string
	// Console is the destination of console output. Defaults to os.Stderr.
	Console io.Writer
}

// Service owns a logger and the log file behind it.
type Service struct {
	logger *zap.Logger
	file   *lumberjack.Logger
}

// ParseLevel returns the zap level spelled s, case insensitively.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// New creates a logging service.
func New(opts Options) (*Service, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	switch opts.Format {
	case "", "console":
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.TimeKey = ""
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	case "json":
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	cores := []zapcore.Core{zapcore.NewCore(consoleEnc, zapcore.AddSync(console), level)}

	s := &Service{}
	if opts.File != "" {
		s.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    2, // megabytes
			MaxBackups: 5,
			MaxAge:     15, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(s.file), level))
	}

	s.logger = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
	return s, nil
}

// Logger returns the zap logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Close flushes buffered entries and closes the log file.
func (s *Service) Close() error {
	// Sync fails on terminals and pipes; only the file matters here.
	_ = s.logger.Sync()
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

var (
	globalMu     sync.RWMutex
	globalLogger = zap.NewNop()
)

// SetGlobal makes log the logger of the package level helpers.
func SetGlobal(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	globalMu.Lock()
	globalLogger = log
	globalMu.Unlock()
}

// L returns the global logger.
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

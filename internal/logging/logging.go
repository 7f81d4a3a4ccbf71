// Package logging provides the structured logger used throughout the bridge.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zap.Logger with the fields the bridge cares about.
type Logger struct {
	*zap.Logger
	config Config
}

// Config holds logger configuration, populated from the [Log] section of the
// bridge's INI configuration file.
type Config struct {
	Level       string
	Format      string
	File        string
	MaxSize     int
	MaxBackups  int
	MaxAge      int
	Development bool
}

// New builds a Logger from config.
func New(config Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := getEncoderConfig(config.Development)

	var encoder zapcore.Encoder
	if config.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, getWriter(config), level)

	var zapLogger *zap.Logger
	if config.Development {
		zapLogger = zap.New(core, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		zapLogger = zap.New(core, zap.AddCaller())
	}

	return &Logger{Logger: zapLogger, config: config}, nil
}

func getEncoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		return zap.NewDevelopmentEncoderConfig()
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func getWriter(config Config) zapcore.WriteSyncer {
	if config.File == "" {
		return zapcore.AddSync(os.Stdout)
	}

	dir := filepath.Dir(config.File)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zapcore.AddSync(os.Stdout)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   true,
	}

	return zapcore.AddSync(io.MultiWriter(os.Stdout, fileWriter))
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() {
	_ = l.Logger.Sync()
}

// WithComponent returns a logger tagged with a component field, used to
// separate YSF, DMR, WIRES-X and storage log lines in shared output.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("component", component)), config: l.config}
}

// StdLogAt returns a stdlib *log.Logger that writes through l at the given
// zap level, for passing into components (database, radioid) that still
// take a standard library logger.
func (l *Logger) StdLogAt(level zapcore.Level, prefix string) *stdlog.Logger {
	std, err := zap.NewStdLogAt(l.Logger.Named(prefix), level)
	if err != nil {
		return stdlog.New(os.Stdout, prefix+" ", stdlog.LstdFlags)
	}
	return std
}

// Default returns a console logger suitable for use before configuration has
// been loaded (startup errors, -version output).
func Default() *Logger {
	config := Config{Level: "info", Format: "console", Development: true}

	logger, err := New(config)
	if err != nil {
		zapLogger, _ := zap.NewDevelopment()
		return &Logger{Logger: zapLogger, config: config}
	}

	return logger
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Comprehensive logging system for the Akaylee SpecMiner. Provides
structured logging with timestamped files, multiple output formats, and beautiful
formatting. Carries the miner-specific event methods used by the tracer and the
session orchestrator.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"log/syslog"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
	LogLevelFatal   LogLevel = "fatal"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

// LoggerConfig holds the configuration for the logger
// Includes syslog options for forwarding miner events
type LoggerConfig struct {
	Level     LogLevel  `json:"level"`
	Format    LogFormat `json:"format"`
	OutputDir string    `json:"output_dir"`
	MaxFiles  int       `json:"max_files"`
	MaxSize   int64     `json:"max_size"` // in bytes
	Timestamp bool      `json:"timestamp"`
	Caller    bool      `json:"caller"`
	Colors    bool      `json:"colors"`
	Compress  bool      `json:"compress"`

	SyslogEnabled bool   `json:"syslog_enabled"`
	SyslogNetwork string `json:"syslog_network"`
	SyslogAddress string `json:"syslog_address"`
}

// Validate checks the LoggerConfig for invalid or missing values.
// Returns an error if the config is invalid, or nil if valid.
func (c *LoggerConfig) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive")
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelFatal:
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

type logEntry struct {
	level  logrus.Level
	msg    string
	fields logrus.Fields
}

// Logger provides comprehensive logging functionality
// Supports an async log queue for high-volume trace lines
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	startTime  time.Time

	logQueue chan logEntry
	quit     chan struct{}
	done     chan struct{}
}

// NewLogger creates a new logger instance
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = &LoggerConfig{
			Level:     LogLevelInfo,
			Format:    LogFormatText,
			OutputDir: "./logs",
			MaxFiles:  10,
			MaxSize:   100 * 1024 * 1024, // 100MB
			Timestamp: true,
			Caller:    true,
			Colors:    true,
			Compress:  false,
		}
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		startTime: time.Now(),
		logQueue:  make(chan logEntry, 1024),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	if err := l.setup(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	go l.runLogQueue()

	return l, nil
}

// setup configures the logger with the given configuration
func (l *Logger) setup() error {
	// Set log level
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)

	// Set formatter
	if err := l.setFormatter(); err != nil {
		return err
	}

	// Setup file output
	if err := l.setupFileOutput(); err != nil {
		return err
	}

	// Setup syslog sink if enabled
	if l.config.SyslogEnabled {
		writer, err := syslog.Dial(l.config.SyslogNetwork, l.config.SyslogAddress, syslog.LOG_INFO|syslog.LOG_USER, "akaylee-specminer")
		if err != nil {
			return fmt.Errorf("failed to connect to syslog: %w", err)
		}
		l.logger.SetOutput(io.MultiWriter(l.logger.Out, writer))
	}

	return nil
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() error {
	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				filename := filepath.Base(f.File)
				return "", fmt.Sprintf("%s:%d", filename, f.Line)
			},
		})

	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   l.config.Timestamp,
			TimestampFormat: time.RFC3339,
			ForceColors:     l.config.Colors,
			DisableColors:   !l.config.Colors,
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				filename := filepath.Base(f.File)
				return "", fmt.Sprintf("%s:%d", filename, f.Line)
			},
		})

	case LogFormatCustom:
		l.logger.SetFormatter(&MinerFormatter{
			CustomFormatter: CustomFormatter{
				Timestamp: l.config.Timestamp,
				Caller:    l.config.Caller,
				Colors:    l.config.Colors,
			},
		})

	default:
		return fmt.Errorf("unsupported log format: %s", l.config.Format)
	}

	return nil
}

// setupFileOutput configures file-based logging
func (l *Logger) setupFileOutput() error {
	if l.config.OutputDir == "" {
		return nil
	}

	// Create output directory
	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate filename with timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("akaylee-specminer_%s.log", timestamp)
	filepath := filepath.Join(l.config.OutputDir, filename)

	// Open log file
	file, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileHandle = file

	// Create multi-writer for both file and console
	multiWriter := io.MultiWriter(os.Stdout, file)
	l.logger.SetOutput(multiWriter)

	// Log startup message
	l.logger.WithFields(logrus.Fields{
		"start_time": l.startTime.Format(time.RFC3339),
		"log_file":   filepath,
		"level":      l.config.Level,
		"format":     l.config.Format,
	}).Info("Akaylee SpecMiner logging system initialized")

	return nil
}

// cleanup removes old log files
func (l *Logger) cleanup() error {
	if l.config.OutputDir == "" {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(l.config.OutputDir, "akaylee-specminer_*.log"))
	if err != nil {
		return err
	}

	if len(files) <= l.config.MaxFiles {
		return nil
	}

	// Sort files by modification time (oldest first)
	sort.Slice(files, func(i, j int) bool {
		statI, _ := os.Stat(files[i])
		statJ, _ := os.Stat(files[j])
		return statI.ModTime().Before(statJ.ModTime())
	})

	// Remove oldest files
	filesToRemove := len(files) - l.config.MaxFiles
	for i := 0; i < filesToRemove; i++ {
		os.Remove(files[i])
	}

	return nil
}

// runLogQueue flushes log entries from the queue in a background goroutine.
// On shutdown the remaining buffered entries are drained before signaling
// done, so nothing accepted before Close is lost.
func (l *Logger) runLogQueue() {
	for {
		select {
		case entry := <-l.logQueue:
			l.logger.WithFields(entry.fields).Log(entry.level, entry.msg)
		case <-l.quit:
			for {
				select {
				case entry := <-l.logQueue:
					l.logger.WithFields(entry.fields).Log(entry.level, entry.msg)
				default:
					close(l.done)
					return
				}
			}
		}
	}
}

// Miner-specific logging methods

// LogSessionStart logs the opening of a traced session
func (l *Logger) LogSessionStart(sessionID string) {
	l.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"timestamp":  time.Now(),
	}).Info("Session started")
}

// LogSessionEnd logs the close of a traced session
func (l *Logger) LogSessionEnd(sessionID string, records int) {
	l.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"records":    records,
		"timestamp":  time.Now(),
	}).Info("Session ended")
}

// LogCall logs a single observed call event with its trace line
func (l *Logger) LogCall(function string, trace string) {
	l.logger.WithFields(logrus.Fields{
		"function": function,
		"trace":    trace,
	}).Info("Call observed")
}

// LogReturn logs a single observed return event with its trace line
func (l *Logger) LogReturn(function string, trace string) {
	l.logger.WithFields(logrus.Fields{
		"function": function,
		"trace":    trace,
	}).Info("Return observed")
}

// LogAnnotation logs a completed declaration rewrite
func (l *Logger) LogAnnotation(function string, parameters map[string]string, returnType string) {
	l.logger.WithFields(logrus.Fields{
		"function":    function,
		"parameters":  parameters,
		"return_type": returnType,
		"timestamp":   time.Now(),
	}).Info("Declaration annotated")
}

// LogLookupFailure logs a recoverable annotation failure for one function
func (l *Logger) LogLookupFailure(function string, err error) {
	l.logger.WithFields(logrus.Fields{
		"function":  function,
		"error":     err.Error(),
		"timestamp": time.Now(),
	}).Warning("Lookup failed")
}

// LogStackCorruption logs a fatal call/return pairing violation
func (l *Logger) LogStackCorruption(expected string, returning string) {
	l.logger.WithFields(logrus.Fields{
		"expected":  expected,
		"returning": returning,
		"timestamp": time.Now(),
	}).Error("tracer stack corruption")
}

// Close stops the queue goroutine, waits for buffered entries to flush,
// and performs cleanup
func (l *Logger) Close() error {
	close(l.quit)
	<-l.done
	if l.fileHandle != nil {
		l.fileHandle.Close()
	}

	if err := l.cleanup(); err != nil {
		return fmt.Errorf("failed to cleanup log files: %w", err)
	}

	return nil
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// enqueue hands an entry to the queue goroutine. Non-blocking: when the
// queue is full, or nothing is draining it after Close, the entry is
// dropped instead of stalling the caller.
func (l *Logger) enqueue(level logrus.Level, msg string, fields map[string]interface{}) {
	select {
	case l.logQueue <- logEntry{level: level, msg: msg, fields: fields}:
	default:
	}
}

// Debug logs a debug message (async)
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.DebugLevel, msg, fields)
}

// Info logs an info message (async)
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.InfoLevel, msg, fields)
}

// Warning logs a warning message (async)
func (l *Logger) Warning(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.WarnLevel, msg, fields)
}

// Error logs an error message (async)
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.enqueue(logrus.ErrorLevel, msg, fields)
}

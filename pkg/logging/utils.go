/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Utility functions for log management in the Akaylee SpecMiner.
Provides log rotation, cleanup, and analysis of miner event lines (calls,
returns, sessions, annotations) from recorded log files.
*/

package logging

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogManager provides advanced log management capabilities
type LogManager struct {
	logDir   string
	maxFiles int
	maxSize  int64
	compress bool
}

// NewLogManager creates a new log manager
func NewLogManager(logDir string, maxFiles int, maxSize int64, compress bool) *LogManager {
	return &LogManager{
		logDir:   logDir,
		maxFiles: maxFiles,
		maxSize:  maxSize,
		compress: compress,
	}
}

// RotateLogs rotates log files when they exceed size limits
func (lm *LogManager) RotateLogs() error {
	files, err := filepath.Glob(filepath.Join(lm.logDir, "akaylee-specminer_*.log"))
	if err != nil {
		return fmt.Errorf("failed to glob log files: %w", err)
	}

	for _, file := range files {
		if err := lm.rotateFile(file); err != nil {
			return fmt.Errorf("failed to rotate file %s: %w", file, err)
		}
	}

	return nil
}

// rotateFile rotates a single log file
func (lm *LogManager) rotateFile(filepath string) error {
	stat, err := os.Stat(filepath)
	if err != nil {
		return err
	}

	if stat.Size() < lm.maxSize {
		return nil
	}

	// Create rotated filename
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	rotatedPath := fmt.Sprintf("%s.%s", filepath, timestamp)

	// Move current file to rotated name
	if err := os.Rename(filepath, rotatedPath); err != nil {
		return err
	}

	// Compress if enabled
	if lm.compress {
		if err := lm.compressFile(rotatedPath); err != nil {
			return err
		}
	}

	return nil
}

// compressFile compresses a log file using gzip
func (lm *LogManager) compressFile(filepath string) error {
	// Open source file
	source, err := os.Open(filepath)
	if err != nil {
		return err
	}
	defer source.Close()

	// Create compressed file
	compressedPath := filepath + ".gz"
	compressed, err := os.Create(compressedPath)
	if err != nil {
		return err
	}
	defer compressed.Close()

	// Create gzip writer
	gzipWriter := gzip.NewWriter(compressed)
	defer gzipWriter.Close()

	// Copy data
	if _, err := io.Copy(gzipWriter, source); err != nil {
		return err
	}

	// Remove original file
	return os.Remove(filepath)
}

// CleanupOldLogs removes old log files based on retention policy
func (lm *LogManager) CleanupOldLogs() error {
	files, err := filepath.Glob(filepath.Join(lm.logDir, "akaylee-specminer_*.log*"))
	if err != nil {
		return fmt.Errorf("failed to glob log files: %w", err)
	}

	if len(files) <= lm.maxFiles {
		return nil
	}

	// Sort files by modification time (oldest first)
	sort.Slice(files, func(i, j int) bool {
		statI, _ := os.Stat(files[i])
		statJ, _ := os.Stat(files[j])
		return statI.ModTime().Before(statJ.ModTime())
	})

	// Remove oldest files
	filesToRemove := len(files) - lm.maxFiles
	for i := 0; i < filesToRemove; i++ {
		if err := os.Remove(files[i]); err != nil {
			return fmt.Errorf("failed to remove file %s: %w", files[i], err)
		}
	}

	return nil
}

// LogAnalyzer provides log analysis capabilities
type LogAnalyzer struct {
	logDir string
}

// NewLogAnalyzer creates a new log analyzer
func NewLogAnalyzer(logDir string) *LogAnalyzer {
	return &LogAnalyzer{
		logDir: logDir,
	}
}

// AnalyzeLogs analyzes log files for patterns and statistics
func (la *LogAnalyzer) AnalyzeLogs() (*LogAnalysis, error) {
	files, err := filepath.Glob(filepath.Join(la.logDir, "akaylee-specminer_*.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob log files: %w", err)
	}

	analysis := &LogAnalysis{
		StartTime: time.Now(),
		LogFiles:  len(files),
	}

	for _, file := range files {
		if err := la.analyzeFile(file, analysis); err != nil {
			return nil, fmt.Errorf("failed to analyze file %s: %w", file, err)
		}
	}

	return analysis, nil
}

// analyzeFile analyzes a single log file
func (la *LogAnalyzer) analyzeFile(filepath string, analysis *LogAnalysis) error {
	file, err := os.Open(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	// Read file line by line
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		la.analyzeLine(line, analysis)
	}

	return scanner.Err()
}

// analyzeLine analyzes a single log line
func (la *LogAnalyzer) analyzeLine(line string, analysis *LogAnalysis) {
	analysis.TotalLines++

	// Count log levels
	if strings.Contains(line, "DEBUG") {
		analysis.DebugCount++
	} else if strings.Contains(line, "INFO") {
		analysis.InfoCount++
	} else if strings.Contains(line, "WARN") {
		analysis.WarningCount++
	} else if strings.Contains(line, "ERROR") {
		analysis.ErrorCount++
	} else if strings.Contains(line, "FATAL") {
		analysis.FatalCount++
	}

	// Count miner-specific events
	if strings.Contains(line, "Call observed") {
		analysis.CallCount++
	} else if strings.Contains(line, "Return observed") {
		analysis.ReturnCount++
	} else if strings.Contains(line, "Session started") {
		analysis.SessionCount++
	} else if strings.Contains(line, "Declaration annotated") {
		analysis.AnnotationCount++
	} else if strings.Contains(line, "Lookup failed") {
		analysis.LookupFailureCount++
	} else if strings.Contains(line, "stack corruption") {
		analysis.CorruptionCount++
	}
}

// LogAnalysis holds the results of log analysis
type LogAnalysis struct {
	StartTime          time.Time `json:"start_time"`
	LogFiles           int       `json:"log_files"`
	TotalLines         int64     `json:"total_lines"`
	DebugCount         int64     `json:"debug_count"`
	InfoCount          int64     `json:"info_count"`
	WarningCount       int64     `json:"warning_count"`
	ErrorCount         int64     `json:"error_count"`
	FatalCount         int64     `json:"fatal_count"`
	CallCount          int64     `json:"call_count"`
	ReturnCount        int64     `json:"return_count"`
	SessionCount       int64     `json:"session_count"`
	AnnotationCount    int64     `json:"annotation_count"`
	LookupFailureCount int64     `json:"lookup_failure_count"`
	CorruptionCount    int64     `json:"corruption_count"`
}

// GetLogSummary returns a summary of the log analysis
func (la *LogAnalysis) GetLogSummary() string {
	return fmt.Sprintf(
		"Log Analysis Summary:\n"+
			"  Files: %d\n"+
			"  Total Lines: %d\n"+
			"  Debug: %d\n"+
			"  Info: %d\n"+
			"  Warning: %d\n"+
			"  Error: %d\n"+
			"  Fatal: %d\n"+
			"  Calls: %d\n"+
			"  Returns: %d\n"+
			"  Sessions: %d\n"+
			"  Annotations: %d\n"+
			"  Lookup Failures: %d\n"+
			"  Corruptions: %d",
		la.LogFiles, la.TotalLines, la.DebugCount, la.InfoCount,
		la.WarningCount, la.ErrorCount, la.FatalCount, la.CallCount,
		la.ReturnCount, la.SessionCount, la.AnnotationCount,
		la.LookupFailureCount, la.CorruptionCount,
	)
}

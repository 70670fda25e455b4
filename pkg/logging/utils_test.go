/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils_test.go
Description: Tests for log management. Tests retention cleanup and analysis of
miner event lines from recorded log files.
*/

package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-specminer/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogManagerCleanup tests retention-based log cleanup
func TestLogManagerCleanup(t *testing.T) {
	logDir := t.TempDir()
	manager := logging.NewLogManager(logDir, 3, 1024, false)

	testFiles := []string{
		"akaylee-specminer_2026-01-01_10-00-00.log",
		"akaylee-specminer_2026-01-01_11-00-00.log",
		"akaylee-specminer_2026-01-01_12-00-00.log",
		"akaylee-specminer_2026-01-01_13-00-00.log",
	}

	for _, filename := range testFiles {
		path := filepath.Join(logDir, filename)
		file, err := os.Create(path)
		require.NoError(t, err)
		file.Close()
	}

	require.NoError(t, manager.CleanupOldLogs())

	files, err := filepath.Glob(filepath.Join(logDir, "akaylee-specminer_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

// TestLogAnalyzer tests analysis of miner event lines
func TestLogAnalyzer(t *testing.T) {
	logDir := t.TempDir()

	logFile := filepath.Join(logDir, "akaylee-specminer_2026-01-01_10-00-00.log")
	file, err := os.Create(logFile)
	require.NoError(t, err)

	testLogs := []string{
		"2026-01-01 10:00:01 INFO [SESSION] Session started session_id=abc123",
		"2026-01-01 10:00:02 DEBUG [CALL] Call observed function=MySqrt",
		"2026-01-01 10:00:03 DEBUG [RETURN] Return observed function=MySqrt",
		"2026-01-01 10:00:04 INFO [ANNOTATE] Declaration annotated function=MySqrt",
		"2026-01-01 10:00:05 WARN [LOOKUP] Lookup failed function=Missing",
		"2026-01-01 10:00:06 ERROR [CORRUPT] tracer stack corruption",
	}

	for _, line := range testLogs {
		file.WriteString(line + "\n")
	}
	file.Close()

	analyzer := logging.NewLogAnalyzer(logDir)
	analysis, err := analyzer.AnalyzeLogs()
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.LogFiles)
	assert.Equal(t, int64(6), analysis.TotalLines)
	assert.Equal(t, int64(2), analysis.DebugCount)
	assert.Equal(t, int64(2), analysis.InfoCount)
	assert.Equal(t, int64(1), analysis.WarningCount)
	assert.Equal(t, int64(1), analysis.ErrorCount)
	assert.Equal(t, int64(1), analysis.CallCount)
	assert.Equal(t, int64(1), analysis.ReturnCount)
	assert.Equal(t, int64(1), analysis.SessionCount)
	assert.Equal(t, int64(1), analysis.AnnotationCount)
	assert.Equal(t, int64(1), analysis.LookupFailureCount)
	assert.Equal(t, int64(1), analysis.CorruptionCount)

	summary := analysis.GetLogSummary()
	assert.Contains(t, summary, "Log Analysis Summary")
	assert.Contains(t, summary, "Files: 1")
	assert.Contains(t, summary, "Total Lines: 6")
}

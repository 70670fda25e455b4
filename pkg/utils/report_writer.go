/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_writer.go
Description: Utility for writing mining session reports. Handles timestamped,
session-scoped file naming under the reports directory. Ensures directories
exist and writes JSON files for easy analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteSessionReport writes a mining report to the reports directory, named
// by timestamp and session ID prefix
func WriteSessionReport(reportDir string, sessionID string, report interface{}) (string, error) {
	if reportDir == "" {
		reportDir = "reports"
	}
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	// Generate filename: 2024-06-11_01-30-00_3f2a1b9c.json
	shortID := sessionID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.json", timestamp, shortID)
	filePath := filepath.Join(reportDir, filename)

	// Marshal report to JSON
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return filePath, nil
}

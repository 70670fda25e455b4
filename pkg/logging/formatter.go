/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatters for the Akaylee SpecMiner. Provides beautiful,
structured logging output with colors, enhanced formatting, and miner-specific
event prefixes for call, return, session, and annotation lines.
*/

package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomFormatter provides beautiful, structured logging output
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format formats a log entry with beautiful output
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var output strings.Builder

	// Add timestamp
	if f.Timestamp {
		timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[36m%s\033[0m ", timestamp)) // Cyan
		} else {
			output.WriteString(fmt.Sprintf("%s ", timestamp))
		}
	}

	// Add log level with color
	level := strings.ToUpper(entry.Level.String())
	if f.Colors {
		levelColor := f.getLevelColor(entry.Level)
		output.WriteString(fmt.Sprintf("\033[%dm%s\033[0m ", levelColor, level))
	} else {
		output.WriteString(fmt.Sprintf("%s ", level))
	}

	// Add caller information
	if f.Caller && entry.HasCaller() {
		caller := fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[33m[%s]\033[0m ", caller)) // Yellow
		} else {
			output.WriteString(fmt.Sprintf("[%s] ", caller))
		}
	}

	// Add message
	output.WriteString(entry.Message)

	// Add structured fields
	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatFields(entry.Data))
	}

	output.WriteString("\n")
	return []byte(output.String()), nil
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel:
		return 37 // White
	case logrus.InfoLevel:
		return 32 // Green
	case logrus.WarnLevel:
		return 33 // Yellow
	case logrus.ErrorLevel:
		return 31 // Red
	case logrus.FatalLevel:
		return 35 // Magenta
	case logrus.PanicLevel:
		return 35 // Magenta
	default:
		return 37 // White
	}
}

// formatFields formats structured fields in a readable way
func (f *CustomFormatter) formatFields(fields logrus.Fields) string {
	var parts []string

	for key, value := range fields {
		formattedValue := f.formatValue(value)
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, formattedValue)) // Blue key, Green value
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, formattedValue))
		}
	}

	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func (f *CustomFormatter) formatValue(value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case string:
		if len(v) > 80 {
			return fmt.Sprintf("%s...", v[:80])
		}
		return v
	case map[string]string:
		pairs := make([]string, 0, len(v))
		for name, typ := range v {
			pairs = append(pairs, fmt.Sprintf("%s:%s", name, typ))
		}
		return "{" + strings.Join(pairs, " ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MinerFormatter provides specialized formatting for miner-specific logs
type MinerFormatter struct {
	CustomFormatter
}

// Format formats miner-specific log entries with enhanced information
func (f *MinerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var output strings.Builder

	// Add timestamp
	if f.Timestamp {
		timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[36m%s\033[0m ", timestamp))
		} else {
			output.WriteString(fmt.Sprintf("%s ", timestamp))
		}
	}

	// Add log level
	level := strings.ToUpper(entry.Level.String())
	if f.Colors {
		levelColor := f.getLevelColor(entry.Level)
		output.WriteString(fmt.Sprintf("\033[%dm%s\033[0m ", levelColor, level))
	} else {
		output.WriteString(fmt.Sprintf("%s ", level))
	}

	// Add miner-specific prefix based on message
	prefix := f.getMinerPrefix(entry.Message)
	if prefix != "" {
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[35m[%s]\033[0m ", prefix)) // Magenta
		} else {
			output.WriteString(fmt.Sprintf("[%s] ", prefix))
		}
	}

	// Add caller information
	if f.Caller && entry.HasCaller() {
		caller := fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[33m[%s]\033[0m ", caller))
		} else {
			output.WriteString(fmt.Sprintf("[%s] ", caller))
		}
	}

	// Add message
	output.WriteString(entry.Message)

	// Add structured fields with miner-specific formatting
	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatMinerFields(entry.Data))
	}

	output.WriteString("\n")
	return []byte(output.String()), nil
}

// getMinerPrefix returns a prefix based on the log message
func (f *MinerFormatter) getMinerPrefix(message string) string {
	switch {
	case strings.Contains(message, "Call observed"):
		return "CALL"
	case strings.Contains(message, "Return observed"):
		return "RETURN"
	case strings.Contains(message, "Session started"), strings.Contains(message, "Session ended"):
		return "SESSION"
	case strings.Contains(message, "Declaration annotated"):
		return "ANNOTATE"
	case strings.Contains(message, "Lookup failed"):
		return "LOOKUP"
	case strings.Contains(message, "stack corruption"):
		return "CORRUPT"
	default:
		return ""
	}
}

// formatMinerFields formats miner-specific fields with enhanced display
func (f *MinerFormatter) formatMinerFields(fields logrus.Fields) string {
	var parts []string

	for key, value := range fields {
		formattedValue := f.formatMinerValue(key, value)
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, formattedValue))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, formattedValue))
		}
	}

	return strings.Join(parts, " ")
}

// formatMinerValue formats miner-specific field values
func (f *MinerFormatter) formatMinerValue(key string, value interface{}) string {
	switch key {
	case "session_id":
		if s, ok := value.(string); ok {
			if len(s) > 8 {
				return s[:8] + "..."
			}
			return s
		}
	case "trace":
		// Trace lines are the product; never truncate them
		if s, ok := value.(string); ok {
			return s
		}
	case "records":
		if i, ok := value.(int); ok {
			return fmt.Sprintf("%d", i)
		}
	case "timestamp":
		if t, ok := value.(time.Time); ok {
			return t.Format("15:04:05.000")
		}
	}

	return f.formatValue(value)
}

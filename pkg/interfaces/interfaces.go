/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for the Akaylee SpecMiner. Defines the core data
types and collaborator contracts used across all packages to break import cycles
and enable proper modular design.
*/

package interfaces

import (
	"fmt"
	"go/ast"
)

// Binding represents a single named argument observed at call entry.
type Binding struct {
	Name  string
	Value interface{}
}

// CallRecord represents one observed invocation of a traced function.
// Immutable once appended to the call log. HasRet is false for functions
// that declare no results; Ret holds whatever value the return event
// supplied (nil during a panic unwind).
type CallRecord struct {
	Args   []Binding
	Ret    interface{}
	HasRet bool
}

// Observer receives call and return events from instrumented functions.
// Exactly one observer occupies the process-wide slot at a time; the
// Tracer implements this interface for the duration of a session.
type Observer interface {
	OnCall(name string, args []Binding)
	OnReturn(name string, value interface{}, present bool)
}

// Symbols resolves a function name to its declaration and source text.
// The registry is the standard implementation; alternative symbol tables
// (e.g. a loaded package index) can be plugged in for batch annotation.
type Symbols interface {
	Decl(name string) (*ast.FuncDecl, error)
	Source(name string) (string, error)
	Names() []string
}

// MinerConfig represents the configuration for a mining run
type MinerConfig struct {
	Functions  []string // Restrict annotation to these functions (empty = all observed)
	TraceCalls bool     // Emit one log line per call and per return
	OutputPath string   // Where to write annotated source ("" = stdout)
	LogLevel   string
	LogDir     string
	LogFormat  string
	JSONLogs   bool
}

// Validate checks the MinerConfig for invalid or missing values.
// Returns an error if the config is invalid, or nil if valid.
func (c *MinerConfig) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error", "fatal":
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "text", "json", "custom":
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}
	for _, name := range c.Functions {
		if name == "" {
			return fmt.Errorf("function names must not be empty")
		}
	}
	return nil
}

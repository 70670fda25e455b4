/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility commands for the Akaylee SpecMiner. Provides list-types and
self-check functionality for system validation.
*/

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kleascm/akaylee-specminer/pkg/logging"
	"github.com/kleascm/akaylee-specminer/pkg/miner"
	"github.com/kleascm/akaylee-specminer/pkg/registry"
	"github.com/kleascm/akaylee-specminer/pkg/tracer"
	"github.com/kleascm/akaylee-specminer/pkg/typing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunLogAnalysis summarizes recorded miner log files and optionally
// rotates and prunes them according to the configured retention policy.
func RunLogAnalysis(cmd *cobra.Command, args []string) error {
	fmt.Println("📊 Akaylee SpecMiner - Log Analysis")
	fmt.Println("===================================")
	fmt.Println()

	logDir := viper.GetString("log_dir")
	if logDir == "" {
		logDir = "./logs"
	}

	analyzer := logging.NewLogAnalyzer(logDir)
	analysis, err := analyzer.AnalyzeLogs()
	if err != nil {
		return fmt.Errorf("failed to analyze logs: %w", err)
	}
	fmt.Println(analysis.GetLogSummary())

	if viper.GetBool("cleanup_logs") {
		manager := logging.NewLogManager(
			logDir,
			viper.GetInt("log_max_files"),
			viper.GetInt64("log_max_size"),
			viper.GetBool("compress_logs"),
		)
		if err := manager.RotateLogs(); err != nil {
			return fmt.Errorf("failed to rotate logs: %w", err)
		}
		if err := manager.CleanupOldLogs(); err != nil {
			return fmt.Errorf("failed to clean up logs: %w", err)
		}
		fmt.Println()
		fmt.Println("🧹 Log rotation and cleanup complete")
	}

	return nil
}

// ListTypeTags lists the closed set of type tags the value typer produces
func ListTypeTags(cmd *cobra.Command, args []string) {
	fmt.Println("🏷️  Akaylee SpecMiner - Type Tags")
	fmt.Println("=================================")
	fmt.Println()

	tags := []struct {
		tag         string
		description string
		example     string
	}{
		{
			tag:         typing.TagInt,
			description: "All signed and unsigned integer kinds",
			example:     "25, uint8(255)",
		},
		{
			tag:         typing.TagFloat,
			description: "Floating-point values of either width",
			example:     "2.0, float32(1.5)",
		},
		{
			tag:         typing.TagComplex,
			description: "Complex values of either width",
			example:     "complex(1, 2)",
		},
		{
			tag:         typing.TagString,
			description: "String values",
			example:     `"akaylee"`,
		},
		{
			tag:         typing.TagBool,
			description: "Boolean values",
			example:     "true",
		},
		{
			tag:         typing.TagList,
			description: "Slices and arrays of any element type",
			example:     "[]int{1, 2, 3}",
		},
		{
			tag:         typing.TagMap,
			description: "Maps of any key and value type",
			example:     `map[string]int{"a": 1}`,
		},
		{
			tag:         typing.TagAny,
			description: "Everything else: nil, structs, pointers, channels, functions",
			example:     "nil, &T{}",
		},
	}

	for i, t := range tags {
		fmt.Printf("%d. %s\n", i+1, t.tag)
		fmt.Printf("   Description: %s\n", t.description)
		fmt.Printf("   Example: %s\n", t.example)
		fmt.Println()
	}

	fmt.Println("✨ Every tag parses as a Go type expression, so mined annotations")
	fmt.Println("   drop straight into a declaration.")
}

// PerformSelfCheck performs comprehensive system validation
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Akaylee SpecMiner - System Self-Check")
	fmt.Println("========================================")
	fmt.Println()

	checks := []struct {
		name     string
		function func() error
	}{
		{"Declaration Parsing", checkDeclarationParsing},
		{"Observer Slot", checkObserverSlot},
		{"Instrumentation Round Trip", checkInstrumentation},
		{"Log Directory Writability", checkLogDirectory},
	}

	passed := 0
	total := len(checks)

	for _, check := range checks {
		fmt.Printf("🔍 %s... ", check.name)
		if err := check.function(); err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
		} else {
			fmt.Println("✅ PASSED")
			passed++
		}
	}

	fmt.Println()
	fmt.Printf("📊 Results: %d/%d checks passed\n", passed, total)

	if passed == total {
		fmt.Println("✨ All checks passed! System is ready for mining.")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Please address the issues before mining.")
	return fmt.Errorf("%d/%d checks failed", total-passed, total)
}

// checkDeclarationParsing verifies source text parses into a usable declaration
func checkDeclarationParsing() error {
	r := registry.New()
	if err := r.Register("Probe", "func Probe(x any) any {\n\treturn x\n}", func(x interface{}) interface{} { return x }); err != nil {
		return err
	}
	if _, err := r.Decl("Probe"); err != nil {
		return err
	}
	return nil
}

// checkObserverSlot verifies no stale session occupies the slot
func checkObserverSlot() error {
	if tracer.Active() != nil {
		return fmt.Errorf("observer slot is occupied; a session may have leaked")
	}
	return nil
}

// checkInstrumentation runs a tiny traced session end to end
func checkInstrumentation() error {
	r := registry.New()
	if err := r.Register("Probe", "func Probe(x any) any {\n\treturn x\n}", func(x interface{}) interface{} { return x }); err != nil {
		return err
	}
	fn, err := r.Func("Probe")
	if err != nil {
		return err
	}
	probe := fn.(func(interface{}) interface{})

	m := miner.New(r, r.FileSet())
	log, err := m.WithSession(func() {
		probe(42)
	})
	if err != nil {
		return err
	}
	if log.Len() != 1 {
		return fmt.Errorf("expected 1 call record, got %d", log.Len())
	}
	return nil
}

// checkLogDirectory verifies the configured log directory is writable
func checkLogDirectory() error {
	logDir := viper.GetString("log_dir")
	if logDir == "" {
		logDir = "./logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	probe := filepath.Join(logDir, ".specminer-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0644); err != nil {
		return fmt.Errorf("log directory not writable: %w", err)
	}
	return os.Remove(probe)
}

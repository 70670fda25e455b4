/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: mine.go
Description: Mine command implementation for the Akaylee SpecMiner. Runs the demo
workload inside a traced session, infers type annotations for every observed
function, and emits the annotated declarations as source text with optional JSON
session reports.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-specminer/demo"
	"github.com/kleascm/akaylee-specminer/pkg/inference"
	"github.com/kleascm/akaylee-specminer/pkg/interfaces"
	"github.com/kleascm/akaylee-specminer/pkg/miner"
	"github.com/kleascm/akaylee-specminer/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SessionReport is the JSON shape of one mining run
type SessionReport struct {
	SessionID string                           `json:"session_id"`
	Calls     int                              `json:"calls"`
	Functions map[string]inference.TypeMapping `json:"functions"`
}

// RunMine traces the demo workload and emits annotated declarations
func RunMine(cmd *cobra.Command, args []string) error {
	fmt.Println("⛏️  Akaylee SpecMiner - Type Annotation Mining")
	fmt.Println("=============================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging for mining
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	config := &interfaces.MinerConfig{
		Functions:  viper.GetStringSlice("functions"),
		TraceCalls: viper.GetBool("trace_calls"),
		OutputPath: viper.GetString("output_path"),
		LogLevel:   viper.GetString("log_level"),
		LogDir:     viper.GetString("log_dir"),
		LogFormat:  viper.GetString("log_format"),
		JSONLogs:   viper.GetBool("json_logs"),
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid miner configuration: %w", err)
	}

	logger, err := BuildLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	// Build the demo targets
	targets, err := demo.Build()
	if err != nil {
		return fmt.Errorf("failed to build demo targets: %w", err)
	}

	m := miner.New(targets.Registry, targets.Registry.FileSet())
	m.SetLogger(logger)
	m.EnableTraceLines(config.TraceCalls)

	// Run the workload inside a traced session
	fmt.Println("🔬 Tracing demo workload...")
	log, err := m.WithSession(targets.Workload)
	if err != nil {
		return fmt.Errorf("failed to run traced session: %w", err)
	}
	fmt.Printf("📊 Observed %d calls across %d functions\n", log.Len(), len(log.Names()))
	fmt.Println()

	// Annotate the requested functions (all observed by default)
	names := config.Functions
	if len(names) == 0 {
		names = log.Names()
	}
	decls, annotateErr := m.AnnotateNames(log, names)
	if annotateErr != nil {
		fmt.Printf("⚠️  Some functions could not be annotated: %v\n", annotateErr)
		fmt.Println()
	}

	text, err := m.Render(log, decls)
	if err != nil {
		return fmt.Errorf("failed to render annotated declarations: %w", err)
	}

	// Emit annotated source
	if config.OutputPath != "" {
		if err := os.WriteFile(config.OutputPath, []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write annotated source: %w", err)
		}
		fmt.Printf("✨ Annotated source written to %s\n", config.OutputPath)
	} else {
		fmt.Println("✨ Annotated declarations:")
		fmt.Println()
		fmt.Print(text)
	}

	// Write session report if requested
	if viper.GetBool("report") {
		reportPath, err := utils.WriteSessionReport(
			viper.GetString("report_dir"),
			m.SessionID(),
			&SessionReport{
				SessionID: m.SessionID(),
				Calls:     log.Len(),
				Functions: inference.InferAll(log),
			},
		)
		if err != nil {
			return fmt.Errorf("failed to write session report: %w", err)
		}
		fmt.Println()
		fmt.Printf("📝 Session report written to %s\n", reportPath)
	}

	return annotateErr
}

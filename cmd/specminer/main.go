/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee SpecMiner. Provides
command-line options, configuration management, and beautiful user interface for
mining type annotations from observed executions with advanced logging capabilities.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-specminer/cmd/specminer/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64

	// Mining configuration
	functions  []string
	traceCalls bool
	outputPath string
	reportDir  string
	report     bool

	// Log maintenance
	cleanupLogs  bool
	compressLogs bool
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "akaylee-specminer",
		Short: "Akaylee SpecMiner - Mine type annotations from observed executions",
		Long: `Akaylee SpecMiner observes a program under trace, records every function call
and return, infers parameter and return types from the observed values, and
rewrites each function's declaration to carry the mined annotations. The
resulting signatures feed structure-aware fuzzing and test generation.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))

	// Add mine command
	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "Trace the demo targets and mine type annotations",
		Long: `Run the bundled demo workload inside a traced session, infer parameter and
return types for every observed function, and emit the annotated declarations
as source text. The demo covers recursion, higher-order calls, and calls with
heterogeneous argument types.`,
		RunE: commands.RunMine,
	}

	// Add mine command flags
	mineCmd.Flags().StringSliceVar(&functions, "func", []string{}, "Restrict annotation to these functions (default: all observed)")
	mineCmd.Flags().BoolVar(&traceCalls, "trace", false, "Log one line per observed call and return")
	mineCmd.Flags().StringVar(&outputPath, "output", "", "Write annotated source to this file (default: stdout)")
	mineCmd.Flags().BoolVar(&report, "report", false, "Write a JSON session report")
	mineCmd.Flags().StringVar(&reportDir, "report-dir", "./reports", "Directory for session reports")

	// Bind flags to viper
	viper.BindPFlag("functions", mineCmd.Flags().Lookup("func"))
	viper.BindPFlag("trace_calls", mineCmd.Flags().Lookup("trace"))
	viper.BindPFlag("output_path", mineCmd.Flags().Lookup("output"))
	viper.BindPFlag("report", mineCmd.Flags().Lookup("report"))
	viper.BindPFlag("report_dir", mineCmd.Flags().Lookup("report-dir"))

	rootCmd.AddCommand(mineCmd)

	// Add list-types command
	listTypesCmd := &cobra.Command{
		Use:   "list-types",
		Short: "List the type tags the miner can infer",
		Long: `List the closed set of type-name tags the value typer produces, with
descriptions of the runtime categories they cover.`,
		Run: func(cmd *cobra.Command, args []string) {
			commands.ListTypeTags(cmd, args)
		},
	}
	rootCmd.AddCommand(listTypesCmd)

	// Add logs command for log analysis and retention
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Analyze recorded miner logs",
		Long: `Summarize recorded log files by level and miner event (calls, returns,
sessions, annotations, lookup failures), with optional rotation and cleanup
according to the retention policy.`,
		RunE: commands.RunLogAnalysis,
	}
	logsCmd.Flags().BoolVar(&cleanupLogs, "cleanup", false, "Rotate and prune log files after analysis")
	logsCmd.Flags().BoolVar(&compressLogs, "compress", false, "Gzip rotated log files")
	viper.BindPFlag("cleanup_logs", logsCmd.Flags().Lookup("cleanup"))
	viper.BindPFlag("compress_logs", logsCmd.Flags().Lookup("compress"))
	rootCmd.AddCommand(logsCmd)

	// Add check command for built-in self-checks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Perform built-in self-checks for system validation",
		Long: `Perform system checks to validate declaration parsing, instrumentation,
observer slot state, and log writability. Very useful for CI/CD integration.`,
		RunE: commands.PerformSelfCheck,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee SpecMiner commands. Provides common
configuration loading, logging setup, and logger construction used across all
command implementations.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/akaylee-specminer/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("SPECMINER")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the global logging system
func SetupLogging() error {
	logLevel := viper.GetString("log_level")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return nil
}

// BuildLogger constructs the structured miner logger from configuration
func BuildLogger() (*logging.Logger, error) {
	format := logging.LogFormat(viper.GetString("log_format"))
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    format,
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  viper.GetInt("log_max_files"),
		MaxSize:   viper.GetInt64("log_max_size"),
		Timestamp: true,
		Caller:    false,
		Colors:    true,
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	return logging.NewLogger(config)
}

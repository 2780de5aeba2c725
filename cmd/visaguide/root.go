package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"visaguide/internal/config"
	"visaguide/internal/logging"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "visaguide",
	Short:         "Visa information API, chat gateway and tools",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $CONFIG_FILE or configs/config.toml)")
	rootCmd.Version = version
}

// loadConfig resolves configuration and builds the logger. The logger writes
// to stderr so stdout stays free for command output.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	if configPath != "" {
		if err := os.Setenv("CONFIG_FILE", configPath); err != nil {
			return nil, nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config failed: %w", err)
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Format), nil
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/whispernet/internal/config"
	"github.com/bryanwahyu/whispernet/internal/log"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "whispernet",
	Short: "WhisperNet code review worker and aggregator",
	Long: `WhisperNet reviews source code with small stateless workers.

A worker answers POST /analyse with the TODO/FIXME markers and long lines it
found. The aggregator fans a request out to many workers and can publish the
combined review to a GitLab repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML config file (default: $CONFIG_PATH, otherwise environment only)")
}

// loadConfig resolves the config file, loads it and sets up logging.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log.InitLogger(false)
	log.SetLevel(log.ParseLevel(cfg.Log.Level))
	if cfg.Log.File != "" {
		if err := log.AddFileOutput(cfg.Log.File); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/whispernet/internal/config"
)

const redacted = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long:  "Print the configuration after defaults, the config file and the environment are merged. Secrets are redacted.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(redact(*cfg)); err != nil {
		return err
	}
	return enc.Close()
}

func redact(cfg config.Config) config.Config {
	if cfg.Aggregator.GitLab.Token != "" {
		cfg.Aggregator.GitLab.Token = redacted
	}
	if cfg.AI.APIKey != "" {
		cfg.AI.APIKey = redacted
	}
	return cfg
}

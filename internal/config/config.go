package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultWorkerID      = "rust-worker-01"
	DefaultModel         = "static-checker-rust-1.0"
	DefaultLabel         = "Rust worker"
	DefaultMaxLineLength = 100
)

type Config struct {
	Server struct {
		Host         string `mapstructure:"host" yaml:"host"`
		Port         int    `mapstructure:"port" yaml:"port"`
		MaxBodyBytes int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	} `mapstructure:"server" yaml:"server"`

	Worker struct {
		ID            string `mapstructure:"id" yaml:"id"`
		Model         string `mapstructure:"model" yaml:"model"`
		Label         string `mapstructure:"label" yaml:"label"`
		MaxLineLength int    `mapstructure:"max_line_length" yaml:"max_line_length"`
		AlwaysCount   bool   `mapstructure:"always_count" yaml:"always_count"`
	} `mapstructure:"worker" yaml:"worker"`

	Aggregator struct {
		WorkerURLs     []string `mapstructure:"worker_urls" yaml:"worker_urls"`
		TimeoutSeconds int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		GitLab         struct {
			APIURL  string `mapstructure:"api_url" yaml:"api_url"`
			Token   string `mapstructure:"token" yaml:"token"`
			Project string `mapstructure:"project" yaml:"project"`
			Branch  string `mapstructure:"branch" yaml:"branch"`
			File    string `mapstructure:"file" yaml:"file"`
		} `mapstructure:"gitlab" yaml:"gitlab"`
	} `mapstructure:"aggregator" yaml:"aggregator"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		APIKey  string `mapstructure:"api_key" yaml:"api_key"`
		Model   string `mapstructure:"model" yaml:"model"`
	} `mapstructure:"ai" yaml:"ai"`

	Log struct {
		Level string `mapstructure:"level" yaml:"level"`
		File  string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"log" yaml:"log"`

	Metrics struct {
		ReportIntervalSeconds int `mapstructure:"report_interval_seconds" yaml:"report_interval_seconds"`
	} `mapstructure:"metrics" yaml:"metrics"`
}

// env variable names per config key; unprefixed so WORKER_ID and PORT work as-is
var envBindings = map[string]string{
	"server.host":                     "BIND_HOST",
	"server.port":                     "PORT",
	"worker.id":                       "WORKER_ID",
	"worker.model":                    "WORKER_MODEL",
	"worker.label":                    "WORKER_LABEL",
	"worker.max_line_length":          "MAX_LINE_LENGTH",
	"worker.always_count":             "ALWAYS_COUNT",
	"aggregator.worker_urls":          "WORKER_URLS",
	"aggregator.gitlab.api_url":       "GITLAB_API_URL",
	"aggregator.gitlab.token":         "GITLAB_TOKEN",
	"aggregator.gitlab.project":       "GITLAB_PROJECT",
	"aggregator.gitlab.branch":        "GITLAB_BRANCH",
	"aggregator.gitlab.file":          "GITLAB_FILE",
	"ai.enabled":                      "AI_ENABLED",
	"ai.api_key":                      "OPENAI_API_KEY",
	"ai.model":                        "AI_MODEL",
	"log.level":                       "LOG_LEVEL",
	"log.file":                        "LOG_FILE",
	"metrics.report_interval_seconds": "METRICS_REPORT_INTERVAL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("worker.id", DefaultWorkerID)
	v.SetDefault("worker.model", DefaultModel)
	v.SetDefault("worker.label", DefaultLabel)
	v.SetDefault("worker.max_line_length", DefaultMaxLineLength)
	v.SetDefault("worker.always_count", false)
	v.SetDefault("aggregator.worker_urls", []string{})
	v.SetDefault("aggregator.timeout_seconds", 30)
	v.SetDefault("aggregator.gitlab.api_url", "https://gitlab.com/api/v4")
	v.SetDefault("aggregator.gitlab.branch", "main")
	v.SetDefault("aggregator.gitlab.file", "ai_review/last_review.md")
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("metrics.report_interval_seconds", 0)
}

// Load builds the effective config: defaults <- YAML file (optional) <- environment.
// An empty path skips the file; a non-empty path that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.keepEmptyEnv()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// keepEmptyEnv applies WORKER_ID="" and WORKER_MODEL="", which viper treats as
// unset. An empty model drops the field from analysis results.
func (c *Config) keepEmptyEnv() {
	for env, dst := range map[string]*string{
		"WORKER_ID":    &c.Worker.ID,
		"WORKER_MODEL": &c.Worker.Model,
	} {
		if v, ok := os.LookupEnv(env); ok && v == "" {
			*dst = ""
		}
	}
}

func (c *Config) normalize() {
	urls := make([]string, 0, len(c.Aggregator.WorkerURLs))
	for _, u := range c.Aggregator.WorkerURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	c.Aggregator.WorkerURLs = urls
	c.Aggregator.GitLab.APIURL = strings.TrimRight(c.Aggregator.GitLab.APIURL, "/")
	c.Log.Level = strings.ToUpper(strings.TrimSpace(c.Log.Level))
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("invalid max body bytes: %d", c.Server.MaxBodyBytes))
	}
	if c.Worker.MaxLineLength < 0 {
		errs = append(errs, fmt.Errorf("invalid max line length: %d", c.Worker.MaxLineLength))
	}
	if c.Aggregator.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("invalid aggregator timeout: %d", c.Aggregator.TimeoutSeconds))
	}
	for _, u := range c.Aggregator.WorkerURLs {
		if err := ValidateURL(u); err != nil {
			errs = append(errs, fmt.Errorf("worker url %q: %w", u, err))
		}
	}
	if c.GitLabEnabled() {
		if err := ValidateURL(c.Aggregator.GitLab.APIURL); err != nil {
			errs = append(errs, fmt.Errorf("gitlab api url: %w", err))
		}
		if err := ValidateRepoPath(c.Aggregator.GitLab.File); err != nil {
			errs = append(errs, fmt.Errorf("gitlab file: %w", err))
		}
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		errs = append(errs, errors.New("ai enabled but OPENAI_API_KEY is empty"))
	}
	if err := ValidateLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Addr is the listen address, e.g. 0.0.0.0:8080.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// GitLabEnabled reports whether review summaries can be published.
func (c *Config) GitLabEnabled() bool {
	return c.Aggregator.GitLab.Token != "" && c.Aggregator.GitLab.Project != ""
}

// ResponseModel is the model name reported in analysis results.
func (c *Config) ResponseModel() string {
	if c.AI.Enabled {
		return c.AI.Model
	}
	return c.Worker.Model
}

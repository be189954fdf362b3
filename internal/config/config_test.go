package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv unsets every bound variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoadKeepsEmptyWorkerIdentity(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_ID", "")
	t.Setenv("WORKER_MODEL", "")
	t.Setenv("WORKER_LABEL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Worker.ID != "" {
		t.Errorf("Worker.ID = %q, want empty", cfg.Worker.ID)
	}
	if cfg.Worker.Model != "" || cfg.ResponseModel() != "" {
		t.Errorf("Worker.Model = %q, want empty", cfg.Worker.Model)
	}
	// other keys still fall back to their defaults
	if cfg.Worker.Label != DefaultLabel {
		t.Errorf("Worker.Label = %q, want %q", cfg.Worker.Label, DefaultLabel)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Worker.ID != DefaultWorkerID {
		t.Errorf("Worker.ID = %q, want %q", cfg.Worker.ID, DefaultWorkerID)
	}
	if cfg.Worker.Model != DefaultModel {
		t.Errorf("Worker.Model = %q, want %q", cfg.Worker.Model, DefaultModel)
	}
	if cfg.Worker.Label != DefaultLabel {
		t.Errorf("Worker.Label = %q, want %q", cfg.Worker.Label, DefaultLabel)
	}
	if cfg.Worker.MaxLineLength != 100 {
		t.Errorf("Worker.MaxLineLength = %d, want 100", cfg.Worker.MaxLineLength)
	}
	if cfg.Worker.AlwaysCount {
		t.Error("Worker.AlwaysCount should default to false")
	}
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:8080")
	}
	if cfg.Aggregator.TimeoutSeconds != 30 {
		t.Errorf("Aggregator.TimeoutSeconds = %d, want 30", cfg.Aggregator.TimeoutSeconds)
	}
	if len(cfg.Aggregator.WorkerURLs) != 0 {
		t.Errorf("Aggregator.WorkerURLs = %v, want empty", cfg.Aggregator.WorkerURLs)
	}
	if cfg.Aggregator.GitLab.Branch != "main" {
		t.Errorf("GitLab.Branch = %q, want %q", cfg.Aggregator.GitLab.Branch, "main")
	}
	if cfg.GitLabEnabled() {
		t.Error("GitLab should be disabled without token and project")
	}
	if cfg.ResponseModel() != DefaultModel {
		t.Errorf("ResponseModel() = %q, want %q", cfg.ResponseModel(), DefaultModel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_ID", "go-worker-07")
	t.Setenv("PORT", "9090")
	t.Setenv("WORKER_URLS", "http://worker-a:8080/analyse, http://worker-b:8080/analyse,")
	t.Setenv("ALWAYS_COUNT", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Worker.ID != "go-worker-07" {
		t.Errorf("Worker.ID = %q, want %q", cfg.Worker.ID, "go-worker-07")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	want := []string{"http://worker-a:8080/analyse", "http://worker-b:8080/analyse"}
	if strings.Join(cfg.Aggregator.WorkerURLs, "|") != strings.Join(want, "|") {
		t.Errorf("WorkerURLs = %v, want %v", cfg.Aggregator.WorkerURLs, want)
	}
	if !cfg.Worker.AlwaysCount {
		t.Error("AlwaysCount should be true from env")
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "DEBUG")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_ID", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7070
worker:
  id: from-file
  label: Go worker
  max_line_length: 0
aggregator:
  worker_urls:
    - http://localhost:8081/analyse
  gitlab:
    token: secret
    project: group/project
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Worker.ID != "from-env" {
		t.Errorf("Worker.ID = %q, want env to win over file", cfg.Worker.ID)
	}
	if cfg.Worker.Label != "Go worker" {
		t.Errorf("Worker.Label = %q, want %q", cfg.Worker.Label, "Go worker")
	}
	if cfg.Worker.MaxLineLength != 0 {
		t.Errorf("Worker.MaxLineLength = %d, want 0", cfg.Worker.MaxLineLength)
	}
	if len(cfg.Aggregator.WorkerURLs) != 1 {
		t.Errorf("WorkerURLs = %v, want 1 entry", cfg.Aggregator.WorkerURLs)
	}
	if !cfg.GitLabEnabled() {
		t.Error("GitLab should be enabled with token and project")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "70000")
	if _, err := Load(""); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, false},
		{"negative line length", func(c *Config) { c.Worker.MaxLineLength = -1 }, false},
		{"bad worker url", func(c *Config) { c.Aggregator.WorkerURLs = []string{"ftp://worker"} }, false},
		{"ai without key", func(c *Config) { c.AI.Enabled = true }, false},
		{"ai with key", func(c *Config) { c.AI.Enabled = true; c.AI.APIKey = "sk-test" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "LOUD" }, false},
		{"gitlab traversal", func(c *Config) {
			c.Aggregator.GitLab.Token = "t"
			c.Aggregator.GitLab.Project = "p"
			c.Aggregator.GitLab.File = "../escape.md"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestResponseModel(t *testing.T) {
	var c Config
	c.Worker.Model = DefaultModel
	c.AI.Model = "gpt-4o-mini"
	if got := c.ResponseModel(); got != DefaultModel {
		t.Errorf("ResponseModel() = %q, want %q", got, DefaultModel)
	}
	c.AI.Enabled = true
	if got := c.ResponseModel(); got != "gpt-4o-mini" {
		t.Errorf("ResponseModel() = %q, want %q", got, "gpt-4o-mini")
	}
}

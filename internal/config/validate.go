package config

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ValidateURL checks that a worker or API endpoint is an absolute http(s) URL.
// Private and loopback hosts are allowed: workers usually sit on an internal network.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (allowed: http, https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidateRepoPath validates a file path inside a repository.
func ValidateRepoPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("path must be relative to the repository root")
	}

	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("path traversal detected")
	}

	for _, d := range []string{"\n", "\r", "\x00"} {
		if strings.Contains(p, d) {
			return fmt.Errorf("invalid characters in path")
		}
	}
	return nil
}

// ValidateLogLevel accepts the levels understood by the logger.
func ValidateLogLevel(level string) error {
	switch level {
	case "", "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "FATAL", "PANIC":
		return nil
	}
	return fmt.Errorf("invalid log level: %s", level)
}

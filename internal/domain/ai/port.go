package ai

import "context"

// Client writes a free-text review of code, given the issues already found in it.
type Client interface {
	Review(ctx context.Context, code string, issues []string) (string, error)
}

package review

import "context"

// Analyzer port used by the transport layer.
type Analyzer interface {
	Analyse(ctx context.Context, req Request) (Result, error)
}

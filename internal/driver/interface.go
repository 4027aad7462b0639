package driver

import (
	"context"
)

// GraphDriver executes one Cypher statement per call. Each call runs in its
// own implicit transaction; there is no session state shared across calls.
type GraphDriver interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	Close(ctx context.Context) error
}

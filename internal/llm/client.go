package llm

import (
	"context"
)

// Request is one chat completion call. Temperature 0 requests
// deterministic sampling; MaxTokens 0 lets the provider default apply.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

type LLMClient interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

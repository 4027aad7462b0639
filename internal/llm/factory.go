package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexigraph/lexigraph/internal/config"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewClient builds the configured provider. The embedder is nil when the
// provider has no embedding endpoint; callers must tolerate that.
func NewClient(ctx context.Context, cfg config.LLMConfig, model string) (LLMClient, EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "groq":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = groqBaseURL
		}
		c := NewOpenAIClient(cfg.APIKey, model, cfg.EmbeddingModel, baseURL)
		// Groq has no embeddings endpoint.
		return c, nil, nil

	case "openai":
		c := NewOpenAIClient(cfg.APIKey, model, cfg.EmbeddingModel, cfg.BaseURL)
		return c, c, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, model, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil

	case "claude":
		c := NewClaudeClient(cfg.APIKey, model, cfg.BaseURL)
		return c, nil, nil

	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = strings.TrimRight(baseURL, "/") + "/v1"
		}
		// Ollama ignores the key but the client config requires one.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		c := NewOpenAIClient(apiKey, model, cfg.EmbeddingModel, baseURL)
		return c, c, nil

	default:
		return nil, nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

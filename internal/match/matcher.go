package match

import (
	"context"
	"math"
	"strings"

	"github.com/lexigraph/lexigraph/internal/llm"
)

// Matcher resolves a free-text entity reference to one of the identifying
// values already present in the graph. Returning ok=false means no candidate
// is close enough and the caller should skip the link rather than guess.
type Matcher interface {
	Match(ctx context.Context, value string, candidates []string) (matched string, ok bool, err error)
}

// Exact matches by case-sensitive equality on the stored key.
type Exact struct{}

func (Exact) Match(_ context.Context, value string, candidates []string) (string, bool, error) {
	for _, c := range candidates {
		if c == value {
			return c, true, nil
		}
	}
	return "", false, nil
}

// Substring matches by case-insensitive containment in either direction, so
// "Mike" resolves to "Mike Johnson" and vice versa. The first containment hit
// wins; overlapping names ("Lee" vs "Ashlee Kim") resolve to whichever
// candidate the store listed first.
type Substring struct{}

func (Substring) Match(_ context.Context, value string, candidates []string) (string, bool, error) {
	needle := strings.ToLower(strings.TrimSpace(value))
	if needle == "" {
		return "", false, nil
	}
	for _, c := range candidates {
		stored := strings.ToLower(strings.TrimSpace(c))
		if stored == "" {
			continue
		}
		if strings.Contains(stored, needle) || strings.Contains(needle, stored) {
			return c, true, nil
		}
	}
	return "", false, nil
}

// Embedding matches by cosine similarity of name embeddings, gated by
// Threshold (default 0.8).
type Embedding struct {
	Embedder  llm.EmbedderClient
	Threshold float64
}

func (e Embedding) Match(ctx context.Context, value string, candidates []string) (string, bool, error) {
	if len(candidates) == 0 {
		return "", false, nil
	}
	threshold := e.Threshold
	if threshold == 0 {
		threshold = 0.8
	}

	target, err := e.Embedder.Embed(ctx, value)
	if err != nil {
		return "", false, err
	}

	best := ""
	bestScore := -1.0
	for _, c := range candidates {
		vec, err := e.Embedder.Embed(ctx, c)
		if err != nil {
			return "", false, err
		}
		if score := cosine(target, vec); score > bestScore {
			best = c
			bestScore = score
		}
	}

	if bestScore < threshold {
		return "", false, nil
	}
	return best, true, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

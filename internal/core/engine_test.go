package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigraph/lexigraph/internal/config"
	"github.com/lexigraph/lexigraph/internal/llm"
)

type stubDriver struct {
	rowsFor map[string][]map[string]any
	queries []string
}

func (d *stubDriver) Run(_ context.Context, query string, _ map[string]any) ([]map[string]any, error) {
	d.queries = append(d.queries, query)
	for key, rows := range d.rowsFor {
		if strings.Contains(query, key) {
			return rows, nil
		}
	}
	return nil, nil
}

func (d *stubDriver) Close(context.Context) error { return nil }

type stubLLM struct {
	response string
	reqs     []llm.Request
}

func (s *stubLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	s.reqs = append(s.reqs, req)
	return s.response, nil
}

const extractionResponse = `{
	"meeting_title": "Standup",
	"people": [{"name": "Sarah Chen", "role": "PM"}],
	"topics": [],
	"decisions": [],
	"action_items": [],
	"commitments": []
}`

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.MaxExtractionTokens = 4000
	cfg.LLM.MaxQueryTokens = 2000
	return cfg
}

func TestProcessTranscript(t *testing.T) {
	d := &stubDriver{rowsFor: map[string][]map[string]any{
		"MATCH (n:Meeting)": {{"value": "Standup"}},
		"MATCH (n:Person)":  {{"value": "Sarah Chen"}},
		"MERGE (a)-[r:":     {{"rel": "ok"}},
	}}
	engine := NewEngine(d, &stubLLM{response: extractionResponse}, &stubLLM{}, nil, testConfig())

	extracted, stats, err := engine.ProcessTranscript(context.Background(), "Sarah: quick standup...")
	require.NoError(t, err)

	assert.Equal(t, "Standup", extracted.MeetingTitle)
	assert.Equal(t, 1, stats.Meetings)
	assert.Equal(t, 1, stats.People)
	assert.Equal(t, 1, stats.Relationships)

	var sawMerge bool
	for _, q := range d.queries {
		if strings.Contains(q, "MERGE (m:Meeting") {
			sawMerge = true
		}
	}
	assert.True(t, sawMerge)
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding endpoint down")
}

func TestProcessTranscriptIgnoresEmbedderByDefault(t *testing.T) {
	d := &stubDriver{rowsFor: map[string][]map[string]any{
		"MATCH (n:Meeting)": {{"value": "Standup"}},
		"MATCH (n:Person)":  {{"value": "Sarah Chen"}},
		"MERGE (a)-[r:":     {{"rel": "ok"}},
	}}
	engine := NewEngine(d, &stubLLM{response: extractionResponse}, &stubLLM{}, failingEmbedder{}, testConfig())

	// Default config means substring linking; the broken embedder must
	// never be consulted.
	_, stats, err := engine.ProcessTranscript(context.Background(), "Sarah: quick standup...")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Relationships)
}

func TestEngineEmbeddingMatcherOptIn(t *testing.T) {
	d := &stubDriver{rowsFor: map[string][]map[string]any{
		"MATCH (n:Meeting)": {{"value": "Standup"}},
		"MATCH (n:Person)":  {{"value": "Sarah Chen"}},
		"MERGE (a)-[r:":     {{"rel": "ok"}},
	}}
	cfg := testConfig()
	cfg.Matcher = "embedding"

	// Opted in, the embedder is on the resolution path and its failure
	// surfaces.
	engine := NewEngine(d, &stubLLM{response: extractionResponse}, &stubLLM{}, failingEmbedder{}, cfg)
	_, _, err := engine.ProcessTranscript(context.Background(), "Sarah: quick standup...")
	require.Error(t, err)
	assert.ErrorContains(t, err, "embedding endpoint down")

	// Opted in without an embedder falls back to substring.
	engine = NewEngine(d, &stubLLM{response: extractionResponse}, &stubLLM{}, nil, cfg)
	_, stats, err := engine.ProcessTranscript(context.Background(), "Sarah: quick standup...")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Relationships)
}

func TestProcessTranscriptExtractionFailure(t *testing.T) {
	engine := NewEngine(&stubDriver{}, &stubLLM{response: "not json"}, &stubLLM{}, nil, testConfig())
	engine.Extractor.SetRetryPolicy(2, time.Millisecond, 5*time.Millisecond)

	_, _, err := engine.ProcessTranscript(context.Background(), "transcript")
	require.Error(t, err)
}

func TestEnginePromptOverridesReachAgents(t *testing.T) {
	cfg := testConfig()
	cfg.Prompts.Query.AnswerSystem = "custom answer system"
	cfg.Prompts.Summary.Meeting = "custom meeting system"

	engine := NewEngine(&stubDriver{}, &stubLLM{}, &stubLLM{}, nil, cfg)
	assert.Equal(t, "custom answer system", engine.Agent.AnswerSystem)
	assert.Equal(t, "custom meeting system", engine.Summarizer.MeetingSystem)
	assert.NotEmpty(t, engine.Agent.CypherSystem)
}

func TestClearGraph(t *testing.T) {
	d := &stubDriver{}
	engine := NewEngine(d, &stubLLM{}, &stubLLM{}, nil, testConfig())

	require.NoError(t, engine.ClearGraph(context.Background()))
	require.Len(t, d.queries, 1)
	assert.Contains(t, d.queries[0], "DETACH DELETE")
}

package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexigraph/lexigraph/internal/config"
	"github.com/lexigraph/lexigraph/internal/core/analyzer"
	"github.com/lexigraph/lexigraph/internal/core/extraction"
	"github.com/lexigraph/lexigraph/internal/core/graphbuild"
	"github.com/lexigraph/lexigraph/internal/core/model"
	"github.com/lexigraph/lexigraph/internal/core/query"
	"github.com/lexigraph/lexigraph/internal/core/summary"
	"github.com/lexigraph/lexigraph/internal/driver"
	"github.com/lexigraph/lexigraph/internal/llm"
	"github.com/lexigraph/lexigraph/internal/logger"
	"github.com/lexigraph/lexigraph/internal/match"
)

// Engine owns the full pipeline: transcript ingestion into the graph plus
// the query, analysis and summary agents over it.
type Engine struct {
	Driver     driver.GraphDriver
	Store      *driver.Store
	Extractor  *extraction.Extractor
	Builder    *graphbuild.Builder
	Agent      *query.Agent
	Analyzer   *analyzer.Analyzer
	Summarizer *summary.Summarizer
}

// NewEngine wires the pipeline. Separate clients for extraction and query
// let the two steps run different models. Endpoint resolution defaults to
// substring matching; "exact" and "embedding" are explicit opt-ins via
// ENTITY_MATCHER, and embedding silently falls back to substring when the
// provider exposes no embedder.
func NewEngine(d driver.GraphDriver, extractionLLM, queryLLM llm.LLMClient, embedder llm.EmbedderClient, cfg *config.Config) *Engine {
	var matcher match.Matcher = match.Substring{}
	switch cfg.Matcher {
	case "exact":
		matcher = match.Exact{}
	case "embedding":
		if embedder != nil {
			matcher = match.Embedding{Embedder: embedder}
		}
	}
	store := driver.NewStore(d, matcher)

	prompts := cfg.Prompts
	return &Engine{
		Driver:     d,
		Store:      store,
		Extractor:  extraction.NewExtractor(extractionLLM, prompts.Extraction.System, cfg.LLM.MaxExtractionTokens),
		Builder:    graphbuild.NewBuilder(store),
		Agent:      query.NewAgent(queryLLM, d, prompts.Query.CypherSystem, prompts.Query.AnswerSystem, cfg.LLM.MaxQueryTokens),
		Analyzer:   analyzer.NewAnalyzer(d, queryLLM, prompts.Analysis.Conflicts),
		Summarizer: summary.NewSummarizer(d, queryLLM, prompts.Summary.Meeting, prompts.Summary.CrossMeeting),
	}
}

// ProcessTranscript extracts entities from the transcript and writes them to
// the graph, returning the extraction and what was written.
func (e *Engine) ProcessTranscript(ctx context.Context, transcript string) (*model.MeetingExtraction, *model.BuildStats, error) {
	extracted, err := e.Extractor.Extract(ctx, transcript)
	if err != nil {
		return nil, nil, err
	}

	stats, err := e.Builder.Build(ctx, extracted)
	if err != nil {
		return nil, nil, err
	}

	logger.Get().Info("transcript processed",
		zap.String("meeting", extracted.MeetingTitle),
		zap.Int("people", stats.People),
		zap.Int("relationships", stats.Relationships))
	return extracted, stats, nil
}

// ClearGraph removes every node and relationship.
func (e *Engine) ClearGraph(ctx context.Context) error {
	return e.Store.ClearAll(ctx)
}

// NodeCounts reports the node count per label.
func (e *Engine) NodeCounts(ctx context.Context) (map[string]int64, error) {
	return e.Store.NodeCounts(ctx)
}

// Close releases the graph connection.
func (e *Engine) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

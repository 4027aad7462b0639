package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/lexigraph/lexigraph/internal/core/common"
	"github.com/lexigraph/lexigraph/internal/core/model"
	"github.com/lexigraph/lexigraph/internal/errs"
	"github.com/lexigraph/lexigraph/internal/llm"
	"github.com/lexigraph/lexigraph/internal/logger"
)

// DefaultSystemPrompt instructs the model to extract rather than invent:
// ambiguous or absent information is omitted, not guessed.
const DefaultSystemPrompt = `You are an expert meeting analyst. Extract structured information from meeting transcripts.

Be thorough but precise:
- Extract ALL people mentioned by name
- Identify distinct topics discussed
- Capture decisions that were finalized
- Note action items with owners if mentioned
- Record commitments/promises people made

If information is unclear or not present, omit it rather than guessing.

Respond with a single JSON object of this shape:
{
  "meeting_title": "brief title summarizing the meeting",
  "meeting_date": "YYYY-MM-DD if mentioned, otherwise omit",
  "people": [{"name": "...", "role": "..."}],
  "topics": [{"name": "...", "description": "..."}],
  "decisions": [{"description": "...", "made_by": "...", "related_topic": "..."}],
  "action_items": [{"description": "...", "owner": "...", "deadline": "...", "priority": "..."}],
  "commitments": [{"description": "...", "made_by": "...", "to_whom": "..."}]
}
Return ONLY the JSON object.`

const userPromptTemplate = `Analyze this meeting transcript and extract all entities:

TRANSCRIPT:
%s

Extract the meeting title, date (if mentioned), and all people, topics, decisions, action items, and commitments.`

// Extractor runs the deterministic structured-extraction call. The whole
// generate-parse-validate sequence retries as one unit, so a malformed or
// incomplete response gets a fresh completion, not a fatal error.
type Extractor struct {
	LLM       llm.LLMClient
	System    string
	MaxTokens int

	retryAttempts uint64
	retryInitial  time.Duration
	retryMax      time.Duration
}

func NewExtractor(client llm.LLMClient, systemPrompt string, maxTokens int) *Extractor {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Extractor{
		LLM:           client,
		System:        systemPrompt,
		MaxTokens:     maxTokens,
		retryAttempts: 3,
		retryInitial:  2 * time.Second,
		retryMax:      10 * time.Second,
	}
}

// SetRetryPolicy overrides the default 3 attempts / 2s..10s backoff.
func (e *Extractor) SetRetryPolicy(attempts uint64, initial, max time.Duration) {
	e.retryAttempts = attempts
	e.retryInitial = initial
	e.retryMax = max
}

// Extract converts a transcript into a typed MeetingExtraction. Transport
// failures, unparseable output and a missing meeting title all consume a
// retry attempt; the last failure surfaces to the caller once the budget is
// spent.
func (e *Extractor) Extract(ctx context.Context, transcript string) (*model.MeetingExtraction, error) {
	var result model.MeetingExtraction
	op := func() error {
		response, err := e.LLM.Generate(ctx, llm.Request{
			System:      e.System,
			Prompt:      fmt.Sprintf(userPromptTemplate, transcript),
			Temperature: 0,
			MaxTokens:   e.MaxTokens,
		})
		if err != nil {
			return err
		}

		parsed, err := common.ParseJSON[model.MeetingExtraction](response)
		if err != nil {
			return fmt.Errorf("failed to parse extraction output: %w", err)
		}
		if parsed.MeetingTitle == "" {
			return fmt.Errorf("extraction returned no meeting title")
		}

		result = parsed
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.retryInitial
	b.MaxInterval = e.retryMax
	policy := backoff.WithContext(backoff.WithMaxRetries(b, e.retryAttempts-1), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return nil, errs.New(errs.KindExtraction, "entity extraction failed", err)
	}
	return &result, nil
}

// ExtractSafe swallows all errors and returns nil on failure, logging one
// diagnostic line.
func (e *Extractor) ExtractSafe(ctx context.Context, transcript string) *model.MeetingExtraction {
	result, err := e.Extract(ctx, transcript)
	if err != nil {
		logger.Get().Warn("extraction failed", zap.Error(err))
		return nil
	}
	return result
}

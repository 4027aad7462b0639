package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lexigraph/lexigraph/internal/core/common"
	"github.com/lexigraph/lexigraph/internal/core/model"
	"github.com/lexigraph/lexigraph/internal/driver"
	"github.com/lexigraph/lexigraph/internal/errs"
	"github.com/lexigraph/lexigraph/internal/llm"
	"github.com/lexigraph/lexigraph/internal/logger"
)

const answerUserTemplate = `Conversation History:
%s

Current Question: %s

Query Results:
%s

Answer:`

const answerTemperature = 0.5

// Agent answers natural language questions over the meeting graph. It is
// stateless across sessions: conversation memory lives in the History passed
// to each call, so one Agent serves every session concurrently.
type Agent struct {
	LLM          llm.LLMClient
	Driver       driver.GraphDriver
	CypherSystem string
	AnswerSystem string
	MaxTokens    int
}

// NewAgent wires the query pipeline. Empty prompt arguments fall back to the
// built-in defaults; the client is retry-wrapped.
func NewAgent(client llm.LLMClient, d driver.GraphDriver, cypherSystem, answerSystem string, maxTokens int) *Agent {
	if cypherSystem == "" {
		cypherSystem = DefaultCypherSystemPrompt
	}
	if answerSystem == "" {
		answerSystem = DefaultAnswerSystemPrompt
	}
	return &Agent{
		LLM:          llm.WithRetry(client),
		Driver:       d,
		CypherSystem: cypherSystem,
		AnswerSystem: answerSystem,
		MaxTokens:    maxTokens,
	}
}

// GenerateCypher translates the question into a Cypher query, deterministic
// and with the conversation window substituted into the system prompt.
func (a *Agent) GenerateCypher(ctx context.Context, history *History, question string) (string, error) {
	system := strings.Replace(a.CypherSystem, "{chat_history}", history.Format(), 1)

	response, err := a.LLM.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      fmt.Sprintf("Question: %s\nCypher:", question),
		Temperature: 0,
		MaxTokens:   a.MaxTokens,
	})
	if err != nil {
		return "", errs.New(errs.KindQuery, "cypher generation failed", err)
	}
	return common.StripCodeFences(response), nil
}

// Execute runs the generated Cypher. Execution failures do not abort the
// pipeline: they come back as a single error row so answer synthesis can
// explain the problem to the user.
func (a *Agent) Execute(ctx context.Context, cypher string) []map[string]any {
	rows, err := a.Driver.Run(ctx, cypher, nil)
	if err != nil {
		logger.Get().Warn("query execution failed",
			zap.String("cypher", cypher), zap.Error(err))
		return []map[string]any{{"error": err.Error()}}
	}
	return rows
}

// FormatResults renders rows as numbered "key: value" lines for the answer
// prompt. Nil values are skipped; keys are sorted for stable output.
func FormatResults(rows []map[string]any) string {
	if len(rows) == 0 {
		return "No results found."
	}
	if errVal, ok := rows[0]["error"]; ok {
		return fmt.Sprintf("Query error: %v", errVal)
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if row[k] != nil {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, row[k]))
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}

// Ask runs the full pipeline: generate Cypher, execute it, synthesize an
// answer over the formatted results, then append the turn to history. The
// history snapshot used for both prompts is taken before the append, so the
// current question never references itself.
func (a *Agent) Ask(ctx context.Context, history *History, question string) (*model.QueryResult, error) {
	cypher, err := a.GenerateCypher(ctx, history, question)
	if err != nil {
		return nil, err
	}

	rows := a.Execute(ctx, cypher)
	formatted := FormatResults(rows)

	answer, err := a.LLM.Generate(ctx, llm.Request{
		System:      a.AnswerSystem,
		Prompt:      fmt.Sprintf(answerUserTemplate, history.Format(), question, formatted),
		Temperature: answerTemperature,
		MaxTokens:   a.MaxTokens,
	})
	if err != nil {
		return nil, errs.New(errs.KindQuery, "answer synthesis failed", err)
	}
	answer = strings.TrimSpace(answer)

	history.Append(model.Turn{Question: question, Answer: answer, Cypher: cypher})

	return &model.QueryResult{
		Question:         question,
		Cypher:           cypher,
		Rows:             rows,
		FormattedResults: formatted,
		Answer:           answer,
	}, nil
}

// QuickAsk returns just the answer text.
func (a *Agent) QuickAsk(ctx context.Context, history *History, question string) (string, error) {
	result, err := a.Ask(ctx, history, question)
	if err != nil {
		return "", err
	}
	return result.Answer, nil
}

package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigraph/lexigraph/internal/llm"
)

// scriptedLLM replays one response per call and records every request.
type scriptedLLM struct {
	responses []string
	reqs      []llm.Request
}

func (s *scriptedLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	s.reqs = append(s.reqs, req)
	if len(s.reqs) > len(s.responses) {
		return "", errors.New("no scripted response left")
	}
	return s.responses[len(s.reqs)-1], nil
}

type stubDriver struct {
	rows    []map[string]any
	err     error
	queries []string
}

func (d *stubDriver) Run(_ context.Context, query string, _ map[string]any) ([]map[string]any, error) {
	d.queries = append(d.queries, query)
	if d.err != nil {
		return nil, d.err
	}
	return d.rows, nil
}

func (d *stubDriver) Close(context.Context) error { return nil }

func TestGenerateCypherStripsFencesAndStaysDeterministic(t *testing.T) {
	mock := &scriptedLLM{responses: []string{"```cypher\nMATCH (d:Decision) RETURN d.description as decision\n```"}}
	agent := NewAgent(mock, &stubDriver{}, "", "", 2000)

	cypher, err := agent.GenerateCypher(context.Background(), NewHistory(), "What decisions were made?")
	require.NoError(t, err)
	assert.Equal(t, "MATCH (d:Decision) RETURN d.description as decision", cypher)

	req := mock.reqs[0]
	assert.Equal(t, float32(0), req.Temperature)
	assert.Equal(t, 2000, req.MaxTokens)
	assert.Contains(t, req.System, "NEVER use curly brace property syntax")
	assert.Contains(t, req.System, "toLower(")
	assert.Contains(t, req.System, "No previous conversation.")
	assert.NotContains(t, req.System, "{chat_history}")
	assert.Equal(t, "Question: What decisions were made?\nCypher:", req.Prompt)
}

func TestExecuteTurnsFailureIntoErrorRow(t *testing.T) {
	agent := NewAgent(&scriptedLLM{}, &stubDriver{err: errors.New("Invalid input: syntax error")}, "", "", 0)

	rows := agent.Execute(context.Background(), "MATCH bogus")
	require.Len(t, rows, 1)
	assert.Equal(t, "Invalid input: syntax error", rows[0]["error"])
}

func TestFormatResults(t *testing.T) {
	assert.Equal(t, "No results found.", FormatResults(nil))

	assert.Equal(t, "Query error: boom",
		FormatResults([]map[string]any{{"error": "boom"}}))

	got := FormatResults([]map[string]any{
		{"decision": "Dark mode as default", "made_by": "Sarah Chen", "topic": nil},
		{"decision": "Ship Friday"},
	})
	assert.Equal(t, "1. decision: Dark mode as default, made_by: Sarah Chen\n2. decision: Ship Friday", got)
}

func TestAskPipeline(t *testing.T) {
	mock := &scriptedLLM{responses: []string{
		"MATCH (d:Decision) RETURN d.description as decision",
		"Two decisions were made:\n• Dark mode as default\n• Ship Friday",
	}}
	stub := &stubDriver{rows: []map[string]any{
		{"decision": "Dark mode as default"},
		{"decision": "Ship Friday"},
	}}
	agent := NewAgent(mock, stub, "", "", 2000)
	history := NewHistory()

	result, err := agent.Ask(context.Background(), history, "What decisions were made?")
	require.NoError(t, err)

	assert.Equal(t, "MATCH (d:Decision) RETURN d.description as decision", result.Cypher)
	assert.Len(t, result.Rows, 2)
	assert.Contains(t, result.FormattedResults, "1. decision: Dark mode as default")
	assert.Contains(t, result.Answer, "Two decisions")

	require.Len(t, mock.reqs, 2)
	answerReq := mock.reqs[1]
	assert.Equal(t, float32(0.5), answerReq.Temperature)
	assert.Contains(t, answerReq.Prompt, "Conversation History:\nNo previous conversation.")
	assert.Contains(t, answerReq.Prompt, "Current Question: What decisions were made?")
	assert.Contains(t, answerReq.Prompt, "1. decision: Dark mode as default")

	assert.Equal(t, 1, history.Len())
}

func TestAskFollowUpSeesPriorTurn(t *testing.T) {
	mock := &scriptedLLM{responses: []string{
		"MATCH (p:Person)-[:OWNS]->(a:ActionItem) WHERE toLower(p.name) CONTAINS toLower('mike') RETURN a.description as action_item",
		"Mike owns the API documentation task.",
		"MATCH (p:Person)-[:OWNS]->(a:ActionItem) WHERE toLower(p.name) CONTAINS toLower('mike') RETURN a.deadline as deadline",
		"His deadline is Friday.",
	}}
	agent := NewAgent(mock, &stubDriver{rows: []map[string]any{{"action_item": "Finish API documentation"}}}, "", "", 0)
	history := NewHistory()

	_, err := agent.Ask(context.Background(), history, "What does Mike own?")
	require.NoError(t, err)
	_, err = agent.Ask(context.Background(), history, "When is his deadline?")
	require.NoError(t, err)

	// Second cypher generation must carry the first turn as context.
	secondCypherReq := mock.reqs[2]
	assert.Contains(t, secondCypherReq.System, "Q1: What does Mike own?")
	assert.Contains(t, secondCypherReq.System, "Mike owns the API documentation task.")
	assert.Equal(t, 2, history.Len())
}

func TestAskSurvivesEmptyGraph(t *testing.T) {
	mock := &scriptedLLM{responses: []string{
		"MATCH (m:Meeting) RETURN m.title as meeting",
		"I couldn't find specific data for that query.",
	}}
	agent := NewAgent(mock, &stubDriver{}, "", "", 0)

	result, err := agent.Ask(context.Background(), NewHistory(), "What meetings exist?")
	require.NoError(t, err)
	assert.Equal(t, "No results found.", result.FormattedResults)
	assert.Contains(t, mock.reqs[1].Prompt, "No results found.")
}

func TestNewAgentAppliesPromptOverrides(t *testing.T) {
	agent := NewAgent(&scriptedLLM{}, &stubDriver{}, "custom cypher {chat_history}", "custom answer", 0)
	assert.Equal(t, "custom cypher {chat_history}", agent.CypherSystem)
	assert.Equal(t, "custom answer", agent.AnswerSystem)

	agent = NewAgent(&scriptedLLM{}, &stubDriver{}, "", "", 0)
	assert.True(t, strings.Contains(agent.CypherSystem, "{chat_history}"))
	assert.Equal(t, DefaultAnswerSystemPrompt, agent.AnswerSystem)
}

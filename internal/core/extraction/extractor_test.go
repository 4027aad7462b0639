package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExtractionJSON = `{
	"meeting_title": "Weekly Product Sync",
	"meeting_date": "2024-01-15",
	"people": [
		{"name": "Sarah Chen", "role": "PM"},
		{"name": "Mike Johnson", "role": "Engineering Lead"}
	],
	"topics": [
		{"name": "Dashboard Redesign", "description": "New UI for the dashboard"}
	],
	"decisions": [
		{"description": "Dark mode as default theme", "made_by": "Sarah Chen", "related_topic": "Dashboard Redesign"}
	],
	"action_items": [
		{"description": "Finish API documentation", "owner": "Mike Johnson", "deadline": "Friday", "priority": "high"}
	],
	"commitments": [
		{"description": "Deliver final designs by Wednesday", "made_by": "Lisa Park"}
	]
}`

func fastExtractor(mock *MockLLMClient) *Extractor {
	e := NewExtractor(mock, "", 4000)
	e.SetRetryPolicy(3, time.Millisecond, 5*time.Millisecond)
	return e
}

func TestExtract(t *testing.T) {
	mock := &MockLLMClient{Response: sampleExtractionJSON}
	extractor := NewExtractor(mock, "", 4000)

	result, err := extractor.Extract(context.Background(), "Sarah: let's sync on the dashboard...")
	require.NoError(t, err)

	assert.Equal(t, "Weekly Product Sync", result.MeetingTitle)
	assert.Equal(t, "2024-01-15", result.MeetingDate)
	require.Len(t, result.People, 2)
	assert.Equal(t, "Sarah Chen", result.People[0].Name)
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, "Friday", result.ActionItems[0].Deadline)
	assert.Equal(t, "Lisa Park", result.Commitments[0].MadeBy)

	assert.Equal(t, float32(0), mock.LastReq.Temperature, "extraction must be deterministic")
	assert.Equal(t, 4000, mock.LastReq.MaxTokens)
	assert.Contains(t, mock.LastReq.System, "omit it rather than guessing")
}

func TestExtractToleratesFencedResponse(t *testing.T) {
	mock := &MockLLMClient{Response: "```json\n" + sampleExtractionJSON + "\n```"}
	extractor := NewExtractor(mock, "", 0)

	result, err := extractor.Extract(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Product Sync", result.MeetingTitle)
}

func TestExtractRetriesTransientFailures(t *testing.T) {
	mock := &MockLLMClient{
		Response: sampleExtractionJSON,
		Err:      errors.New("rate limit"),
		Failures: 2,
	}
	extractor := fastExtractor(mock)

	result, err := extractor.Extract(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Product Sync", result.MeetingTitle)
	assert.Equal(t, 3, mock.Calls)
}

func TestExtractRetriesMalformedResponse(t *testing.T) {
	mock := &MockLLMClient{Responses: []string{
		"Sure! Here is a detailed analysis of the meeting, in prose.",
		sampleExtractionJSON,
	}}
	extractor := fastExtractor(mock)

	result, err := extractor.Extract(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Product Sync", result.MeetingTitle)
	assert.Equal(t, 2, mock.Calls, "the unparseable first reply must consume one retry, not fail the call")
}

func TestExtractRetriesMissingTitle(t *testing.T) {
	mock := &MockLLMClient{Responses: []string{
		`{"people": [{"name": "Mike"}]}`,
		sampleExtractionJSON,
	}}
	extractor := fastExtractor(mock)

	result, err := extractor.Extract(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Product Sync", result.MeetingTitle)
	assert.Equal(t, 2, mock.Calls)
}

func TestExtractSurfacesProviderErrorAfterExhaustion(t *testing.T) {
	providerErr := errors.New("provider unavailable")
	mock := &MockLLMClient{Err: providerErr, Failures: 10}
	extractor := fastExtractor(mock)

	_, err := extractor.Extract(context.Background(), "transcript")
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
	assert.Equal(t, 3, mock.Calls)
}

func TestExtractRejectsPersistentlyMissingTitle(t *testing.T) {
	mock := &MockLLMClient{Response: `{"people": [{"name": "Mike"}]}`}
	extractor := fastExtractor(mock)

	_, err := extractor.Extract(context.Background(), "transcript")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meeting title")
	assert.Equal(t, 3, mock.Calls)
}

func TestExtractSafeSwallowsErrors(t *testing.T) {
	mock := &MockLLMClient{Response: "not json at all"}
	extractor := fastExtractor(mock)

	assert.Nil(t, extractor.ExtractSafe(context.Background(), "transcript"))

	mock = &MockLLMClient{Response: sampleExtractionJSON}
	assert.NotNil(t, fastExtractor(mock).ExtractSafe(context.Background(), "transcript"))
}

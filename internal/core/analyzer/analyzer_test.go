package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigraph/lexigraph/internal/llm"
)

type stubDriver struct {
	rowsFor map[string][]map[string]any
	err     error
	params  []map[string]any
}

func (d *stubDriver) Run(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	d.params = append(d.params, params)
	if d.err != nil {
		return nil, d.err
	}
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
	lastReq  llm.Request
}

func (s *stubLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	s.lastReq = req
	return s.response, nil
}

func fixedNow() time.Time {
	// Monday 2024-01-15.
	return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
}

func TestDeadlineStatusBuckets(t *testing.T) {
	d := &stubDriver{rowsFor: map[string][]map[string]any{
		"MATCH (a:ActionItem)": {
			{"task": "Ship release notes", "deadline": "today", "status": "pending", "owner": "Sarah Chen"},
			{"task": "Finish API documentation", "deadline": "Friday", "status": "pending", "owner": "Mike Johnson"},
			{"task": "Refactor billing", "deadline": nil, "status": "pending"},
			{"task": "Mystery task", "deadline": "someday", "status": "pending"},
		},
	}}
	a := NewAnalyzer(d, &stubLLM{}, "")
	a.Now = fixedNow

	report, err := a.DeadlineStatus(context.Background())
	require.NoError(t, err)

	require.Len(t, report.DueSoon, 1)
	assert.Equal(t, "Ship release notes", report.DueSoon[0].Task)

	require.Len(t, report.Upcoming, 2)
	assert.Equal(t, "Finish API documentation", report.Upcoming[0].Task)
	assert.Equal(t, "Mystery task", report.Upcoming[1].Task)

	require.Len(t, report.NoDeadline, 1)
	assert.Equal(t, "Refactor billing", report.NoDeadline[0].Task)
	assert.Equal(t, "pending", report.NoDeadline[0].Status)

	assert.Empty(t, report.Overdue)
}

func TestDetectConflictsEmptyGraph(t *testing.T) {
	a := NewAnalyzer(&stubDriver{}, &stubLLM{}, "")

	got, err := a.DetectConflicts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No decisions found in the knowledge graph.", got)
}

func TestDetectConflictsFormatsDecisionsForLLM(t *testing.T) {
	d := &stubDriver{rowsFor: map[string][]map[string]any{
		"MATCH (d:Decision)": {
			{"decision": "Dark mode as default", "made_by": "Sarah Chen", "meeting": "Design Review", "topic": "Dashboard"},
			{"decision": "Light mode as default", "made_by": "Mike Johnson"},
		},
	}}
	mock := &stubLLM{response: "HIGH: decisions 1 and 2 contradict each other."}
	a := NewAnalyzer(d, mock, "")

	got, err := a.DetectConflicts(context.Background())
	require.NoError(t, err)
	assert.Contains(t, got, "contradict")

	assert.Equal(t, float32(0.3), mock.lastReq.Temperature)
	assert.Contains(t, mock.lastReq.Prompt, `1. "Dark mode as default" (by Sarah Chen) [Meeting: Design Review] [Topic: Dashboard]`)
	assert.Contains(t, mock.lastReq.Prompt, `2. "Light mode as default" (by Mike Johnson)`)
	assert.Contains(t, mock.lastReq.System, "No conflicts detected")
}

func TestCompareMeetings(t *testing.T) {
	d := &stubDriver{rowsFor: map[string][]map[string]any{
		"MATCH (m1:Meeting), (m2:Meeting)": {{
			"meeting1_title":     "Sprint Planning",
			"meeting2_title":     "Architecture Review",
			"meeting1_topics":    []any{"Dashboard", "Auth"},
			"meeting2_topics":    []any{"Auth", "Scaling"},
			"meeting1_decisions": []any{"Ship Friday"},
			"meeting2_decisions": []any{"Adopt gRPC"},
		}},
	}}
	a := NewAnalyzer(d, &stubLLM{}, "")

	cmp, err := a.CompareMeetings(context.Background(), "sprint", "architecture")
	require.NoError(t, err)

	assert.Equal(t, "Sprint Planning", cmp.Meeting1)
	assert.Equal(t, []string{"Auth"}, cmp.CommonTopics)
	assert.Equal(t, []string{"Dashboard"}, cmp.UniqueToMeeting1)
	assert.Equal(t, []string{"Scaling"}, cmp.UniqueToMeeting2)
	assert.Equal(t, []string{"Ship Friday"}, cmp.Meeting1Decisions)

	require.NotEmpty(t, d.params)
	assert.Equal(t, "sprint", d.params[0]["meeting1"])
}

func TestCompareMeetingsNotFound(t *testing.T) {
	a := NewAnalyzer(&stubDriver{}, &stubLLM{}, "")

	_, err := a.CompareMeetings(context.Background(), "ghost", "phantom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meetings not found")
}

func TestDeadlineStatusDriverError(t *testing.T) {
	a := NewAnalyzer(&stubDriver{err: errors.New("connection refused")}, &stubLLM{}, "")

	_, err := a.DeadlineStatus(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load action items")
}

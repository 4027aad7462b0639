package extraction

import (
	"context"

	"github.com/lexigraph/lexigraph/internal/llm"
)

// MockLLMClient replays canned responses: Responses scripts one reply per
// call (the last entry repeats), Response is the single-reply shorthand, and
// the first Failures calls return Err instead.
type MockLLMClient struct {
	Response  string
	Responses []string
	Err       error
	Failures  int
	Calls     int
	LastReq   llm.Request
}

func (m *MockLLMClient) Generate(_ context.Context, req llm.Request) (string, error) {
	m.Calls++
	m.LastReq = req
	if m.Err != nil && (m.Failures == 0 || m.Calls <= m.Failures) {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		i := m.Calls - 1
		if i >= len(m.Responses) {
			i = len(m.Responses) - 1
		}
		return m.Responses[i], nil
	}
	return m.Response, nil
}

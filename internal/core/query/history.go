package query

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lexigraph/lexigraph/internal/core/model"
)

// historyWindow is how many recent turns appear in prompts. Older turns stay
// in memory but are not sent to the model.
const historyWindow = 5

// answerTruncateRunes caps how much of each past answer appears in the
// formatted history.
const answerTruncateRunes = 200

// History holds the turns of one conversation session. Safe for concurrent
// use.
type History struct {
	mu    sync.Mutex
	turns []model.Turn
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(turn model.Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turn)
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Format renders the last turns for prompt injection. Answers are truncated
// so a verbose reply cannot crowd out the question that follows it.
func (h *History) Format() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.turns) == 0 {
		return "No previous conversation."
	}

	window := h.turns
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	var b strings.Builder
	for i, turn := range window {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, turn.Question)
		fmt.Fprintf(&b, "A%d: %s...\n", i+1, truncateRunes(turn.Answer, answerTruncateRunes))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

package errs

import (
	"fmt"
	"strings"
	"time"
)

// Kind categorizes a failure for propagation policy decisions.
type Kind string

const (
	// KindConnection covers an unreachable or unauthenticated store/provider.
	KindConnection Kind = "connection"
	// KindConfig covers a missing or invalid configuration value. Fatal at startup.
	KindConfig Kind = "config"
	// KindExtraction covers a structured-output LLM call that exhausted its retries.
	KindExtraction Kind = "extraction"
	// KindQuery covers a generated Cypher query that failed at execution.
	KindQuery Kind = "query"
	// KindGraph covers other graph store operation failures.
	KindGraph Kind = "graph"
)

// Error is the base error type carrying a Kind and an optional wrapped cause.
type Error struct {
	Kind      Kind
	Message   string
	Timestamp time.Time
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kinded error wrapping err (err may be nil).
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Fixed user-facing messages keyed by failure pattern.
const (
	MsgAPIKey        = "LLM API key not configured. Add LLM_API_KEY to your .env file."
	MsgNeo4jDown     = "Cannot connect to Neo4j. Make sure the database is running."
	MsgNeo4jAuth     = "Neo4j authentication failed. Check NEO4J_USERNAME and NEO4J_PASSWORD in .env."
	MsgRateLimit     = "API rate limit exceeded. Please wait a moment and try again."
	MsgTokenLimit    = "Transcript is too long. Try with a shorter meeting transcript."
	MsgInvalidCypher = "Could not generate a valid query for your question. Try rephrasing."
	MsgEmptyGraph    = "No data in the knowledge graph. Process some meeting transcripts first."
	MsgNetwork       = "Network error. Check your internet connection."
)

// FriendlyMessage maps a raw provider/store error to one of a fixed set of
// user-facing messages by substring. Unmatched errors fall back to the raw text.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	s := strings.ToLower(err.Error())

	switch {
	case strings.Contains(s, "api_key") || strings.Contains(s, "api key"):
		return MsgAPIKey
	case strings.Contains(s, "connection refused") || strings.Contains(s, "failed to establish"):
		return MsgNeo4jDown
	case strings.Contains(s, "authentication") || strings.Contains(s, "unauthorized"):
		return MsgNeo4jAuth
	case strings.Contains(s, "rate limit") || strings.Contains(s, "429"):
		return MsgRateLimit
	case strings.Contains(s, "token") && (strings.Contains(s, "limit") || strings.Contains(s, "exceed")):
		return MsgTokenLimit
	case strings.Contains(s, "syntaxerror") || strings.Contains(s, "syntax error") || strings.Contains(s, "cypher"):
		return MsgInvalidCypher
	case strings.Contains(s, "no data") || strings.Contains(s, "empty"):
		return MsgEmptyGraph
	case strings.Contains(s, "network") || strings.Contains(s, "timeout"):
		return MsgNetwork
	}

	return fmt.Sprintf("An error occurred: %v", err)
}

package model

import "fmt"

// Person is a participant or someone mentioned in the meeting.
type Person struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Topic is a subject discussed in the meeting.
type Topic struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Decision is something finalized during the meeting.
type Decision struct {
	Description  string `json:"description"`
	MadeBy       string `json:"made_by,omitempty"`
	RelatedTopic string `json:"related_topic,omitempty"`
}

// ActionItem is a task assigned during the meeting. Deadline is free text
// as spoken ("Friday", "EOD"); classification happens in the analyzer.
type ActionItem struct {
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// Commitment is a promise made by someone during the meeting.
type Commitment struct {
	Description string `json:"description"`
	MadeBy      string `json:"made_by"`
	ToWhom      string `json:"to_whom,omitempty"`
}

// MeetingExtraction is the complete structured output for one transcript.
type MeetingExtraction struct {
	MeetingTitle string `json:"meeting_title"`
	MeetingDate  string `json:"meeting_date,omitempty"`

	People      []Person     `json:"people"`
	Topics      []Topic      `json:"topics"`
	Decisions   []Decision   `json:"decisions"`
	ActionItems []ActionItem `json:"action_items"`
	Commitments []Commitment `json:"commitments"`
}

// Summary renders a quick one-block overview of the extraction.
func (m *MeetingExtraction) Summary() string {
	return fmt.Sprintf(
		"Meeting: %s\n  - %d people\n  - %d topics\n  - %d decisions\n  - %d action items\n  - %d commitments",
		m.MeetingTitle, len(m.People), len(m.Topics), len(m.Decisions), len(m.ActionItems), len(m.Commitments),
	)
}

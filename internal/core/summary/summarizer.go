package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lexigraph/lexigraph/internal/driver"
	"github.com/lexigraph/lexigraph/internal/errs"
	"github.com/lexigraph/lexigraph/internal/llm"
)

// DefaultMeetingSystemPrompt drives the single-meeting executive summary.
const DefaultMeetingSystemPrompt = `You are an expert at creating concise, professional meeting summaries.
Given meeting data from a knowledge graph, create an executive summary with:

1. **Meeting Overview** - Title, date, attendees
2. **Key Topics Discussed** - Main subjects covered
3. **Decisions Made** - Important decisions with who made them
4. **Action Items** - Tasks with owners and deadlines
5. **Commitments** - Promises made by team members

Format with markdown. Be concise but comprehensive.
Use bullet points for lists. Include all relevant details.`

// DefaultCrossMeetingSystemPrompt drives the all-meetings overview.
const DefaultCrossMeetingSystemPrompt = `You are an expert at creating executive summaries across multiple meetings.
Given data from several meetings, create a comprehensive overview with:

1. **Meetings Covered** - List of meetings analyzed
2. **Recurring Topics** - Themes that appear across meetings
3. **All Outstanding Action Items** - Pending tasks by owner
4. **Key Decisions** - Important decisions made across meetings
5. **Unfulfilled Commitments** - Promises that may need follow-up
6. **Recommendations** - Suggested next steps

Format with markdown. Be strategic and actionable.`

const summaryTemperature = 0.5
const summaryMaxTokens = 1500

const meetingDataQuery = `
	MATCH (m:Meeting)
	WHERE toLower(m.title) CONTAINS toLower($title)
	OPTIONAL MATCH (p:Person)-[:ATTENDED]->(m)
	OPTIONAL MATCH (m)-[:DISCUSSED]->(t:Topic)
	OPTIONAL MATCH (m)-[:CONTAINS]->(d:Decision)
	OPTIONAL MATCH (m)-[:CONTAINS]->(a:ActionItem)
	OPTIONAL MATCH (owner:Person)-[:OWNS]->(a)
	OPTIONAL MATCH (maker:Person)-[:MADE]->(d)
	OPTIONAL MATCH (committer:Person)-[:COMMITTED]->(c:Commitment)

	WITH m,
	     collect(DISTINCT {name: p.name, role: p.role}) as attendees,
	     collect(DISTINCT {name: t.name, description: t.description}) as topics,
	     collect(DISTINCT {description: d.description, made_by: maker.name}) as decisions,
	     collect(DISTINCT {description: a.description, owner: owner.name, deadline: a.deadline, priority: a.priority}) as actions,
	     collect(DISTINCT {description: c.description, made_by: committer.name}) as commitments

	RETURN m.title as title,
	       m.date as date,
	       attendees,
	       topics,
	       decisions,
	       actions,
	       commitments
	LIMIT 1
`

const allMeetingsQuery = `
	MATCH (m:Meeting)
	OPTIONAL MATCH (p:Person)-[:ATTENDED]->(m)
	OPTIONAL MATCH (m)-[:DISCUSSED]->(t:Topic)
	OPTIONAL MATCH (m)-[:CONTAINS]->(d:Decision)
	OPTIONAL MATCH (m)-[:CONTAINS]->(a:ActionItem)
	OPTIONAL MATCH (owner:Person)-[:OWNS]->(a)

	WITH m,
	     collect(DISTINCT p.name) as attendees,
	     collect(DISTINCT t.name) as topics,
	     collect(DISTINCT d.description) as decisions,
	     collect(DISTINCT {task: a.description, owner: owner.name, deadline: a.deadline, status: a.status}) as actions

	RETURN m.title as meeting,
	       m.date as date,
	       attendees,
	       topics,
	       decisions,
	       actions
	ORDER BY m.date
`

const allCommitmentsQuery = `
	MATCH (p:Person)-[:COMMITTED]->(c:Commitment)
	RETURN p.name as person, c.description as commitment
`

// Summarizer generates executive summaries from graph data.
type Summarizer struct {
	Driver        driver.GraphDriver
	LLM           llm.LLMClient
	MeetingSystem string
	CrossSystem   string
}

func NewSummarizer(d driver.GraphDriver, client llm.LLMClient, meetingSystem, crossSystem string) *Summarizer {
	if meetingSystem == "" {
		meetingSystem = DefaultMeetingSystemPrompt
	}
	if crossSystem == "" {
		crossSystem = DefaultCrossMeetingSystemPrompt
	}
	return &Summarizer{
		Driver:        d,
		LLM:           llm.WithRetry(client),
		MeetingSystem: meetingSystem,
		CrossSystem:   crossSystem,
	}
}

// MeetingSummary summarizes one meeting resolved by fuzzy title match. A
// title with no matching meeting returns a plain not-found message, not an
// error.
func (s *Summarizer) MeetingSummary(ctx context.Context, title string) (string, error) {
	rows, err := s.Driver.Run(ctx, meetingDataQuery, map[string]any{"title": title})
	if err != nil {
		return "", errs.New(errs.KindGraph, "failed to load meeting data", err)
	}
	if len(rows) == 0 {
		return fmt.Sprintf("No meeting found matching '%s'", title), nil
	}

	summary, err := s.LLM.Generate(ctx, llm.Request{
		System:      s.MeetingSystem,
		Prompt:      "Create an executive summary for this meeting:\n\n" + formatMeetingData(rows[0]),
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", errs.New(errs.KindQuery, "summary generation failed", err)
	}
	return strings.TrimSpace(summary), nil
}

// CrossMeetingSummary summarizes every meeting in the graph.
func (s *Summarizer) CrossMeetingSummary(ctx context.Context) (string, error) {
	meetings, err := s.Driver.Run(ctx, allMeetingsQuery, nil)
	if err != nil {
		return "", errs.New(errs.KindGraph, "failed to load meetings", err)
	}
	if len(meetings) == 0 {
		return "No meetings found in the knowledge graph.", nil
	}

	commitments, err := s.Driver.Run(ctx, allCommitmentsQuery, nil)
	if err != nil {
		return "", errs.New(errs.KindGraph, "failed to load commitments", err)
	}

	summary, err := s.LLM.Generate(ctx, llm.Request{
		System:      s.CrossSystem,
		Prompt:      "Create a cross-meeting summary from this data:\n\n" + formatCrossMeetingData(meetings, commitments),
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", errs.New(errs.KindQuery, "summary generation failed", err)
	}
	return strings.TrimSpace(summary), nil
}

func formatMeetingData(meeting map[string]any) string {
	var lines []string

	lines = append(lines, "MEETING: "+stringOr(meeting["title"], "Unknown"))
	if date := str(meeting["date"]); date != "" {
		lines = append(lines, "DATE: "+date)
	}

	var attendees []string
	for _, a := range maps(meeting["attendees"]) {
		if name := str(a["name"]); name != "" {
			attendees = append(attendees, name)
		}
	}
	if len(attendees) > 0 {
		lines = append(lines, "\nATTENDEES: "+strings.Join(attendees, ", "))
	}

	if topics := maps(meeting["topics"]); hasEntries(topics, "name") {
		lines = append(lines, "\nTOPICS DISCUSSED:")
		for _, t := range topics {
			if name := str(t["name"]); name != "" {
				entry := "  - " + name
				if desc := str(t["description"]); desc != "" {
					entry += " - " + desc
				}
				lines = append(lines, entry)
			}
		}
	}

	if decisions := maps(meeting["decisions"]); hasEntries(decisions, "description") {
		lines = append(lines, "\nDECISIONS MADE:")
		for _, d := range decisions {
			if desc := str(d["description"]); desc != "" {
				entry := "  - " + desc
				if by := str(d["made_by"]); by != "" {
					entry += fmt.Sprintf(" (by %s)", by)
				}
				lines = append(lines, entry)
			}
		}
	}

	if actions := maps(meeting["actions"]); hasEntries(actions, "description") {
		lines = append(lines, "\nACTION ITEMS:")
		for _, a := range actions {
			if desc := str(a["description"]); desc != "" {
				entry := "  - " + desc
				if owner := str(a["owner"]); owner != "" {
					entry += fmt.Sprintf(" [%s]", owner)
				}
				if deadline := str(a["deadline"]); deadline != "" {
					entry += " Due: " + deadline
				}
				lines = append(lines, entry)
			}
		}
	}

	if commitments := maps(meeting["commitments"]); hasEntries(commitments, "description") {
		lines = append(lines, "\nCOMMITMENTS:")
		for _, c := range commitments {
			if desc := str(c["description"]); desc != "" {
				entry := "  - " + desc
				if by := str(c["made_by"]); by != "" {
					entry += fmt.Sprintf(" [%s]", by)
				}
				lines = append(lines, entry)
			}
		}
	}

	return strings.Join(lines, "\n")
}

func formatCrossMeetingData(meetings, commitments []map[string]any) string {
	var lines []string
	lines = append(lines, "=== MEETINGS OVERVIEW ===\n")

	topicSet := make(map[string]struct{})
	var allActions []map[string]any

	for _, m := range meetings {
		lines = append(lines, "MEETING: "+stringOr(m["meeting"], "Unknown"))
		if date := str(m["date"]); date != "" {
			lines = append(lines, "Date: "+date)
		}
		if attendees := strs(m["attendees"]); len(attendees) > 0 {
			lines = append(lines, "Attendees: "+strings.Join(attendees, ", "))
		}
		if topics := strs(m["topics"]); len(topics) > 0 {
			lines = append(lines, "Topics: "+strings.Join(topics, ", "))
			for _, t := range topics {
				topicSet[t] = struct{}{}
			}
		}
		if decisions := strs(m["decisions"]); len(decisions) > 0 {
			lines = append(lines, "Decisions: "+strings.Join(decisions, "; "))
		}
		for _, a := range maps(m["actions"]) {
			if str(a["task"]) != "" {
				allActions = append(allActions, a)
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, "=== ALL ACTION ITEMS ===")
	for _, a := range allActions {
		entry := fmt.Sprintf("- [%s] %s - Owner: %s",
			stringOr(a["status"], "pending"), str(a["task"]), stringOr(a["owner"], "Unassigned"))
		if deadline := str(a["deadline"]); deadline != "" {
			entry += fmt.Sprintf(" (Due: %s)", deadline)
		}
		lines = append(lines, entry)
	}

	lines = append(lines, "\n=== ALL COMMITMENTS ===")
	for _, c := range commitments {
		lines = append(lines, fmt.Sprintf("- %s: %s", str(c["person"]), str(c["commitment"])))
	}

	topics := make([]string, 0, len(topicSet))
	for t := range topicSet {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	lines = append(lines, "\n=== RECURRING TOPICS ===")
	lines = append(lines, "Topics appearing across meetings: "+strings.Join(topics, ", "))

	return strings.Join(lines, "\n")
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func stringOr(v any, fallback string) string {
	if s := str(v); s != "" {
		return s
	}
	return fallback
}

func strs(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func maps(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func hasEntries(items []map[string]any, key string) bool {
	for _, item := range items {
		if str(item[key]) != "" {
			return true
		}
	}
	return false
}

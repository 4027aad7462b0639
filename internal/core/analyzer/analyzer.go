package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lexigraph/lexigraph/internal/driver"
	"github.com/lexigraph/lexigraph/internal/errs"
	"github.com/lexigraph/lexigraph/internal/llm"
)

// DefaultConflictSystemPrompt drives LLM conflict detection over decisions.
const DefaultConflictSystemPrompt = `You are an expert at analyzing business decisions for conflicts or contradictions.
Given a list of decisions from meetings, identify any that might contradict or conflict with each other.

For each conflict found, explain:
1. The two conflicting decisions
2. Why they conflict
3. Severity: LOW (minor), MEDIUM (needs resolution), HIGH (blocking)

If no conflicts exist, say "No conflicts detected."
Be concise but thorough.`

const conflictTemperature = 0.3
const conflictMaxTokens = 1000

const deadlineStatusQuery = `
	MATCH (a:ActionItem)
	OPTIONAL MATCH (p:Person)-[:OWNS]->(a)
	OPTIONAL MATCH (m:Meeting)-[:CONTAINS]->(a)
	RETURN a.description as task,
	       a.deadline as deadline,
	       a.status as status,
	       a.priority as priority,
	       p.name as owner,
	       m.title as meeting
	ORDER BY a.deadline
`

const topicTrendsQuery = `
	MATCH (t:Topic)<-[:DISCUSSED]-(m:Meeting)
	OPTIONAL MATCH (d:Decision)-[:ABOUT]->(t)
	WITH t, collect(DISTINCT m.title) as meetings, collect(DISTINCT d.description) as decisions
	RETURN t.name as topic,
	       t.description as description,
	       size(meetings) as meeting_count,
	       meetings,
	       decisions
	ORDER BY meeting_count DESC
`

const personInsightsQuery = `
	MATCH (p:Person)
	OPTIONAL MATCH (p)-[:ATTENDED]->(m:Meeting)
	OPTIONAL MATCH (p)-[:OWNS]->(a:ActionItem)
	OPTIONAL MATCH (p)-[:MADE]->(d:Decision)
	OPTIONAL MATCH (p)-[:COMMITTED]->(c:Commitment)
	WITH p,
	     count(DISTINCT m) as meetings_attended,
	     count(DISTINCT a) as action_items,
	     count(DISTINCT d) as decisions_made,
	     count(DISTINCT c) as commitments
	RETURN p.name as name,
	       p.role as role,
	       meetings_attended,
	       action_items,
	       decisions_made,
	       commitments,
	       (action_items + decisions_made + commitments) as engagement_score
	ORDER BY engagement_score DESC
`

const decisionsWithContextQuery = `
	MATCH (d:Decision)
	OPTIONAL MATCH (p:Person)-[:MADE]->(d)
	OPTIONAL MATCH (m:Meeting)-[:CONTAINS]->(d)
	OPTIONAL MATCH (d)-[:ABOUT]->(t:Topic)
	RETURN d.description as decision,
	       p.name as made_by,
	       m.title as meeting,
	       m.date as date,
	       t.name as topic
	ORDER BY m.date
`

const meetingComparisonQuery = `
	MATCH (m1:Meeting), (m2:Meeting)
	WHERE toLower(m1.title) CONTAINS toLower($meeting1)
	  AND toLower(m2.title) CONTAINS toLower($meeting2)
	OPTIONAL MATCH (m1)-[:DISCUSSED]->(t1:Topic)
	OPTIONAL MATCH (m2)-[:DISCUSSED]->(t2:Topic)
	OPTIONAL MATCH (m1)-[:CONTAINS]->(d1:Decision)
	OPTIONAL MATCH (m2)-[:CONTAINS]->(d2:Decision)
	RETURN m1.title as meeting1_title,
	       m2.title as meeting2_title,
	       collect(DISTINCT t1.name) as meeting1_topics,
	       collect(DISTINCT t2.name) as meeting2_topics,
	       collect(DISTINCT d1.description) as meeting1_decisions,
	       collect(DISTINCT d2.description) as meeting2_decisions
`

// DeadlineItem is one action item with its graph context.
type DeadlineItem struct {
	Task     string `json:"task"`
	Deadline string `json:"deadline,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Status   string `json:"status"`
	Priority string `json:"priority,omitempty"`
	Meeting  string `json:"meeting,omitempty"`
}

// DeadlineReport buckets action items by how close their deadline is.
type DeadlineReport struct {
	Overdue    []DeadlineItem `json:"overdue"`
	DueSoon    []DeadlineItem `json:"due_soon"`
	Upcoming   []DeadlineItem `json:"upcoming"`
	NoDeadline []DeadlineItem `json:"no_deadline"`
}

// MeetingComparison lists the topic overlap and decisions of two meetings.
type MeetingComparison struct {
	Meeting1          string   `json:"meeting1"`
	Meeting2          string   `json:"meeting2"`
	CommonTopics      []string `json:"common_topics"`
	UniqueToMeeting1  []string `json:"unique_to_meeting1"`
	UniqueToMeeting2  []string `json:"unique_to_meeting2"`
	Meeting1Decisions []string `json:"meeting1_decisions"`
	Meeting2Decisions []string `json:"meeting2_decisions"`
}

// Analyzer computes cross-meeting insights. Now is injectable so deadline
// bucketing is testable against a fixed reference day.
type Analyzer struct {
	Driver         driver.GraphDriver
	LLM            llm.LLMClient
	ConflictSystem string
	Now            func() time.Time
}

func NewAnalyzer(d driver.GraphDriver, client llm.LLMClient, conflictSystem string) *Analyzer {
	if conflictSystem == "" {
		conflictSystem = DefaultConflictSystemPrompt
	}
	return &Analyzer{
		Driver:         d,
		LLM:            llm.WithRetry(client),
		ConflictSystem: conflictSystem,
		Now:            time.Now,
	}
}

// DeadlineStatus categorizes every action item: overdue, due within 2 days,
// upcoming, or deadline-free. Unparseable deadline text lands in upcoming.
func (a *Analyzer) DeadlineStatus(ctx context.Context) (*DeadlineReport, error) {
	rows, err := a.Driver.Run(ctx, deadlineStatusQuery, nil)
	if err != nil {
		return nil, errs.New(errs.KindGraph, "failed to load action items", err)
	}

	report := &DeadlineReport{
		Overdue:    []DeadlineItem{},
		DueSoon:    []DeadlineItem{},
		Upcoming:   []DeadlineItem{},
		NoDeadline: []DeadlineItem{},
	}
	now := a.Now()

	for _, row := range rows {
		item := DeadlineItem{
			Task:     stringValue(row["task"]),
			Deadline: stringValue(row["deadline"]),
			Owner:    stringValue(row["owner"]),
			Status:   stringValue(row["status"]),
			Priority: stringValue(row["priority"]),
			Meeting:  stringValue(row["meeting"]),
		}
		if item.Status == "" {
			item.Status = "pending"
		}

		if item.Deadline == "" {
			report.NoDeadline = append(report.NoDeadline, item)
			continue
		}

		due, ok := ParseDeadline(item.Deadline, now)
		if !ok {
			report.Upcoming = append(report.Upcoming, item)
			continue
		}
		switch days := int(due.Sub(now).Hours() / 24); {
		case days < 0:
			report.Overdue = append(report.Overdue, item)
		case days <= 2:
			report.DueSoon = append(report.DueSoon, item)
		default:
			report.Upcoming = append(report.Upcoming, item)
		}
	}

	return report, nil
}

// TopicTrends returns topics ordered by how many meetings discussed them.
func (a *Analyzer) TopicTrends(ctx context.Context) ([]map[string]any, error) {
	rows, err := a.Driver.Run(ctx, topicTrendsQuery, nil)
	if err != nil {
		return nil, errs.New(errs.KindGraph, "failed to load topic trends", err)
	}
	return rows, nil
}

// PersonInsights returns per-person activity metrics with an engagement
// score summing owned action items, decisions made and commitments.
func (a *Analyzer) PersonInsights(ctx context.Context) ([]map[string]any, error) {
	rows, err := a.Driver.Run(ctx, personInsightsQuery, nil)
	if err != nil {
		return nil, errs.New(errs.KindGraph, "failed to load person insights", err)
	}
	return rows, nil
}

// DetectConflicts asks the model whether any recorded decisions contradict
// each other.
func (a *Analyzer) DetectConflicts(ctx context.Context) (string, error) {
	rows, err := a.Driver.Run(ctx, decisionsWithContextQuery, nil)
	if err != nil {
		return "", errs.New(errs.KindGraph, "failed to load decisions", err)
	}
	if len(rows) == 0 {
		return "No decisions found in the knowledge graph.", nil
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		line := fmt.Sprintf("%d. %q", i+1, stringValue(row["decision"]))
		if v := stringValue(row["made_by"]); v != "" {
			line += fmt.Sprintf(" (by %s)", v)
		}
		if v := stringValue(row["meeting"]); v != "" {
			line += fmt.Sprintf(" [Meeting: %s]", v)
		}
		if v := stringValue(row["topic"]); v != "" {
			line += fmt.Sprintf(" [Topic: %s]", v)
		}
		lines = append(lines, line)
	}

	analysis, err := a.LLM.Generate(ctx, llm.Request{
		System:      a.ConflictSystem,
		Prompt:      "Analyze these decisions for conflicts:\n\n" + strings.Join(lines, "\n"),
		Temperature: conflictTemperature,
		MaxTokens:   conflictMaxTokens,
	})
	if err != nil {
		return "", errs.New(errs.KindQuery, "conflict analysis failed", err)
	}
	return strings.TrimSpace(analysis), nil
}

// CompareMeetings resolves two meetings by fuzzy title and reports their
// common and distinct topics plus each meeting's decisions.
func (a *Analyzer) CompareMeetings(ctx context.Context, meeting1, meeting2 string) (*MeetingComparison, error) {
	rows, err := a.Driver.Run(ctx, meetingComparisonQuery, map[string]any{
		"meeting1": meeting1,
		"meeting2": meeting2,
	})
	if err != nil {
		return nil, errs.New(errs.KindGraph, "failed to compare meetings", err)
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindQuery, "meetings not found", nil)
	}

	row := rows[0]
	topics1 := stringSet(row["meeting1_topics"])
	topics2 := stringSet(row["meeting2_topics"])

	return &MeetingComparison{
		Meeting1:          stringValue(row["meeting1_title"]),
		Meeting2:          stringValue(row["meeting2_title"]),
		CommonTopics:      intersect(topics1, topics2),
		UniqueToMeeting1:  subtract(topics1, topics2),
		UniqueToMeeting2:  subtract(topics2, topics1),
		Meeting1Decisions: stringSlice(row["meeting1_decisions"]),
		Meeting2Decisions: stringSlice(row["meeting2_decisions"]),
	}, nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringSet(v any) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range stringSlice(v) {
		set[s] = struct{}{}
	}
	return set
}

func intersect(a, b map[string]struct{}) []string {
	out := []string{}
	for s := range a {
		if _, ok := b[s]; ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func subtract(a, b map[string]struct{}) []string {
	out := []string{}
	for s := range a {
		if _, ok := b[s]; !ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

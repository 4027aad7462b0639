package driver

import (
	"context"
	"fmt"

	"github.com/lexigraph/lexigraph/internal/errs"
	"github.com/lexigraph/lexigraph/internal/match"
)

// NodeLabels lists every node type in the meeting graph schema.
var NodeLabels = []string{"Meeting", "Person", "Topic", "Decision", "ActionItem", "Commitment"}

// Endpoint names one side of a relationship by label, identifying property
// and the (possibly partial) value to resolve.
type Endpoint struct {
	Label    string
	Property string
	Value    string
}

// Store is the typed write surface over the graph. Identity nodes upsert on
// their unique key; event nodes always insert. Relationship endpoints are
// resolved to a single existing node through the injected matcher before the
// MERGE, so a fuzzy reference can never fan out across several nodes.
type Store struct {
	driver  GraphDriver
	matcher match.Matcher
}

func NewStore(d GraphDriver, m match.Matcher) *Store {
	if m == nil {
		m = match.Substring{}
	}
	return &Store{driver: d, matcher: m}
}

func (s *Store) CreateMeeting(ctx context.Context, title, date string) error {
	_, err := s.driver.Run(ctx, MergeMeetingQuery, map[string]any{"title": title, "date": date})
	return err
}

func (s *Store) CreatePerson(ctx context.Context, name, role string) error {
	_, err := s.driver.Run(ctx, MergePersonQuery, map[string]any{"name": name, "role": role})
	return err
}

func (s *Store) CreateTopic(ctx context.Context, name, description string) error {
	_, err := s.driver.Run(ctx, MergeTopicQuery, map[string]any{"name": name, "description": description})
	return err
}

func (s *Store) CreateDecision(ctx context.Context, description string) error {
	_, err := s.driver.Run(ctx, CreateDecisionQuery, map[string]any{"description": description})
	return err
}

func (s *Store) CreateActionItem(ctx context.Context, description, deadline, priority string) error {
	_, err := s.driver.Run(ctx, CreateActionItemQuery, map[string]any{
		"description": description,
		"deadline":    deadline,
		"priority":    priority,
	})
	return err
}

func (s *Store) CreateCommitment(ctx context.Context, description string) error {
	_, err := s.driver.Run(ctx, CreateCommitmentQuery, map[string]any{"description": description})
	return err
}

// CreateRelationship resolves both endpoints through the matcher and MERGEs
// the typed relationship. Returns false when either endpoint has no match;
// no relationship is written in that case.
func (s *Store) CreateRelationship(ctx context.Context, from Endpoint, relType string, to Endpoint) (bool, error) {
	fromValue, ok, err := s.resolve(ctx, from)
	if err != nil || !ok {
		return false, err
	}
	toValue, ok, err := s.resolve(ctx, to)
	if err != nil || !ok {
		return false, err
	}

	query := fmt.Sprintf(mergeRelationshipQueryTemplate,
		from.Label, from.Property, to.Label, to.Property, relType)
	rows, err := s.driver.Run(ctx, query, map[string]any{
		"from_value": fromValue,
		"to_value":   toValue,
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (s *Store) resolve(ctx context.Context, e Endpoint) (string, bool, error) {
	query := fmt.Sprintf(listKeysQueryTemplate, e.Label, e.Property, e.Property)
	rows, err := s.driver.Run(ctx, query, nil)
	if err != nil {
		return "", false, err
	}

	candidates := make([]string, 0, len(rows))
	for _, row := range rows {
		if v, ok := row["value"].(string); ok {
			candidates = append(candidates, v)
		}
	}
	return s.matcher.Match(ctx, e.Value, candidates)
}

func (s *Store) LinkPersonToMeeting(ctx context.Context, personName, meetingTitle string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Person", "name", personName}, "ATTENDED",
		Endpoint{"Meeting", "title", meetingTitle})
}

func (s *Store) LinkMeetingToTopic(ctx context.Context, meetingTitle, topicName string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Meeting", "title", meetingTitle}, "DISCUSSED",
		Endpoint{"Topic", "name", topicName})
}

func (s *Store) LinkMeetingToDecision(ctx context.Context, meetingTitle, decisionDesc string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Meeting", "title", meetingTitle}, "CONTAINS",
		Endpoint{"Decision", "description", decisionDesc})
}

func (s *Store) LinkMeetingToActionItem(ctx context.Context, meetingTitle, actionDesc string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Meeting", "title", meetingTitle}, "CONTAINS",
		Endpoint{"ActionItem", "description", actionDesc})
}

func (s *Store) LinkPersonToDecision(ctx context.Context, personName, decisionDesc string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Person", "name", personName}, "MADE",
		Endpoint{"Decision", "description", decisionDesc})
}

func (s *Store) LinkPersonToActionItem(ctx context.Context, personName, actionDesc string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Person", "name", personName}, "OWNS",
		Endpoint{"ActionItem", "description", actionDesc})
}

func (s *Store) LinkPersonToCommitment(ctx context.Context, personName, commitmentDesc string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Person", "name", personName}, "COMMITTED",
		Endpoint{"Commitment", "description", commitmentDesc})
}

func (s *Store) LinkDecisionToTopic(ctx context.Context, decisionDesc, topicName string) (bool, error) {
	return s.CreateRelationship(ctx,
		Endpoint{"Decision", "description", decisionDesc}, "ABOUT",
		Endpoint{"Topic", "name", topicName})
}

// ClearAll deletes every node and relationship.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.driver.Run(ctx, ClearAllQuery, nil); err != nil {
		return errs.New(errs.KindGraph, "failed to clear database", err)
	}
	return nil
}

// NodeCounts returns the node count per label.
func (s *Store) NodeCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(NodeLabels))
	for _, label := range NodeLabels {
		rows, err := s.driver.Run(ctx, fmt.Sprintf(countByLabelTemplate, label), nil)
		if err != nil {
			return nil, errs.New(errs.KindGraph, fmt.Sprintf("failed to count %s nodes", label), err)
		}
		if len(rows) > 0 {
			if n, ok := rows[0]["count"].(int64); ok {
				counts[label] = n
			}
		}
	}
	return counts, nil
}

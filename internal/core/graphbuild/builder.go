package graphbuild

import (
	"context"

	"github.com/lexigraph/lexigraph/internal/core/model"
	"github.com/lexigraph/lexigraph/internal/driver"
)

// Builder turns a MeetingExtraction into graph nodes and relationships.
type Builder struct {
	Store *driver.Store
}

func NewBuilder(store *driver.Store) *Builder {
	return &Builder{Store: store}
}

// Build writes the extraction to the graph: the meeting upsert first, then
// entities with their typed relationships. Stats count nodes written and
// relationships actually created (an unresolvable owner or topic reference
// skips the link without failing the build).
func (b *Builder) Build(ctx context.Context, extraction *model.MeetingExtraction) (*model.BuildStats, error) {
	stats := &model.BuildStats{}
	title := extraction.MeetingTitle

	if err := b.Store.CreateMeeting(ctx, title, extraction.MeetingDate); err != nil {
		return nil, err
	}
	stats.Meetings = 1

	for _, person := range extraction.People {
		if err := b.Store.CreatePerson(ctx, person.Name, person.Role); err != nil {
			return nil, err
		}
		stats.People++
		if err := b.link(ctx, stats, b.Store.LinkPersonToMeeting, person.Name, title); err != nil {
			return nil, err
		}
	}

	for _, topic := range extraction.Topics {
		if err := b.Store.CreateTopic(ctx, topic.Name, topic.Description); err != nil {
			return nil, err
		}
		stats.Topics++
		if err := b.link(ctx, stats, b.Store.LinkMeetingToTopic, title, topic.Name); err != nil {
			return nil, err
		}
	}

	for _, decision := range extraction.Decisions {
		if err := b.Store.CreateDecision(ctx, decision.Description); err != nil {
			return nil, err
		}
		stats.Decisions++
		if err := b.link(ctx, stats, b.Store.LinkMeetingToDecision, title, decision.Description); err != nil {
			return nil, err
		}
		if decision.MadeBy != "" {
			if err := b.link(ctx, stats, b.Store.LinkPersonToDecision, decision.MadeBy, decision.Description); err != nil {
				return nil, err
			}
		}
		if decision.RelatedTopic != "" {
			if err := b.link(ctx, stats, b.Store.LinkDecisionToTopic, decision.Description, decision.RelatedTopic); err != nil {
				return nil, err
			}
		}
	}

	for _, action := range extraction.ActionItems {
		if err := b.Store.CreateActionItem(ctx, action.Description, action.Deadline, action.Priority); err != nil {
			return nil, err
		}
		stats.ActionItems++
		if err := b.link(ctx, stats, b.Store.LinkMeetingToActionItem, title, action.Description); err != nil {
			return nil, err
		}
		if action.Owner != "" {
			if err := b.link(ctx, stats, b.Store.LinkPersonToActionItem, action.Owner, action.Description); err != nil {
				return nil, err
			}
		}
	}

	for _, commitment := range extraction.Commitments {
		if err := b.Store.CreateCommitment(ctx, commitment.Description); err != nil {
			return nil, err
		}
		stats.Commitments++
		if commitment.MadeBy != "" {
			if err := b.link(ctx, stats, b.Store.LinkPersonToCommitment, commitment.MadeBy, commitment.Description); err != nil {
				return nil, err
			}
		}
	}

	return stats, nil
}

type linkFunc func(ctx context.Context, a, b string) (bool, error)

func (b *Builder) link(ctx context.Context, stats *model.BuildStats, fn linkFunc, from, to string) error {
	created, err := fn(ctx, from, to)
	if err != nil {
		return err
	}
	if created {
		stats.Relationships++
	}
	return nil
}

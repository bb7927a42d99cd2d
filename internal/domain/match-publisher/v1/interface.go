package matchpublisherv1

import (
	"context"
)

//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=matchpublisherv1_mock

// MatchPublisher defines the interface for publishing match outcomes.
type MatchPublisher interface {
	// PublishOutcome publishes a match outcome event to the outcome topic.
	PublishOutcome(ctx context.Context, event *OutcomeEvent) error
}

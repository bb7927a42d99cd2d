package matchpublisherv1

import (
	"encoding/json"
	"time"

	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
)

// OutcomeEvent is the JSON wire format of one published match outcome.
// The outcome stream is append-only; downstream settlement (escrow capture,
// contract creation) consumes it.
type OutcomeEvent struct {
	Market    string                `json:"market"`
	Outcome   *orderv1.MatchOutcome `json:"outcome"`
	Timestamp time.Time             `json:"timestamp"`
}

// NewOutcomeEvent wraps a match outcome for publishing.
func NewOutcomeEvent(market string, outcome *orderv1.MatchOutcome) *OutcomeEvent {
	return &OutcomeEvent{
		Market:    market,
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	}
}

// ToBytes converts the outcome event to a byte array.
func ToBytes(event *OutcomeEvent) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}

	return data
}

// FromBytes converts a byte array to an outcome event.
func FromBytes(data []byte) *OutcomeEvent {
	var event OutcomeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}

package orderv1

import (
	"errors"
	"fmt"

	resourcev1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/resource/v1"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrNonPositiveDuration is returned when a buy order requests zero or negative ticks.
	ErrNonPositiveDuration = errors.New("requested duration must be positive")
	// ErrNonPositiveUnitPrice is returned when a buy order offers zero or less per tick.
	ErrNonPositiveUnitPrice = errors.New("offered unit price must be positive")
	// ErrNilPredicate is returned when a buy order carries no resource predicate.
	ErrNilPredicate = errors.New("buy order has no resource predicate")
	// ErrMissingOrderID is returned when a buy order carries no ID.
	ErrMissingOrderID = errors.New("buy order has no ID")
)

// BuyOrder is a renter's request: a predicate over resource specs, the tick
// at which access should begin, the desired duration, and the offered price
// per tick. Duration times unit price is the hard ceiling on the amount
// charged. Buy orders are never stored; each one is matched or thrown out
// within a single engine update.
type BuyOrder struct {
	ID        string                `json:"id"`
	UserID    string                `json:"userID"`
	Predicate *resourcev1.Predicate `json:"predicate"`
	Start     int64                 `json:"start"`    // desired reservation start, in ticks
	Duration  int64                 `json:"duration"` // desired duration, in ticks
	UnitPrice int64                 `json:"unitPrice"`
}

// NewBuyOrder creates a buy order with a generated ID.
func NewBuyOrder(userID string, predicate *resourcev1.Predicate, start, duration, unitPrice int64) *BuyOrder {
	return &BuyOrder{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Predicate: predicate,
		Start:     start,
		Duration:  duration,
		UnitPrice: unitPrice,
	}
}

// Validate rejects malformed buy orders before any matching is attempted.
func (b *BuyOrder) Validate() error {
	if b.ID == "" {
		return ErrMissingOrderID
	}
	if b.Duration <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveDuration, b.Duration)
	}
	if b.UnitPrice <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveUnitPrice, b.UnitPrice)
	}
	if b.Predicate == nil {
		return ErrNilPredicate
	}
	return nil
}

// Budget returns the maximum amount this order may be charged.
func (b *BuyOrder) Budget() int64 {
	return b.Duration * b.UnitPrice
}

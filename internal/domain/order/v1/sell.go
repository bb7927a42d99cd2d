package orderv1

import (
	resourcev1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/resource/v1"
	"github.com/oklog/ulid/v2"
)

// SellOrder is a provider's offer of a resource for rent: the resource
// description, a validity window in ticks, and the tiered price schedule.
type SellOrder struct {
	ID         string          `json:"id"`
	ProviderID string          `json:"providerID"`
	Spec       resourcev1.Spec `json:"spec"`
	Start      int64           `json:"start"`    // validity window start, in ticks
	Validity   int64           `json:"validity"` // window length, in ticks
	Schedule   PriceSchedule   `json:"schedule"`
	Sequence   int64           `json:"sequence"` // book insertion order
}

// NewSellOrder creates a sell order with a generated ID.
func NewSellOrder(providerID string, spec resourcev1.Spec, start, validity int64, schedule PriceSchedule) *SellOrder {
	return &SellOrder{
		ID:         ulid.Make().String(),
		ProviderID: providerID,
		Spec:       spec,
		Start:      start,
		Validity:   validity,
		Schedule:   schedule,
	}
}

// WindowEnd returns the first tick at which the order is no longer valid.
func (s *SellOrder) WindowEnd() int64 {
	return s.Start + s.Validity
}

// Expired reports whether the order's validity window has closed.
func (s *SellOrder) Expired(now int64) bool {
	return s.WindowEnd() <= now
}

// Covers reports whether a reservation starting at tick t lies inside
// the order's validity window.
func (s *SellOrder) Covers(t int64) bool {
	return s.Start <= t && t < s.WindowEnd()
}

package orderreaderv1

import (
	"errors"

	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
	resourcev1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/resource/v1"
)

var (
	// ErrMissingPayload is returned when an envelope carries no payload for its type.
	ErrMissingPayload = errors.New("envelope carries no payload for its type")
	// ErrUnknownEnvelopeType is returned when an envelope's type tag is not recognized.
	ErrUnknownEnvelopeType = errors.New("unknown envelope type")
)

// EnvelopeType tags the kind of order carried by an intake message.
type EnvelopeType string

const (
	// EnvelopeSell is a provider publishing or re-publishing an offering.
	EnvelopeSell EnvelopeType = "sell"
	// EnvelopeBuy is a renter requesting a reservation.
	EnvelopeBuy EnvelopeType = "buy"
	// EnvelopeCancel withdraws a booked sell order.
	EnvelopeCancel EnvelopeType = "cancel"
)

// OrderEnvelope is the JSON wire format of one intake message. Exactly one
// of the payload fields is set, according to Type.
type OrderEnvelope struct {
	Type   EnvelopeType   `json:"type"`
	Memo   string         `json:"memo,omitempty"`
	Offset int64          `json:"-"` // intake stream offset, set by the reader
	Sell   *SellPayload   `json:"sell,omitempty"`
	Buy    *BuyPayload    `json:"buy,omitempty"`
	Cancel *CancelPayload `json:"cancel,omitempty"`
}

// SellPayload carries a provider's offering submission.
type SellPayload struct {
	OrderID    string                `json:"orderID,omitempty"`
	ProviderID string                `json:"providerID"`
	Spec       resourcev1.Spec       `json:"spec"`
	Start      int64                 `json:"start"`
	Validity   int64                 `json:"validity"`
	Schedule   orderv1.PriceSchedule `json:"schedule"`
}

// BuyPayload carries a renter's reservation request.
type BuyPayload struct {
	OrderID   string                `json:"orderID,omitempty"`
	UserID    string                `json:"userID"`
	Predicate *resourcev1.Predicate `json:"predicate"`
	Start     int64                 `json:"start"`
	Duration  int64                 `json:"duration"`
	UnitPrice int64                 `json:"unitPrice"`
}

// CancelPayload withdraws a previously booked sell order.
type CancelPayload struct {
	OrderID string `json:"orderID"`
}

// ToSellOrder converts the payload into a domain sell order. The submitter's
// orderID is carried as-is and never generated here: decoding the same intake
// bytes must always produce the same book keys, so re-reading the stream after
// a restart rebuilds an identical book. A payload without an orderID is
// rejected at booking.
func (p *SellPayload) ToSellOrder() *orderv1.SellOrder {
	return &orderv1.SellOrder{
		ID:         p.OrderID,
		ProviderID: p.ProviderID,
		Spec:       p.Spec,
		Start:      p.Start,
		Validity:   p.Validity,
		Schedule:   p.Schedule,
	}
}

// ToBuyOrder converts the payload into a domain buy order. As with sell
// payloads the orderID is carried as-is; a payload without one is rejected
// during matching.
func (p *BuyPayload) ToBuyOrder() *orderv1.BuyOrder {
	return &orderv1.BuyOrder{
		ID:        p.OrderID,
		UserID:    p.UserID,
		Predicate: p.Predicate,
		Start:     p.Start,
		Duration:  p.Duration,
		UnitPrice: p.UnitPrice,
	}
}

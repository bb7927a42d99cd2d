package orderv1

// OutcomeStatus is the terminal state of a processed buy order.
type OutcomeStatus string

const (
	// StatusMatched means a reservation was committed against a sell order.
	StatusMatched OutcomeStatus = "matched"
	// StatusRejected means no feasible, budget-respecting candidate existed.
	StatusRejected OutcomeStatus = "rejected"
)

// RejectReason explains a rejection. Rejection is a normal terminal outcome,
// not an error.
type RejectReason string

const (
	// RejectNoCandidates means no booked sell order satisfied the predicate
	// at the requested start tick.
	RejectNoCandidates RejectReason = "no_candidates"
	// RejectNoFeasibleMatch means candidates existed but none could cover the
	// granted duration inside its validity window.
	RejectNoFeasibleMatch RejectReason = "no_feasible_match"
	// RejectOverBudget means every feasible match cost more than duration
	// times the offered unit price.
	RejectOverBudget RejectReason = "over_budget"
	// RejectInvalidOrder means the buy order itself failed validation.
	RejectInvalidOrder RejectReason = "invalid_order"
)

// MatchOutcome is the engine's decision for one buy order.
type MatchOutcome struct {
	Status     OutcomeStatus `json:"status"`
	BuyOrderID string        `json:"buyOrderID"`
	UserID     string        `json:"userID"`

	// Set when Status is StatusMatched.
	SellOrderID  string `json:"sellOrderID,omitempty"`
	ProviderID   string `json:"providerID,omitempty"`
	TicksGranted int64  `json:"ticksGranted,omitempty"`
	Amount       int64  `json:"amount,omitempty"`

	// Set when Status is StatusRejected.
	Reason RejectReason `json:"reason,omitempty"`
}

// Matched builds a committed outcome for a buy order against a sell order.
func Matched(buy *BuyOrder, sell *SellOrder, ticksGranted, amount int64) *MatchOutcome {
	return &MatchOutcome{
		Status:       StatusMatched,
		BuyOrderID:   buy.ID,
		UserID:       buy.UserID,
		SellOrderID:  sell.ID,
		ProviderID:   sell.ProviderID,
		TicksGranted: ticksGranted,
		Amount:       amount,
	}
}

// Rejected builds a rejection outcome for a buy order.
func Rejected(buy *BuyOrder, reason RejectReason) *MatchOutcome {
	return &MatchOutcome{
		Status:     StatusRejected,
		BuyOrderID: buy.ID,
		UserID:     buy.UserID,
		Reason:     reason,
	}
}

// IsMatched reports whether the outcome committed a reservation.
func (o *MatchOutcome) IsMatched() bool {
	return o.Status == StatusMatched
}

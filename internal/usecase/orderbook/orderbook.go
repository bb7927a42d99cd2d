package orderbook

import (
	"errors"
	"fmt"
	"sync"

	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
	resourcev1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/resource/v1"
	snapshotv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/snapshot/v1"
	"github.com/decent-stuff/decent-cloud-sub001/internal/usecase/pricing"
)

var (
	// ErrNilOrder is returned when a nil order is submitted.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrEmptyOrderID is returned when an order has no ID.
	ErrEmptyOrderID = errors.New("order ID cannot be empty")
	// ErrInvalidWindow is returned when a sell order's validity window is malformed.
	ErrInvalidWindow = errors.New("validity window must have a non-negative start and positive length")
	// ErrDuplicateOrder is returned when an order ID is already booked.
	ErrDuplicateOrder = errors.New("order ID already booked")
	// ErrOrderNotFound is returned when a cancellation names an unknown order ID.
	ErrOrderNotFound = errors.New("order not found in book")
)

// Orderbook holds the live sell orders of one market. It is the only mutable
// state of the matching engine; the engine serializes all access, the
// internal mutex only guards against misuse from auxiliary readers.
type Orderbook struct {
	mu           sync.RWMutex
	offers       map[string]*orderv1.SellOrder
	booked       []*orderv1.SellOrder // insertion order
	nextSequence int64
}

// NewOrderbook creates an empty order book.
func NewOrderbook() *Orderbook {
	return &Orderbook{
		offers: make(map[string]*orderv1.SellOrder),
	}
}

// Insert validates a sell order and books it. The price schedule invariants
// are enforced here, so an invalid offering never becomes matchable.
func (ob *Orderbook) Insert(sell *orderv1.SellOrder) error {
	if sell == nil {
		return ErrNilOrder
	}
	if sell.ID == "" {
		return ErrEmptyOrderID
	}
	if sell.Start < 0 || sell.Validity <= 0 {
		return fmt.Errorf("%w: start %d, validity %d", ErrInvalidWindow, sell.Start, sell.Validity)
	}
	if err := sell.Schedule.Validate(); err != nil {
		return err
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	if _, exists := ob.offers[sell.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, sell.ID)
	}

	sell.Sequence = ob.nextSequence
	ob.nextSequence++

	ob.offers[sell.ID] = sell
	ob.booked = append(ob.booked, sell)

	return nil
}

// Cancel withdraws a booked sell order.
func (ob *Orderbook) Cancel(orderID string) error {
	if orderID == "" {
		return ErrEmptyOrderID
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	if _, exists := ob.offers[orderID]; !exists {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	delete(ob.offers, orderID)
	ob.booked = removeByID(ob.booked, orderID)

	return nil
}

// SweepExpired removes every sell order whose validity window has closed and
// returns the removed IDs.
func (ob *Orderbook) SweepExpired(now int64) []string {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return ob.sweepExpiredLocked(now)
}

func (ob *Orderbook) sweepExpiredLocked(now int64) []string {
	var removed []string
	kept := ob.booked[:0]
	for _, sell := range ob.booked {
		if sell.Expired(now) {
			removed = append(removed, sell.ID)
			delete(ob.offers, sell.ID)
			continue
		}
		kept = append(kept, sell)
	}
	ob.booked = kept
	return removed
}

// Candidates returns, in book order, every sell order whose resource spec
// satisfies the predicate and whose validity window is open at the requested
// start tick. The returned slice is a fresh copy; iterating it does not
// consume anything.
func (ob *Orderbook) Candidates(predicate *resourcev1.Predicate, start int64) []*orderv1.SellOrder {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	return ob.candidatesLocked(predicate, start)
}

func (ob *Orderbook) candidatesLocked(predicate *resourcev1.Predicate, start int64) []*orderv1.SellOrder {
	var candidates []*orderv1.SellOrder
	for _, sell := range ob.booked {
		if !sell.Covers(start) {
			continue
		}
		if !predicate.Match(sell.Spec) {
			continue
		}
		candidates = append(candidates, sell)
	}
	return candidates
}

// candidateQuote is one sell order's best feasible, budget-respecting offer
// for a buy order.
type candidateQuote struct {
	sell  *orderv1.SellOrder
	quote *pricing.Quote
	exact bool
}

// Match decides a single buy order against the book: sweep expired offers,
// enumerate candidates, quote each one, and commit the cheapest feasible
// quote within the buyer's budget. The buy order is never stored; the
// outcome is terminal.
//
// The winner ordering is total and deterministic: lowest price, then the
// exact quote over the exceeding one on a price tie, then earliest window
// start, then book insertion order.
func (ob *Orderbook) Match(now int64, buy *orderv1.BuyOrder) *orderv1.MatchOutcome {
	if buy == nil {
		return nil
	}
	if err := buy.Validate(); err != nil {
		return orderv1.Rejected(buy, orderv1.RejectInvalidOrder)
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.sweepExpiredLocked(now)

	candidates := ob.candidatesLocked(buy.Predicate, buy.Start)
	if len(candidates) == 0 {
		return orderv1.Rejected(buy, orderv1.RejectNoCandidates)
	}

	budget := buy.Budget()
	anyFeasible := false
	var winner *candidateQuote

	for _, sell := range candidates {
		best := bestQuote(sell, buy)
		if best == nil {
			continue
		}
		anyFeasible = true
		if best.quote.Price > budget {
			continue
		}
		if winner == nil || lessQuote(best, winner) {
			winner = best
		}
	}

	if winner == nil {
		if anyFeasible {
			return orderv1.Rejected(buy, orderv1.RejectOverBudget)
		}
		return orderv1.Rejected(buy, orderv1.RejectNoFeasibleMatch)
	}

	return orderv1.Matched(buy, winner.sell, winner.quote.Ticks, winner.quote.Price)
}

// bestQuote picks a sell order's cheapest match shape that still fits inside
// its validity window. The exact and exceeding shapes are checked
// independently: an exceeding grant that would outlive the window falls back
// to the exact shape, and vice versa.
func bestQuote(sell *orderv1.SellOrder, buy *orderv1.BuyOrder) *candidateQuote {
	exact, exceeding := pricing.Optimize(sell.Schedule, buy.Duration)

	fits := func(q *pricing.Quote) bool {
		return q != nil && buy.Start+q.Ticks <= sell.WindowEnd()
	}

	exactFits := fits(exact)
	exceedingFits := fits(exceeding) && (exact == nil || exceeding.Ticks != exact.Ticks)

	switch {
	case exactFits && exceedingFits:
		// prefer the exact shape on a price tie: no unrequested surplus
		if exceeding.Price < exact.Price {
			return &candidateQuote{sell: sell, quote: exceeding}
		}
		return &candidateQuote{sell: sell, quote: exact, exact: true}
	case exactFits:
		return &candidateQuote{sell: sell, quote: exact, exact: true}
	case exceedingFits:
		return &candidateQuote{sell: sell, quote: exceeding}
	default:
		return nil
	}
}

// lessQuote reports whether a beats b in the winner ordering.
func lessQuote(a, b *candidateQuote) bool {
	if a.quote.Price != b.quote.Price {
		return a.quote.Price < b.quote.Price
	}
	if a.exact != b.exact {
		return a.exact
	}
	if a.sell.Start != b.sell.Start {
		return a.sell.Start < b.sell.Start
	}
	return a.sell.Sequence < b.sell.Sequence
}

// Len returns the number of booked sell orders.
func (ob *Orderbook) Len() int {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	return len(ob.booked)
}

// CreateSnapshot captures the current book state.
func (ob *Orderbook) CreateSnapshot() *snapshotv1.Snapshot {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	offers := make([]orderv1.SellOrder, 0, len(ob.booked))
	for _, sell := range ob.booked {
		offers = append(offers, *sell)
	}

	return &snapshotv1.Snapshot{
		Book: snapshotv1.BookSnapshot{
			Offers:       offers,
			NextSequence: ob.nextSequence,
		},
	}
}

// RestoreOrderbook replaces the book state with a snapshot's.
func (ob *Orderbook) RestoreOrderbook(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.offers = make(map[string]*orderv1.SellOrder, len(snapshot.Book.Offers))
	ob.booked = ob.booked[:0]
	ob.nextSequence = snapshot.Book.NextSequence

	for i := range snapshot.Book.Offers {
		sell := snapshot.Book.Offers[i]
		if err := sell.Schedule.Validate(); err != nil {
			return fmt.Errorf("failed to restore order %s: %w", sell.ID, err)
		}
		restored := sell
		ob.offers[restored.ID] = &restored
		ob.booked = append(ob.booked, &restored)
	}

	return nil
}

// removeByID drops the order with the given ID from the slice, preserving order.
func removeByID(booked []*orderv1.SellOrder, orderID string) []*orderv1.SellOrder {
	for i, sell := range booked {
		if sell.ID == orderID {
			return append(booked[:i], booked[i+1:]...)
		}
	}
	return booked
}

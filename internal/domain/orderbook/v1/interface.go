package orderbookv1

import (
	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
	resourcev1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/resource/v1"
	snapshotv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/snapshot/v1"
)

// Orderbook defines the interface for the book of live sell orders owned by
// the matching engine. All mutation goes through it; the engine serializes
// calls, so every update observes the complete effect of the previous one.
type Orderbook interface {
	Insert(sell *orderv1.SellOrder) error
	Cancel(orderID string) error
	SweepExpired(now int64) []string
	Candidates(predicate *resourcev1.Predicate, start int64) []*orderv1.SellOrder
	Match(now int64, buy *orderv1.BuyOrder) *orderv1.MatchOutcome
	Len() int
	CreateSnapshot() *snapshotv1.Snapshot
	RestoreOrderbook(snapshot *snapshotv1.Snapshot) error
}

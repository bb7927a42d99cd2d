package snapshotv1

import (
	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
)

// Snapshot represents the state of the order book at a specific point in the
// intake stream. Restoring a snapshot and replaying the stream from
// OrderOffset reproduces the book deterministically.
type Snapshot struct {
	OrderOffset int64        `json:"orderOffset"`
	Book        BookSnapshot `json:"book"`
}

// BookSnapshot holds every booked sell order plus the insertion sequence
// counter, so restored orders keep their tie-break ordering.
type BookSnapshot struct {
	Offers       []orderv1.SellOrder `json:"offers"`
	NextSequence int64               `json:"nextSequence"`
}

// Package pricing computes the cheapest way to cover a requested duration
// from a provider's tiered price schedule.
//
// A valid schedule behaves like a mixed-radix denomination system: block
// durations are running products of the multipliers, prices strictly
// increase, and one larger block always undercuts the smaller blocks it
// aggregates. Under those invariants a single top-down greedy pass is
// optimal, so every quote costs O(len(schedule)) with no search.
package pricing

import (
	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
)

// Quote is one priced combination of tier blocks.
type Quote struct {
	// Ticks is the total duration the combination grants.
	Ticks int64
	// Price is the summed flat price of every block in the combination.
	Price int64
	// Counts holds the number of blocks purchased per tier, aligned with
	// the schedule.
	Counts []int64
}

// Optimize returns the minimal-price combination covering exactly the
// requested duration, and the minimal-price combination covering the
// smallest achievable duration at or above it.
//
// Every achievable duration is a multiple of the schedule's base block, so
// the exceeding quote is the exact decomposition of the duration rounded up
// to the next base-block multiple; when the request is already a multiple,
// the two quotes coincide. The exact quote is nil when the duration is not
// expressible. A non-positive duration or an empty schedule yields no quotes;
// callers validate both before quoting.
func Optimize(schedule orderv1.PriceSchedule, duration int64) (exact, exceeding *Quote) {
	if duration <= 0 || len(schedule) == 0 {
		return nil, nil
	}

	base := schedule.BaseTicks()
	target := ((duration + base - 1) / base) * base

	exceeding = decompose(schedule, target)
	if target == duration {
		exact = exceeding
	}
	return exact, exceeding
}

// decompose runs the greedy pass: from the largest tier down, take as many
// whole blocks as the remainder allows. The remainder after tier i+1 is
// always below tier i+1's block duration, so each count stays below the next
// multiplier and the result is the canonical mixed-radix representation.
// The economy-of-scale invariant makes it the cheapest one.
func decompose(schedule orderv1.PriceSchedule, total int64) *Quote {
	blocks := schedule.BlockTicks()
	counts := make([]int64, len(schedule))

	remaining := total
	var price int64
	for i := len(schedule) - 1; i >= 0; i-- {
		if n := remaining / blocks[i]; n > 0 {
			counts[i] = n
			price += n * schedule[i].Price
			remaining -= n * blocks[i]
		}
	}

	return &Quote{
		Ticks:  total,
		Price:  price,
		Counts: counts,
	}
}

// TierOnlyPrice returns the price of covering the duration with blocks of a
// single tier alone, rounding the block count up. It exists for comparison
// and verification; Optimize never prices worse than any single tier.
func TierOnlyPrice(schedule orderv1.PriceSchedule, tier int, duration int64) int64 {
	blocks := schedule.BlockTicks()
	n := (duration + blocks[tier] - 1) / blocks[tier]
	return n * schedule[tier].Price
}

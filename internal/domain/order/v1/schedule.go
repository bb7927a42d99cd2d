package orderv1

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptySchedule is returned when a price schedule has no tiers.
	ErrEmptySchedule = errors.New("price schedule has no tiers")
	// ErrTierMultiplier is returned when a tier aggregates fewer than two blocks of the previous tier.
	ErrTierMultiplier = errors.New("tier multiplier must be at least 2")
	// ErrTierPrice is returned when a tier price is not positive.
	ErrTierPrice = errors.New("tier price must be positive")
	// ErrPriceNotIncreasing is returned when tier prices are not strictly increasing.
	ErrPriceNotIncreasing = errors.New("tier price must exceed previous tier price")
	// ErrNoEconomyOfScale is returned when buying one block of a tier is not cheaper
	// than covering the same duration with blocks of the previous tier.
	ErrNoEconomyOfScale = errors.New("tier must be cheaper than repeated previous tier")
	// ErrScheduleTooDeep is returned when the cumulative block duration overflows.
	ErrScheduleTooDeep = errors.New("price schedule block duration overflows")
)

// Tier is one purchasable duration block in a provider's price schedule.
// Multiplier says how many blocks of the previous tier this tier aggregates
// (the first tier aggregates unit ticks); Price is the flat price of one block,
// in token base units.
type Tier struct {
	Multiplier int64 `json:"multiplier" yaml:"multiplier"`
	Price      int64 `json:"price" yaml:"price"`
}

// PriceSchedule is an ordered list of tiers offered by a provider. Valid
// schedules satisfy two invariants for every adjacent pair: prices strictly
// increase, and one tier-(i+1) block is strictly cheaper than the
// Multiplier[i+1] tier-i blocks covering the same duration. Together they
// give the decomposition in the optimizer its canonical, greedy-solvable
// denomination structure.
type PriceSchedule []Tier

// Validate checks the schedule invariants in tier order and fails on the
// first violation, reporting the offending tier index.
func (g PriceSchedule) Validate() error {
	if len(g) == 0 {
		return ErrEmptySchedule
	}

	ticks := int64(1)
	for i, tier := range g {
		if tier.Multiplier < 2 {
			return fmt.Errorf("%w: tier %d has multiplier %d", ErrTierMultiplier, i, tier.Multiplier)
		}
		if tier.Price <= 0 {
			return fmt.Errorf("%w: tier %d has price %d", ErrTierPrice, i, tier.Price)
		}
		if ticks > math.MaxInt64/tier.Multiplier {
			return fmt.Errorf("%w: tier %d", ErrScheduleTooDeep, i)
		}
		ticks *= tier.Multiplier

		if i == 0 {
			continue
		}
		prev := g[i-1]
		if tier.Price <= prev.Price {
			return fmt.Errorf("%w: tier %d has price %d, tier %d has price %d",
				ErrPriceNotIncreasing, i, tier.Price, i-1, prev.Price)
		}
		if tier.Multiplier*prev.Price <= tier.Price {
			return fmt.Errorf("%w: tier %d costs %d, %d blocks of tier %d cost %d",
				ErrNoEconomyOfScale, i, tier.Price, tier.Multiplier, i-1, tier.Multiplier*prev.Price)
		}
	}

	return nil
}

// BlockTicks returns the absolute duration of one block of each tier:
// the running product of the multipliers, in unit ticks.
func (g PriceSchedule) BlockTicks() []int64 {
	ticks := make([]int64, len(g))
	acc := int64(1)
	for i, tier := range g {
		acc *= tier.Multiplier
		ticks[i] = acc
	}
	return ticks
}

// BaseTicks returns the duration of one block of the smallest tier.
// Every duration purchasable from this schedule is a multiple of it.
func (g PriceSchedule) BaseTicks() int64 {
	if len(g) == 0 {
		return 0
	}
	return g[0].Multiplier
}

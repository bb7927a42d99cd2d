package pricing

import (
	"testing"

	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoTier sells 2-tick blocks at 10 and 6-tick blocks at 25.
var twoTier = orderv1.PriceSchedule{
	{Multiplier: 2, Price: 10},
	{Multiplier: 3, Price: 25},
}

// Test 1: Exact decomposition picks the cheapest block combination
func TestOptimize_Exact(t *testing.T) {
	tests := []struct {
		name       string
		duration   int64
		wantPrice  int64
		wantCounts []int64
	}{
		{
			name:       "single base block",
			duration:   2,
			wantPrice:  10,
			wantCounts: []int64{1, 0},
		},
		{
			name:       "two base blocks cheaper than nothing else",
			duration:   4,
			wantPrice:  20,
			wantCounts: []int64{2, 0},
		},
		{
			name:       "large block undercuts three base blocks",
			duration:   6,
			wantPrice:  25,
			wantCounts: []int64{0, 1},
		},
		{
			name:       "mixed blocks",
			duration:   8,
			wantPrice:  35,
			wantCounts: []int64{1, 1},
		},
		{
			name:       "two large blocks",
			duration:   12,
			wantPrice:  50,
			wantCounts: []int64{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exact, exceeding := Optimize(twoTier, tt.duration)

			require.NotNil(t, exact)
			assert.Equal(t, tt.duration, exact.Ticks)
			assert.Equal(t, tt.wantPrice, exact.Price)
			assert.Equal(t, tt.wantCounts, exact.Counts)

			// A representable duration needs no surplus
			require.NotNil(t, exceeding)
			assert.Equal(t, exact.Ticks, exceeding.Ticks)
			assert.Equal(t, exact.Price, exceeding.Price)
		})
	}
}

// Test 2: Unrepresentable durations round up to the next base multiple
func TestOptimize_Exceeding(t *testing.T) {
	tests := []struct {
		name      string
		duration  int64
		wantTicks int64
		wantPrice int64
	}{
		{
			name:      "one tick rounds to one base block",
			duration:  1,
			wantTicks: 2,
			wantPrice: 10,
		},
		{
			name:      "five ticks round into one large block",
			duration:  5,
			wantTicks: 6,
			wantPrice: 25,
		},
		{
			name:      "seven ticks round to large plus base",
			duration:  7,
			wantTicks: 8,
			wantPrice: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exact, exceeding := Optimize(twoTier, tt.duration)

			assert.Nil(t, exact)
			require.NotNil(t, exceeding)
			assert.Equal(t, tt.wantTicks, exceeding.Ticks)
			assert.Equal(t, tt.wantPrice, exceeding.Price)
		})
	}
}

// Test 3: The greedy quote never loses to any single tier used alone
func TestOptimize_BeatsSingleTier(t *testing.T) {
	schedules := []orderv1.PriceSchedule{
		twoTier,
		{
			{Multiplier: 4, Price: 120},
			{Multiplier: 2, Price: 230},
			{Multiplier: 2, Price: 450},
		},
		{
			{Multiplier: 3, Price: 6},
			{Multiplier: 4, Price: 20},
		},
	}

	for _, schedule := range schedules {
		require.NoError(t, schedule.Validate())
		base := schedule.BaseTicks()

		for d := base; d <= base*40; d += base {
			exact, _ := Optimize(schedule, d)
			require.NotNil(t, exact, "duration %d", d)

			for tier := range schedule {
				assert.LessOrEqual(t, exact.Price, TierOnlyPrice(schedule, tier, d),
					"duration %d, tier %d", d, tier)
			}
		}
	}
}

// Test 4: Counts always sum back to the granted duration
func TestOptimize_CountsConsistent(t *testing.T) {
	schedule := orderv1.PriceSchedule{
		{Multiplier: 2, Price: 7},
		{Multiplier: 3, Price: 19},
		{Multiplier: 2, Price: 33},
	}
	require.NoError(t, schedule.Validate())

	blocks := schedule.BlockTicks()
	for d := int64(1); d <= 60; d++ {
		_, exceeding := Optimize(schedule, d)
		require.NotNil(t, exceeding)

		var ticks, price int64
		for i, n := range exceeding.Counts {
			ticks += n * blocks[i]
			price += n * schedule[i].Price
		}
		assert.Equal(t, exceeding.Ticks, ticks, "duration %d", d)
		assert.Equal(t, exceeding.Price, price, "duration %d", d)
		assert.GreaterOrEqual(t, exceeding.Ticks, d)
		assert.Less(t, exceeding.Ticks-d, schedule.BaseTicks())
	}
}

// Test 5: Degenerate inputs yield no quotes
func TestOptimize_Degenerate(t *testing.T) {
	exact, exceeding := Optimize(twoTier, 0)
	assert.Nil(t, exact)
	assert.Nil(t, exceeding)

	exact, exceeding = Optimize(twoTier, -3)
	assert.Nil(t, exact)
	assert.Nil(t, exceeding)

	exact, exceeding = Optimize(nil, 5)
	assert.Nil(t, exact)
	assert.Nil(t, exceeding)
}

// Test 6: Exhaustive cross-check against brute force on small schedules
func TestOptimize_MatchesBruteForce(t *testing.T) {
	schedule := twoTier
	blocks := schedule.BlockTicks()

	// cheapest exact cover by trying every block count combination
	bruteExact := func(d int64) (int64, bool) {
		best, found := int64(0), false
		for n1 := int64(0); n1*blocks[1] <= d; n1++ {
			rest := d - n1*blocks[1]
			if rest%blocks[0] != 0 {
				continue
			}
			price := n1*schedule[1].Price + (rest/blocks[0])*schedule[0].Price
			if !found || price < best {
				best, found = price, true
			}
		}
		return best, found
	}

	for d := int64(1); d <= 50; d++ {
		exact, _ := Optimize(schedule, d)
		wantPrice, representable := bruteExact(d)

		if !representable {
			assert.Nil(t, exact, "duration %d", d)
			continue
		}
		require.NotNil(t, exact, "duration %d", d)
		assert.Equal(t, wantPrice, exact.Price, "duration %d", d)
	}
}

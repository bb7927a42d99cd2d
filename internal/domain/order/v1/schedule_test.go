package orderv1

import (
	"testing"

	resourcev1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/resource/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyPredicate matches every spec.
var emptyPredicate = resourcev1.Predicate{}

// Test 1: Valid schedules pass
func TestPriceSchedule_Validate_Valid(t *testing.T) {
	tests := []struct {
		name     string
		schedule PriceSchedule
	}{
		{
			name:     "single tier",
			schedule: PriceSchedule{{Multiplier: 2, Price: 10}},
		},
		{
			name:     "two tiers with discount",
			schedule: PriceSchedule{{Multiplier: 2, Price: 10}, {Multiplier: 3, Price: 25}},
		},
		{
			name: "three tiers",
			schedule: PriceSchedule{
				{Multiplier: 4, Price: 120},
				{Multiplier: 2, Price: 230},
				{Multiplier: 2, Price: 450},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.schedule.Validate())
		})
	}
}

// Test 2: Invariant violations are reported with the offending tier
func TestPriceSchedule_Validate_Violations(t *testing.T) {
	tests := []struct {
		name     string
		schedule PriceSchedule
		wantErr  error
	}{
		{
			name:     "empty schedule",
			schedule: PriceSchedule{},
			wantErr:  ErrEmptySchedule,
		},
		{
			name:     "multiplier below two",
			schedule: PriceSchedule{{Multiplier: 1, Price: 10}},
			wantErr:  ErrTierMultiplier,
		},
		{
			name:     "zero multiplier in later tier",
			schedule: PriceSchedule{{Multiplier: 2, Price: 10}, {Multiplier: 0, Price: 15}},
			wantErr:  ErrTierMultiplier,
		},
		{
			name:     "zero price",
			schedule: PriceSchedule{{Multiplier: 2, Price: 0}},
			wantErr:  ErrTierPrice,
		},
		{
			name:     "negative price",
			schedule: PriceSchedule{{Multiplier: 2, Price: 10}, {Multiplier: 2, Price: -5}},
			wantErr:  ErrTierPrice,
		},
		{
			name:     "price not strictly increasing",
			schedule: PriceSchedule{{Multiplier: 2, Price: 10}, {Multiplier: 2, Price: 10}},
			wantErr:  ErrPriceNotIncreasing,
		},
		{
			name:     "no economy of scale",
			schedule: PriceSchedule{{Multiplier: 2, Price: 10}, {Multiplier: 2, Price: 20}},
			wantErr:  ErrNoEconomyOfScale,
		},
		{
			name: "violation in third tier only",
			schedule: PriceSchedule{
				{Multiplier: 2, Price: 10},
				{Multiplier: 3, Price: 25},
				{Multiplier: 2, Price: 50},
			},
			wantErr: ErrNoEconomyOfScale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Test 3: Validation is idempotent and does not mutate the schedule
func TestPriceSchedule_Validate_Idempotent(t *testing.T) {
	schedule := PriceSchedule{{Multiplier: 2, Price: 10}, {Multiplier: 3, Price: 25}}

	require.NoError(t, schedule.Validate())
	require.NoError(t, schedule.Validate())

	assert.Equal(t, int64(2), schedule[0].Multiplier)
	assert.Equal(t, int64(25), schedule[1].Price)
}

// Test 4: Block durations are running products of the multipliers
func TestPriceSchedule_BlockTicks(t *testing.T) {
	schedule := PriceSchedule{
		{Multiplier: 2, Price: 10},
		{Multiplier: 3, Price: 25},
		{Multiplier: 2, Price: 45},
	}

	assert.Equal(t, []int64{2, 6, 12}, schedule.BlockTicks())
	assert.Equal(t, int64(2), schedule.BaseTicks())
}

// Test 5: Overflowing block durations are rejected
func TestPriceSchedule_Validate_Overflow(t *testing.T) {
	schedule := PriceSchedule{{Multiplier: 1 << 32, Price: 1}}
	price := int64(2)
	for i := 0; i < 3; i++ {
		schedule = append(schedule, Tier{Multiplier: 1 << 32, Price: price})
		price *= 2
	}

	err := schedule.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScheduleTooDeep)
}

// Test 6: Buy order validation
func TestBuyOrder_Validate(t *testing.T) {
	valid := NewBuyOrder("user1", &emptyPredicate, 0, 4, 10)
	assert.NoError(t, valid.Validate())
	assert.Equal(t, int64(40), valid.Budget())

	t.Run("non-positive duration", func(t *testing.T) {
		buy := NewBuyOrder("user1", &emptyPredicate, 0, 0, 10)
		assert.ErrorIs(t, buy.Validate(), ErrNonPositiveDuration)
	})

	t.Run("non-positive unit price", func(t *testing.T) {
		buy := NewBuyOrder("user1", &emptyPredicate, 0, 4, 0)
		assert.ErrorIs(t, buy.Validate(), ErrNonPositiveUnitPrice)
	})

	t.Run("nil predicate", func(t *testing.T) {
		buy := NewBuyOrder("user1", nil, 0, 4, 10)
		assert.ErrorIs(t, buy.Validate(), ErrNilPredicate)
	})

	t.Run("missing order ID", func(t *testing.T) {
		buy := NewBuyOrder("user1", &emptyPredicate, 0, 4, 10)
		buy.ID = ""
		assert.ErrorIs(t, buy.Validate(), ErrMissingOrderID)
	})
}

// Test 7: Sell order window arithmetic
func TestSellOrder_Window(t *testing.T) {
	sell := &SellOrder{Start: 10, Validity: 5}

	assert.Equal(t, int64(15), sell.WindowEnd())

	assert.False(t, sell.Covers(9))
	assert.True(t, sell.Covers(10))
	assert.True(t, sell.Covers(14))
	assert.False(t, sell.Covers(15))

	assert.False(t, sell.Expired(14))
	assert.True(t, sell.Expired(15))
	assert.True(t, sell.Expired(100))
}

package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRevalueWeightedAvgCost(t *testing.T) {
	tests := []struct {
		name     string
		current  decimal.Decimal
		onHand   float64
		unitCost decimal.Decimal
		received float64
		expected decimal.Decimal
	}{
		{
			name:     "First Receipt Sets Cost",
			current:  decimal.Zero,
			onHand:   0,
			unitCost: dec("0.002"),
			received: 50000,
			expected: dec("0.002"),
		},
		{
			name:     "Equal Quantities Average",
			current:  dec("0.002"),
			onHand:   50000,
			unitCost: dec("0.004"),
			received: 50000,
			expected: dec("0.003"),
		},
		{
			name:     "Weighted Toward Larger Lot",
			current:  dec("10"),
			onHand:   300,
			unitCost: dec("20"),
			received: 100,
			expected: dec("12.5"),
		},
		{
			name:     "Nothing Received Keeps Cost",
			current:  dec("7.5"),
			onHand:   40,
			unitCost: dec("99"),
			received: 0,
			expected: dec("7.5"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := RevalueWeightedAvgCost(tt.current, tt.onHand, tt.unitCost, tt.received)
			assert.True(t, tt.expected.Equal(actual), "expected %s, got %s", tt.expected, actual)
		})
	}
}

func TestRevalueWeightedAvgCostNeverNegative(t *testing.T) {
	result := RevalueWeightedAvgCost(dec("0.5"), 10, decimal.Zero, 1000)
	assert.False(t, result.IsNegative())
}

func TestUsageUnitCost(t *testing.T) {
	cost, err := UsageUnitCost(dec("100"), 50000)
	assert.NoError(t, err)
	assert.True(t, dec("0.002").Equal(cost), "got %s", cost)

	_, err = UsageUnitCost(dec("100"), 0)
	assert.ErrorIs(t, err, ErrInvalidConversion)
}

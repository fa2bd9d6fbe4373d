package inventory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUsageUnits(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		factor   float64
		expected float64
		wantErr  bool
	}{
		{name: "One Sack Of Flour", quantity: 1, factor: 50000, expected: 50000},
		{name: "Fractional Quantity", quantity: 2.5, factor: 1000, expected: 2500},
		{name: "Zero Factor", quantity: 3, factor: 0, wantErr: true},
		{name: "Negative Factor", quantity: 3, factor: -10, wantErr: true},
		{name: "NaN Factor", quantity: 3, factor: math.NaN(), wantErr: true},
		{name: "Infinite Factor", quantity: 3, factor: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := ToUsageUnits(tt.quantity, tt.factor)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConversion)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestToBuyingUnitsRejectsInvalidFactor(t *testing.T) {
	_, err := ToBuyingUnits(100, 0)
	assert.ErrorIs(t, err, ErrInvalidConversion)
}

func TestUnitConversionRoundTrip(t *testing.T) {
	factors := []float64{1, 12, 50, 1000, 50000, 0.25}
	quantities := []float64{0, 1, 2.5, 17, 123.456}

	for _, factor := range factors {
		for _, quantity := range quantities {
			usage, err := ToUsageUnits(quantity, factor)
			assert.NoError(t, err)

			back, err := ToBuyingUnits(usage, factor)
			assert.NoError(t, err)
			assert.InDelta(t, quantity, back, 1e-9)
		}
	}
}

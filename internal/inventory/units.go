package inventory

import (
	"errors"
	"math"
)

// ErrInvalidConversion is returned for a conversion factor that is zero,
// negative or not finite. Unit math never proceeds with such a factor.
var ErrInvalidConversion = errors.New("conversion factor must be a positive finite number")

func validFactor(factor float64) bool {
	return factor > 0 && !math.IsInf(factor, 0) && !math.IsNaN(factor)
}

// ToUsageUnits converts a buying-unit quantity (e.g. sacks) into usage
// units (e.g. grams). Exact multiplication; rounding is the caller's call.
func ToUsageUnits(buyingQuantity, conversionFactor float64) (float64, error) {
	if !validFactor(conversionFactor) {
		return 0, ErrInvalidConversion
	}
	return buyingQuantity * conversionFactor, nil
}

// ToBuyingUnits is the inverse of ToUsageUnits.
func ToBuyingUnits(usageQuantity, conversionFactor float64) (float64, error) {
	if !validFactor(conversionFactor) {
		return 0, ErrInvalidConversion
	}
	return usageQuantity / conversionFactor, nil
}

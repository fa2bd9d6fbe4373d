package inventory

import (
	"github.com/shopspring/decimal"
)

// RevalueWeightedAvgCost recomputes the moving weighted-average cost per
// usage unit after a stock receipt.
//
//	wac' = (wac * onHand + unitCost * received) / (onHand + received)
//
// currentWAC and the result are per usage unit; onHand and received are
// usage quantities. The first receipt (onHand <= 0) sets wac to the unit
// cost of the receipt. The result is never negative for non-negative
// inputs.
func RevalueWeightedAvgCost(currentWAC decimal.Decimal, onHand float64, unitCost decimal.Decimal, received float64) decimal.Decimal {
	if received <= 0 {
		return currentWAC
	}
	if onHand <= 0 {
		return unitCost
	}

	onHandDec := decimal.NewFromFloat(onHand)
	receivedDec := decimal.NewFromFloat(received)

	existingValue := currentWAC.Mul(onHandDec)
	receivedValue := unitCost.Mul(receivedDec)

	return existingValue.Add(receivedValue).Div(onHandDec.Add(receivedDec))
}

// UsageUnitCost converts a buying-unit purchase price into a cost per
// usage unit using the item's conversion factor.
func UsageUnitCost(purchasePrice decimal.Decimal, conversionFactor float64) (decimal.Decimal, error) {
	if !validFactor(conversionFactor) {
		return decimal.Zero, ErrInvalidConversion
	}
	return purchasePrice.Div(decimal.NewFromFloat(conversionFactor)), nil
}

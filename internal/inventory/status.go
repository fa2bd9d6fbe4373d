package inventory

import "fmt"

// StockStatus buckets an item's aggregated usage quantity.
type StockStatus string

const (
	StatusCritical  StockStatus = "CRITICAL"
	StatusLow       StockStatus = "LOW"
	StatusGood      StockStatus = "GOOD"
	StatusOverstock StockStatus = "OVERSTOCK"
)

func NewStockStatus(value string) (StockStatus, error) {
	status := StockStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid stock status: %s", value)
	}
	return status, nil
}

func (s StockStatus) isValid() bool {
	switch s {
	case StatusCritical, StatusLow, StatusGood, StatusOverstock:
		return true
	default:
		return false
	}
}

// Classify maps a total usage quantity onto a StockStatus. The partition of
// the non-negative reals is gapless and monotonic:
//
//	quantity <= critical_max            -> CRITICAL
//	critical_max < quantity <= low_max  -> LOW
//	quantity >= overstock_min           -> OVERSTOCK
//	otherwise                           -> GOOD
func Classify(quantity float64, thresholds Thresholds) StockStatus {
	switch {
	case quantity <= thresholds.CriticalMax:
		return StatusCritical
	case quantity <= thresholds.LowMax:
		return StatusLow
	case quantity >= thresholds.OverstockMin:
		return StatusOverstock
	default:
		return StatusGood
	}
}

// Thresholds are the classification boundaries, sourced from config.
// CriticalMax < LowMax <= OverstockMin.
type Thresholds struct {
	CriticalMax  float64
	LowMax       float64
	OverstockMin float64
}

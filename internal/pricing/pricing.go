package pricing

import (
	"time"

	"parkezy/internal/models"
)

// Fixed pricing policy. Tax is expressed in basis points so all cost math
// stays in integer paise.
const (
	TaxRateBps int64 = 1800 // 18% GST

	bpsDenom          int64 = 10000
	secondsPerHour    int64 = 3600
	OverstayBlock           = 15 * time.Minute
	OverstayBlockFee        = models.Amount(2000) // ₹20 per started block
)

// RunningCost returns the tax-inclusive cost of parking for the elapsed
// duration at the given hourly rate. Sub-second precision is truncated.
func RunningCost(hourlyRate models.Amount, elapsed time.Duration, taxBps int64) models.Amount {
	if hourlyRate <= 0 || elapsed <= 0 {
		return 0
	}
	secs := int64(elapsed / time.Second)
	total := int64(hourlyRate) * secs * (bpsDenom + taxBps)
	return models.Amount(total / (secondsPerHour * bpsDenom))
}

// OverstayFee charges a flat fee per 15-minute block of overstay, rounding
// partial blocks up.
func OverstayFee(over time.Duration) models.Amount {
	if over <= 0 {
		return 0
	}
	blocks := (int64(over) + int64(OverstayBlock) - 1) / int64(OverstayBlock)
	return models.Amount(blocks) * OverstayBlockFee
}

// ExtensionCost prices additional contracted time, tax included. It is the
// same formula as RunningCost applied to the added window.
func ExtensionCost(hourlyRate models.Amount, additional time.Duration, taxBps int64) models.Amount {
	return RunningCost(hourlyRate, additional, taxBps)
}

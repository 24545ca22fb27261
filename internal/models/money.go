package models

import "fmt"

// Amount is a monetary value in paise (1/100 of a rupee). Integer fixed-point
// keeps repeated cost recalculation exact; float drift across many timer
// ticks is not acceptable for a running bill.
type Amount int64

// Rupees returns the amount in whole-currency units for display.
func (a Amount) Rupees() float64 {
	return float64(a) / 100
}

// String renders the amount as "123.45".
func (a Amount) String() string {
	sign := ""
	v := a
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Package format renders numbers for display in Indian market conventions.
package format

import (
	"fmt"
	"math"
)

// Indian formats a rupee amount using crore and lakh units. NaN renders as
// "N/A".
func Indian(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", v/1e7)
	case abs >= 1e5:
		return fmt.Sprintf("₹%.2f L", v/1e5)
	case abs >= 1e3:
		return fmt.Sprintf("₹%.2f K", v/1e3)
	default:
		return fmt.Sprintf("₹%.2f", v)
	}
}

// Percent renders a ratio as a signed percentage. NaN renders as "N/A".
func Percent(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", v*100)
}

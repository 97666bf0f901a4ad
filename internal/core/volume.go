// Package core holds the FLGO domain model shared by the codec, the record
// repository and the report layer.
//
// This file contains volume parsing and display formatting. Backend field
// values are strings; volumes may use either dot or comma as the decimal
// separator depending on the sheet locale.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseVolume converts a backend volume string to a decimal. Missing or
// non-numeric values parse to zero so aggregation has a single "absent"
// representation.
func ParseVolume(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	// Locale-formatted values may carry thousand separators alongside a
	// decimal comma ("1.234,5"); strip the former before normalizing.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundVolume rounds to the nearest whole unit for display. Rounding happens
// once, on final displayed values, never on intermediate sums.
func RoundVolume(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// FormatVolume renders a rounded volume with dot thousand separators
// (1234567 -> "1.234.567"), matching the portal's display locale.
func FormatVolume(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	var b []byte
	for i := 0; ; i++ {
		if i > 0 && i%3 == 0 {
			b = append(b, '.')
		}
		b = append(b, byte('0'+v%10))
		v /= 10
		if v == 0 {
			break
		}
	}
	if neg {
		b = append(b, '-')
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

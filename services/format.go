package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatMinor formats an amount held in paise as Indian Rupees, e.g.
// 12345678 → "₹1,23,456.78".
func FormatMinor(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	rupees := fmt.Sprintf("%d", paise/100)
	return fmt.Sprintf("%s₹%s.%02d", sign, applyIndianGrouping(rupees), paise%100)
}

// FormatPercentBP renders a basis-point rate as a percentage ("10.0%").
func FormatPercentBP(bp int64) string {
	return fmt.Sprintf("%.1f%%", float64(bp)/100)
}

// FormatQty prints whole quantities without decimals and fractional ones with two.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	groups := []string{s[n-3:]}
	rest := s[:n-3]
	for len(rest) > 2 {
		groups = append([]string{rest[len(rest)-2:]}, groups...)
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		groups = append([]string{rest}, groups...)
	}
	return strings.Join(groups, ",")
}

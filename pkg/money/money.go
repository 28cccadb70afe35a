// Package money formats smallest-unit integer amounts for display.
// The storefront shows whole Birr with no fraction digits.
package money

import "strconv"

// Label is the display currency label.
const Label = "Birr"

// Format renders an amount with thousands separators and the currency
// label, e.g. 1250 -> "1,250 Birr".
func Format(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3+6)
	if neg {
		out = append(out, '-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		out = append(out, digits[:lead]...)
	}
	for i := lead; i < len(digits); i += 3 {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i:i+3]...)
	}
	out = append(out, ' ')
	out = append(out, Label...)
	return string(out)
}

// FormatDelivery renders a delivery fee, using "FREE" for zero the way the
// cart and checkout totals rows do.
func FormatDelivery(fee int64) string {
	if fee == 0 {
		return "FREE"
	}
	return Format(fee)
}

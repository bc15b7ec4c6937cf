package financials

import (
	"fmt"
	"math"
	"strings"
)

// FormatCrore renders a value using the Indian-currency convention of the
// source spreadsheets. Values at or above one lakh are already expressed in
// hundred-thousands, so they are divided by 100 and printed as whole crore;
// everything else is printed directly as crore with two decimals and
// thousands separators. The rule is tied to the source data's units and must
// stay exact for numeric fidelity.
func FormatCrore(v *float64) string {
	if v == nil {
		return "N/A"
	}
	if math.Abs(*v) >= 100000 {
		return fmt.Sprintf("₹%.0f crore", *v/100)
	}
	return fmt.Sprintf("₹%s crore", withThousands(fmt.Sprintf("%.2f", *v)))
}

// PctChange renders the percentage change between two values as
// "up 12.3%" / "down 4.5%". Returns "" when the prior value is absent or
// zero, so callers can simply skip the line.
func PctChange(newVal, oldVal *float64) string {
	if newVal == nil || oldVal == nil || *oldVal == 0 {
		return ""
	}
	change := (*newVal - *oldVal) / math.Abs(*oldVal) * 100
	direction := "up"
	if change < 0 {
		direction = "down"
	}
	return fmt.Sprintf("%s %.1f%%", direction, math.Abs(change))
}

// withThousands inserts comma separators into the integer part of a
// formatted decimal number.
func withThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot:]
	}

	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	out := intPart + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

package utils

import "fmt"

// FormatCents renders an integer-cents amount as a dollar string with two
// decimal places, e.g. 1250 -> "$12.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

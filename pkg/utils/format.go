package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Display formats used across the tracking views, notifications and the
// CSV export.
const (
	DateTimeLayout = "02.01.2006 15:04"
	DateLayout     = "02.01.2006"
)

// FormatDateTime renders dd.mm.yyyy HH:MM, or "" for a nil time.
func FormatDateTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// FormatDate renders dd.mm.yyyy, or "" for a nil time.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatPrice renders a price as a whole number; a missing price renders
// as "0" (the export contract).
func FormatPrice(p *float64) string {
	if p == nil {
		return "0"
	}
	return fmt.Sprintf("%.0f", *p)
}

// FormatPhone normalizes a raw phone string into the standard Kazakhstan
// display form +7 (XXX) XXX-XX-XX. Inputs it cannot interpret are returned
// unchanged.
func FormatPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 10 {
		digits = "7" + digits
	}
	if len(digits) == 11 && (digits[0] == '7' || digits[0] == '8') {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", digits[1:4], digits[4:7], digits[7:9], digits[9:11])
	}
	return phone
}

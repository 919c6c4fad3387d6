// Package normalizer provides the per-entity cleansing rules for the
// raw extracts: field repair, missing-value imputation, and deduplication.
package normalizer

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var nonDigitPattern = regexp.MustCompile(`\D`)

// NormalizePhone maps a free-form phone field to the canonical
// +91-XXXXXXXXXX form. Unrecognizable values yield nil, which is a normal
// data-quality condition rather than an error.
func NormalizePhone(raw string) *string {
	digits := nonDigitPattern.ReplaceAllString(raw, "")

	switch {
	case len(digits) == 10:
		v := "+91-" + digits
		return &v
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		v := "+91-" + digits[2:]
		return &v
	default:
		return nil
	}
}

// dateLayouts are tried in order. The upstream extracts mix several date
// conventions, so parsing is deliberately lenient.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a calendar date leniently. Unparsable values yield nil;
// only parse failures are treated as missing, nothing else is masked.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	return nil
}

// ParseDecimal coerces a numeric field. The second return reports whether
// the field held a usable number; blank and malformed both mean missing.
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// Median returns the median of the given values, averaging the middle pair
// for even counts. An empty input yields zero.
func Median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return decimal.Avg(sorted[mid-1], sorted[mid])
}

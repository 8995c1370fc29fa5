// ABOUTME: Utility functions for parsing integers from upstream display strings
// ABOUTME: Understands Indonesian thousand separators and rb/jt abbreviations

package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// IntOrZero safely parses an integer from a string, returning 0 if parsing fails
func IntOrZero(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

var countPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)*)\s*(rb|ribu|k|jt|juta)?`)

// Count extracts a count from labels such as "1,2rb+ terjual", "250+ sold",
// "(1.234)" or "3jt". Returns 0 when no number is present.
func Count(s string) int {
	m := countPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0
	}

	number, suffix := m[1], m[2]
	if suffix == "" {
		// Without a multiplier both '.' and ',' are thousand separators
		digits := strings.NewReplacer(".", "", ",", "").Replace(number)
		return IntOrZero(digits)
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
	if err != nil {
		return 0
	}
	switch suffix {
	case "rb", "ribu", "k":
		v *= 1_000
	case "jt", "juta":
		v *= 1_000_000
	}
	return int(math.Round(v))
}

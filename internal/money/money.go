package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a cash amount entered at the register. Operators type
// amounts with either a comma or a dot decimal separator depending on the
// keyboard layout, so both are accepted. Negative and non-finite amounts are
// rejected: ParseFloat accepts "NaN" and "Inf" spellings, and a NaN drawer
// amount would poison every total derived from it.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return v, nil
}

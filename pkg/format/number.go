package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/number"

	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
)

const maxFractionDigits = 2

// numericPrefix matches the longest leading decimal literal, the way
// parseFloat reads "12px" as 12 and "abc" as nothing.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads value as a float. Strings are read leniently from their
// leading numeric prefix. Booleans, empty values, infinities and non-numeric
// strings are not numbers.
func ParseNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case jsonpool.Number:
		return parseNumericPrefix(string(v))
	case string:
		return parseNumericPrefix(v)
	default:
		return 0, false
	}
}

func parseNumericPrefix(s string) (float64, bool) {
	m := numericPrefix.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// formatNumber groups digits for the locale. Integers get no decimals, other
// values at most two.
func (f *Formatter) formatNumber(value interface{}) Value {
	n, ok := ParseNumber(value)
	if !ok {
		return raw(value)
	}
	return display(f.FormatFloat(n))
}

// FormatFloat renders n with locale grouping and zero to two fraction digits.
func (f *Formatter) FormatFloat(n float64) string {
	if n == math.Trunc(n) {
		return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(0)))
	}
	return f.printer.Sprint(number.Decimal(roundHalfAway(n, maxFractionDigits), number.MaxFractionDigits(maxFractionDigits)))
}

// roundHalfAway rounds the shortest decimal form of n to places digits,
// with ties going away from zero. Rounding the decimal string rather than the
// binary value keeps 1.005 at 1.01.
func roundHalfAway(n float64, places int) float64 {
	s := strconv.FormatFloat(math.Abs(n), 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= places {
		return n
	}

	kept, err := strconv.ParseFloat(s[:dot+1+places], 64)
	if err != nil {
		return n
	}
	if s[dot+1+places] >= '5' {
		kept += math.Pow10(-places)
		// re-read at the target precision to drop the addition's binary noise
		kept, _ = strconv.ParseFloat(strconv.FormatFloat(kept, 'f', places, 64), 64)
	}
	return math.Copysign(kept, n)
}

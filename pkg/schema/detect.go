package schema

import (
	"regexp"
	"strings"
	"time"

	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

// DateLayout is the only layout recognized as a date during classification.
const DateLayout = "2006-01-02"

var (
	urlPattern     = regexp.MustCompile(`(?i)^https?://.+`)
	booleanPattern = regexp.MustCompile(`(?i)^(true|false|yes|no|1|0)$`)
	numberPattern  = regexp.MustCompile(`^-?\d+\.?\d*$`)
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// CellText returns the string form of a raw cell value. Nested maps and
// slices produced by the loaders are rendered as compact JSON so that scraped
// entities classify and display as JSON documents.
func CellText(value interface{}) string {
	switch v := value.(type) {
	case map[string]interface{}, []interface{}:
		data, err := jsonpool.Marshal(v)
		if err != nil {
			return stringpool.ValueToString(value)
		}
		return string(data)
	default:
		return stringpool.ValueToString(value)
	}
}

// DetectValueType classifies a single raw value. nil and "" are text.
//
// Checks run in a fixed order and the first match wins: URL, boolean, number,
// date, JSON. "1" is therefore a boolean and "123" a number, never a date.
func DetectValueType(value interface{}) SemanticType {
	if stringpool.IsEmpty(value) {
		return TypeText
	}

	s := strings.TrimSpace(CellText(value))

	switch {
	case urlPattern.MatchString(s):
		return TypeURL
	case booleanPattern.MatchString(s):
		return TypeBoolean
	case numberPattern.MatchString(s):
		return TypeNumber
	case isDate(s):
		return TypeDate
	case isJSONDocument(s):
		return TypeJSON
	default:
		return TypeText
	}
}

// isDate requires the YYYY-MM-DD shape and a real calendar day.
func isDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// isJSONDocument requires matching outer braces or brackets and a valid parse.
func isJSONDocument(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	if !(first == '{' && last == '}') && !(first == '[' && last == ']') {
		return false
	}
	return jsonpool.Valid([]byte(s))
}

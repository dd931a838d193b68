package format

import (
	"strings"

	"golang.org/x/text/collate"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

// Comparator orders two raw cell values. It returns a negative number when a
// sorts before b, zero when they are equal and a positive number otherwise.
// Every comparator is a total order and puts nil and "" first.
type Comparator func(a, b interface{}) int

// compareEmpty orders empty values first. decided is false when neither is empty.
func compareEmpty(a, b interface{}) (result int, decided bool) {
	ea, eb := stringpool.IsEmpty(a), stringpool.IsEmpty(b)
	switch {
	case ea && eb:
		return 0, true
	case ea:
		return -1, true
	case eb:
		return 1, true
	default:
		return 0, false
	}
}

// Text compares values as strings using the default locale's collation.
func Text(a, b interface{}) int { return Default().CompareText(a, b) }

// Number compares values as numbers. Values that are not numbers sort first.
func Number(a, b interface{}) int { return Default().CompareNumber(a, b) }

// Date compares values as points in time. Values that are not dates sort first.
func Date(a, b interface{}) int { return Default().CompareDate(a, b) }

// Boolean compares values as booleans with false before true.
func Boolean(a, b interface{}) int { return Default().CompareBoolean(a, b) }

// ComparatorFor returns the default comparator for typ. URL, JSON and unknown
// types compare as text.
func ComparatorFor(typ schema.SemanticType) Comparator {
	return Default().ComparatorFor(typ)
}

// ComparatorFor returns the formatter's comparator for typ.
func (f *Formatter) ComparatorFor(typ schema.SemanticType) Comparator {
	switch typ {
	case schema.TypeNumber:
		return f.CompareNumber
	case schema.TypeDate:
		return f.CompareDate
	case schema.TypeBoolean:
		return f.CompareBoolean
	default:
		return f.CompareText
	}
}

// CompareText compares the string forms of a and b with the formatter's collation.
func (f *Formatter) CompareText(a, b interface{}) int {
	if r, ok := compareEmpty(a, b); ok {
		return r
	}
	c := f.collators.Get().(*collate.Collator)
	defer f.collators.Put(c)
	return c.CompareString(schema.CellText(a), schema.CellText(b))
}

// CompareNumber compares a and b as numbers.
func (f *Formatter) CompareNumber(a, b interface{}) int {
	na, aok := ParseNumber(a)
	nb, bok := ParseNumber(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

// CompareDate compares a and b by millisecond timestamp.
func (f *Formatter) CompareDate(a, b interface{}) int {
	if r, ok := compareEmpty(a, b); ok {
		return r
	}
	ta, aok := f.ParseDate(a)
	tb, bok := f.ParseDate(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	ma, mb := ta.UnixMilli(), tb.UnixMilli()
	switch {
	case ma < mb:
		return -1
	case ma > mb:
		return 1
	default:
		return 0
	}
}

// CompareBoolean compares a and b as booleans.
func (f *Formatter) CompareBoolean(a, b interface{}) int {
	if r, ok := compareEmpty(a, b); ok {
		return r
	}
	ba, bb := ToBool(a), ToBool(b)
	switch {
	case ba == bb:
		return 0
	case ba:
		return 1
	default:
		return -1
	}
}

// ToBool coerces a raw value: false, "false", "no", "0", blank strings and
// zero numbers are false; any other non-empty value is true.
func ToBool(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "false", "no", "0":
			return false
		}
		return true
	}
	if n, ok := ParseNumber(value); ok {
		return n != 0
	}
	return true
}

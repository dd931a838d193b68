// Package format turns raw cell values into display values and orders them.
//
// Formatting never fails. A value that cannot be read as its column type is
// returned unchanged so callers can always render the result, and nil or ""
// format to "" for every type. Display values are separate from the raw values
// they were computed from; nothing here modifies its input.
package format

import (
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

const (
	// TextLimit is the longest text shown in full
	TextLimit = 100
	// URLLimit is the longest URL shown in full in FullDisplay
	URLLimit = 50
)

// URLValue is the display form of a link.
type URLValue struct {
	URL         string `json:"url"`
	Display     string `json:"display"`
	FullDisplay string `json:"fullDisplay"`
}

// Value is the result of formatting one cell. It holds a display string, a
// bool, a URLValue, or the raw value when the cell could not be read as its
// column type.
type Value struct {
	v        interface{}
	degraded bool
}

func display(v interface{}) Value { return Value{v: v} }

func raw(v interface{}) Value { return Value{v: v, degraded: true} }

// Interface returns the underlying display value.
func (v Value) Interface() interface{} { return v.v }

// Degraded reports whether the raw value was returned unchanged.
func (v Value) Degraded() bool { return v.degraded }

// URL returns the link form, if this is a formatted URL.
func (v Value) URL() (URLValue, bool) {
	u, ok := v.v.(URLValue)
	return u, ok
}

// Bool returns the boolean form, if this is a formatted boolean.
func (v Value) Bool() (bool, bool) {
	if v.degraded {
		return false, false
	}
	b, ok := v.v.(bool)
	return b, ok
}

// String renders the value as plain text. Links render as their host.
func (v Value) String() string {
	switch x := v.v.(type) {
	case string:
		return x
	case URLValue:
		return x.Display
	default:
		return schema.CellText(x)
	}
}

// MarshalJSON encodes the underlying display value.
func (v Value) MarshalJSON() ([]byte, error) {
	return jsonpool.Marshal(v.v)
}

// Formatter formats and compares values for one locale, time zone and clock.
// A Formatter is safe for concurrent use.
type Formatter struct {
	tag       language.Tag
	loc       *time.Location
	now       func() time.Time
	printer   *message.Printer
	dates     *dateStyle
	collators *sync.Pool
}

// Option configures a Formatter
type Option func(*Formatter)

// WithLocale sets the locale used for number grouping, date layouts and collation.
func WithLocale(tag language.Tag) Option {
	return func(f *Formatter) {
		f.tag = tag
	}
}

// WithLocation sets the zone that "today" and date-only values are read in.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		if now != nil {
			f.now = now
		}
	}
}

// New creates a Formatter. The defaults are en-US, time.Local and time.Now.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		tag: language.AmericanEnglish,
		loc: time.Local,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.printer = message.NewPrinter(f.tag)
	f.dates = dateStyleFor(f.tag)
	tag := f.tag
	f.collators = &sync.Pool{
		New: func() interface{} {
			return collate.New(tag)
		},
	}
	return f
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Location returns the formatter's time zone.
func (f *Formatter) Location() *time.Location { return f.loc }

var (
	defaultOnce      sync.Once
	defaultFormatter *Formatter
)

// Default returns the shared en-US formatter in the local zone.
func Default() *Formatter {
	defaultOnce.Do(func() {
		defaultFormatter = New()
	})
	return defaultFormatter
}

// FormatValue formats value as typ with the default formatter.
func FormatValue(value interface{}, typ schema.SemanticType) Value {
	return Default().FormatValue(value, typ)
}

// FormatValue formats value as typ. Unknown types format as text.
func (f *Formatter) FormatValue(value interface{}, typ schema.SemanticType) Value {
	if stringpool.IsEmpty(value) {
		return display("")
	}

	switch typ {
	case schema.TypeNumber:
		return f.formatNumber(value)
	case schema.TypeDate:
		return f.formatDate(value)
	case schema.TypeURL:
		return formatURL(value)
	case schema.TypeBoolean:
		return formatBoolean(value)
	case schema.TypeJSON:
		return formatJSON(value)
	default:
		return formatText(value)
	}
}

// formatText stringifies value and shortens it past TextLimit characters.
func formatText(value interface{}) Value {
	return display(stringpool.Truncate(schema.CellText(value), TextLimit, TextLimit-len(stringpool.Ellipsis)))
}

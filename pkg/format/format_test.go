package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

// Saturday 15 June 2024, mid-afternoon UTC
var fixedNow = time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

func newTestFormatter(tag language.Tag) *Formatter {
	return New(
		WithLocale(tag),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestFormatValueEmptyForEveryType(t *testing.T) {
	f := newTestFormatter(language.AmericanEnglish)
	for _, typ := range append(schema.AllTypes(), schema.SemanticType(99)) {
		for _, empty := range []interface{}{nil, ""} {
			got := f.FormatValue(empty, typ)
			assert.Equal(t, "", got.Interface(), "type %s value %#v", typ, empty)
			assert.False(t, got.Degraded())
		}
	}
}

func TestFormatNumber(t *testing.T) {
	us := newTestFormatter(language.AmericanEnglish)
	de := newTestFormatter(language.German)

	tests := []struct {
		name     string
		f        *Formatter
		value    interface{}
		expected string
	}{
		{"integer string", us, "1234567", "1,234,567"},
		{"integer float", us, float64(1500), "1,500"},
		{"int", us, 42, "42"},
		{"negative", us, "-9876", "-9,876"},
		{"two decimals", us, "1234.567", "1,234.57"},
		{"one decimal", us, 2.5, "2.5"},
		{"rounding noise", us, 0.1 + 0.2, "0.3"},
		{"half away from zero", us, 1.005, "1.01"},
		{"rounds up to integer", us, 2.999, "3"},
		{"lenient prefix", us, "12px", "12"},
		{"leading whitespace", us, "  7.25", "7.25"},
		{"german grouping", de, 1234567.891, "1.234.567,89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f.FormatValue(tt.value, schema.TypeNumber)
			assert.False(t, got.Degraded())
			assert.Equal(t, tt.expected, got.Interface())
		})
	}
}

func TestFormatNumberUnparsableIsRaw(t *testing.T) {
	f := newTestFormatter(language.AmericanEnglish)
	for _, v := range []interface{}{"abc", true, "Infinity", map[string]interface{}{"a": 1}} {
		got := f.FormatValue(v, schema.TypeNumber)
		assert.True(t, got.Degraded(), "%#v", v)
		assert.Equal(t, v, got.Interface())
	}
}

func TestFormatDateBuckets(t *testing.T) {
	us := newTestFormatter(language.AmericanEnglish)
	startOfToday := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"today", "2024-06-15", "Today"},
		{"future", "2024-07-01", "Today"},
		{"start of today", startOfToday, "Today"},
		{"just before today", startOfToday.Add(-time.Millisecond), "Yesterday"},
		{"yesterday", "2024-06-14", "Yesterday"},
		{"yesterday late utc", "2024-06-14T23:59:59Z", "Yesterday"},
		{"offset", "2024-06-13T10:00:00+02:00", "Thu, Jun 13"},
		{"five days", "2024-06-10", "Mon, Jun 10"},
		{"six days", "2024-06-09 08:15:00", "Sun, Jun 9"},
		{"seven days", "2024-06-08", "Jun 8, 2024"},
		{"364 days", "2023-06-17", "Jun 17, 2023"},
		{"365 days", "2023-06-16", "6/16/2023"},
		{"old", "2020-01-05", "1/5/2020"},
		{"unix millis", float64(time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC).UnixMilli()), "Today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := us.FormatValue(tt.value, schema.TypeDate)
			assert.False(t, got.Degraded())
			assert.Equal(t, tt.expected, got.Interface())
		})
	}
}

func TestFormatDateLocales(t *testing.T) {
	gb := newTestFormatter(language.BritishEnglish)
	de := newTestFormatter(language.MustParse("de-DE"))

	assert.Equal(t, "Mon 10 Jun", gb.FormatValue("2024-06-10", schema.TypeDate).Interface())
	assert.Equal(t, "1 Mar 2024", gb.FormatValue("2024-03-01", schema.TypeDate).Interface())
	assert.Equal(t, "30 Sept 2023", gb.FormatValue("2023-09-30", schema.TypeDate).Interface())
	assert.Equal(t, "05/01/2020", gb.FormatValue("2020-01-05", schema.TypeDate).Interface())

	assert.Equal(t, "Mo., 10. Juni", de.FormatValue("2024-06-10", schema.TypeDate).Interface())
	assert.Equal(t, "1. März 2024", de.FormatValue("2024-03-01", schema.TypeDate).Interface())
	assert.Equal(t, "5.1.2020", de.FormatValue("2020-01-05", schema.TypeDate).Interface())

	// locales without their own layouts use the US ones
	fr := newTestFormatter(language.French)
	assert.Equal(t, "1/5/2020", fr.FormatValue("2020-01-05", schema.TypeDate).Interface())
}

func TestFormatDateInLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:30 UTC on the 15th is already the 16th in Tokyo
	f := New(WithLocation(tokyo), WithClock(func() time.Time {
		return time.Date(2024, time.June, 15, 23, 30, 0, 0, time.UTC)
	}))
	assert.Equal(t, "Yesterday", f.FormatValue("2024-06-15", schema.TypeDate).Interface())
	assert.Equal(t, "Today", f.FormatValue("2024-06-16", schema.TypeDate).Interface())
}

func TestFormatDateUnparsableIsRaw(t *testing.T) {
	f := newTestFormatter(language.AmericanEnglish)
	for _, v := range []interface{}{"soon", "2023-13-45", true} {
		got := f.FormatValue(v, schema.TypeDate)
		assert.True(t, got.Degraded(), "%#v", v)
		assert.Equal(t, v, got.Interface())
	}
}

func TestFormatURL(t *testing.T) {
	got := FormatValue("https://www.example.com/path", schema.TypeURL)
	u, ok := got.URL()
	require.True(t, ok)
	assert.Equal(t, URLValue{
		URL:         "https://www.example.com/path",
		Display:     "example.com",
		FullDisplay: "https://www.example.com/path",
	}, u)
	assert.Equal(t, "example.com", got.String())

	long := "https://www.instagram.com/p/" + strings.Repeat("x", 40)
	u, ok = FormatValue(long, schema.TypeURL).URL()
	require.True(t, ok)
	assert.Len(t, u.FullDisplay, 50)
	assert.Equal(t, long[:47]+"...", u.FullDisplay)
	assert.Equal(t, long, u.URL)

	exact := "https://example.com/" + strings.Repeat("y", 30)
	u, _ = FormatValue(exact, schema.TypeURL).URL()
	assert.Equal(t, exact, u.FullDisplay)
}

func TestFormatURLHosts(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"https://WWW.Example.COM", "example.com"},
		{"https://mail.www.example.com/", "mail.www.example.com"},
		{"http://localhost:8080/runs/1", "localhost"},
		{"https://bücher.example/x", "xn--bcher-kva.example"},
		{"http://127.0.0.1/a", "127.0.0.1"},
	}
	for _, tt := range tests {
		u, ok := FormatValue(tt.in, schema.TypeURL).URL()
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.expected, u.Display, tt.in)
	}
}

func TestFormatURLUnparsableIsRaw(t *testing.T) {
	for _, v := range []interface{}{"not a url", "http://", "://missing-scheme", 42} {
		got := FormatValue(v, schema.TypeURL)
		assert.True(t, got.Degraded(), "%#v", v)
		assert.Equal(t, v, got.Interface())
	}
}

func TestFormatBoolean(t *testing.T) {
	tests := []struct {
		value    interface{}
		expected bool
	}{
		{"true", true},
		{"Yes", true},
		{"1", true},
		{1, true},
		{true, true},
		{"FALSE", false},
		{" no ", false},
		{"0", false},
		{false, false},
	}
	for _, tt := range tests {
		got, ok := FormatValue(tt.value, schema.TypeBoolean).Bool()
		require.True(t, ok, "%#v", tt.value)
		assert.Equal(t, tt.expected, got, "%#v", tt.value)
	}

	ambiguous := FormatValue("maybe", schema.TypeBoolean)
	assert.True(t, ambiguous.Degraded())
	assert.Equal(t, "maybe", ambiguous.Interface())
	_, ok := ambiguous.Bool()
	assert.False(t, ok)
}

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"small object", `{"a": 1, "b": "x"}`, "a: 1, b: x"},
		{"source key order", `{"zeta": true, "alpha": 2.50}`, "zeta: true, alpha: 2.5"},
		{"index keys first", `{"b": 2, "1": "one", "0": "zero"}`, "0: zero, 1: one, b: 2"},
		{"nested values", `{"user": {"id": 1}, "tags": ["a", null, "b"], "n": null}`, "user: [object Object], tags: a,,b, n: null"},
		{"array", `["x", "y"]`, "0: x, 1: y"},
		{"empty object", `{}`, ""},
		{"large object", `{"a":1,"b":2,"c":3,"d":4}`, "{4 properties}"},
		{"large array", `[1,2,3,4,5]`, "{5 properties}"},
		{"duplicate key", `{"a": 1, "a": 2}`, "a: 2"},
		{"decoded map", map[string]interface{}{"likes": 3}, "likes: 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatValue(tt.value, schema.TypeJSON)
			assert.False(t, got.Degraded())
			assert.Equal(t, tt.expected, got.Interface())
		})
	}
}

func TestFormatJSONInvalidIsRaw(t *testing.T) {
	for _, v := range []interface{}{`{"a": }`, `{"a": 1} extra`, "42", `"quoted"`, "plain"} {
		got := FormatValue(v, schema.TypeJSON)
		assert.True(t, got.Degraded(), "%#v", v)
		assert.Equal(t, v, got.Interface())
	}
}

func TestFormatText(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := FormatValue(long, schema.TypeText).Interface().(string)
	assert.Len(t, got, 100)
	assert.Equal(t, strings.Repeat("a", 97)+"...", got)

	exact := strings.Repeat("b", 100)
	assert.Equal(t, exact, FormatValue(exact, schema.TypeText).Interface())

	assert.Equal(t, "42", FormatValue(42, schema.TypeText).Interface())
	assert.Equal(t, `{"k":"v"}`, FormatValue(map[string]interface{}{"k": "v"}, schema.TypeText).Interface())

	// unknown types format as text
	assert.Equal(t, "hello", FormatValue("hello", schema.SemanticType(-1)).Interface())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "true", FormatValue("yes", schema.TypeBoolean).String())
	assert.Equal(t, "maybe", FormatValue("maybe", schema.TypeBoolean).String())
	assert.Equal(t, "1,000", FormatValue(1000, schema.TypeNumber).String())
	assert.Equal(t, "", FormatValue(nil, schema.TypeURL).String())
}

func TestFormatDoesNotMutateInput(t *testing.T) {
	in := map[string]interface{}{"k": []interface{}{"a"}}
	FormatValue(in, schema.TypeJSON)
	FormatValue(in, schema.TypeText)
	assert.Equal(t, map[string]interface{}{"k": []interface{}{"a"}}, in)
}

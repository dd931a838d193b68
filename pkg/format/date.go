package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
)

const (
	// Today is shown for dates on or after the start of the current day
	Today = "Today"
	// Yesterday is shown for dates during the previous day
	Yesterday = "Yesterday"
)

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700",
	time.RFC1123Z,
	time.RFC1123,
}

// localLayouts are read in the formatter's location.
var localLayouts = []string{
	schema.DateLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"1/2/2006",
}

// ParseDate reads value as a point in time using the default formatter's zone.
func ParseDate(value interface{}) (time.Time, bool) {
	return Default().ParseDate(value)
}

// ParseDate reads value as a point in time. Strings are tried against ISO 8601,
// SQL and a few written layouts; values without an offset are read in the
// formatter's location. Numbers are milliseconds since the Unix epoch.
func (f *Formatter) ParseDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		return f.parseDateString(v)
	case bool:
		return time.Time{}, false
	}

	ms, ok := ParseNumber(value)
	if !ok || math.Abs(ms) > 8.64e15 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(f.loc), true
}

func (f *Formatter) parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate buckets value by age: Today, Yesterday, a weekday within the
// last week, month and day within the last year, else the numeric date.
func (f *Formatter) formatDate(value interface{}) Value {
	t, ok := f.ParseDate(value)
	if !ok {
		return raw(value)
	}
	return display(f.FormatTime(t))
}

// FormatTime renders t relative to the formatter's clock.
func (f *Formatter) FormatTime(t time.Time) string {
	now := f.now().In(f.loc)
	t = t.In(f.loc)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, f.loc)
	yesterday := today.AddDate(0, 0, -1)

	switch {
	case !t.Before(today):
		return Today
	case !t.Before(yesterday):
		return Yesterday
	}

	age := calendarDays(t, now)
	switch {
	case age < 7:
		return f.dates.render(f.dates.recent, t)
	case age < 365:
		return f.dates.render(f.dates.thisYear, t)
	default:
		return f.dates.render(f.dates.numeric, t)
	}
}

// calendarDays counts whole days between the calendar dates of from and to.
// Dates are compared at UTC midnight so DST transitions do not shorten a day.
func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// dateStyle holds the short names and patterns of one locale. Patterns use
// {wd} weekday, {mon} month name, {d}/{dd} day, {m}/{mm} month number and {yyyy}.
type dateStyle struct {
	weekdays [7]string
	months   [12]string
	recent   string
	thisYear string
	numeric  string
}

var (
	usDates = &dateStyle{
		weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		months:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		recent:   "{wd}, {mon} {d}",
		thisYear: "{mon} {d}, {yyyy}",
		numeric:  "{m}/{d}/{yyyy}",
	}
	gbDates = &dateStyle{
		weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		months:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sept", "Oct", "Nov", "Dec"},
		recent:   "{wd} {d} {mon}",
		thisYear: "{d} {mon} {yyyy}",
		numeric:  "{dd}/{mm}/{yyyy}",
	}
	deDates = &dateStyle{
		weekdays: [7]string{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."},
		months:   [12]string{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
		recent:   "{wd}, {d}. {mon}",
		thisYear: "{d}. {mon} {yyyy}",
		numeric:  "{d}.{m}.{yyyy}",
	}

	dateMatcher = language.NewMatcher([]language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
	})
	dateStyles = []*dateStyle{usDates, gbDates, deDates}
)

func dateStyleFor(tag language.Tag) *dateStyle {
	_, index, confidence := dateMatcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(dateStyles) {
		return usDates
	}
	return dateStyles[index]
}

func (s *dateStyle) render(pattern string, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			b.WriteByte(pattern[i])
			continue
		}
		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			b.WriteString(pattern[i:])
			break
		}
		switch pattern[i+1 : i+end] {
		case "wd":
			b.WriteString(s.weekdays[t.Weekday()])
		case "mon":
			b.WriteString(s.months[t.Month()-1])
		case "d":
			b.WriteString(strconv.Itoa(t.Day()))
		case "dd":
			b.WriteString(twoDigits(t.Day()))
		case "m":
			b.WriteString(strconv.Itoa(int(t.Month())))
		case "mm":
			b.WriteString(twoDigits(int(t.Month())))
		case "yyyy":
			b.WriteString(strconv.Itoa(t.Year()))
		}
		i += end
	}
	return b.String()
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

package format

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

// formatURL splits a link into its host for display and a shortened full form.
// Only strings that parse as absolute URLs with a valid host are formatted.
func formatURL(value interface{}) Value {
	s, ok := value.(string)
	if !ok {
		return raw(value)
	}
	host, ok := Hostname(s)
	if !ok {
		return raw(value)
	}

	return display(URLValue{
		URL:         s,
		Display:     strings.TrimPrefix(host, "www."),
		FullDisplay: stringpool.Truncate(s, URLLimit, URLLimit-len(stringpool.Ellipsis)),
	})
}

// Hostname returns the lowercased host of an absolute URL, with international
// names in their ASCII form.
func Hostname(s string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", false
	}
	host := u.Hostname()
	// IP literals and underscore labels fail the lookup profile but are still hosts
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	return strings.ToLower(host), true
}

// Package schema infers one semantic type per column of heterogeneous rows.
//
// Inference looks at a fixed sample window (the first rows of the table, in the
// order given) rather than the whole column, classifies each non-empty sample
// value, and picks the first type to reach a majority threshold. Classification
// never fails: anything that is not clearly a URL, boolean, number, date or JSON
// document is text.
package schema

import (
	"strings"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
)

// SemanticType is the closed set of types a column or value is classified into.
// The zero value is TypeText.
type SemanticType int

const (
	// TypeText is free or mixed text
	TypeText SemanticType = iota
	// TypeNumber is an integer or decimal
	TypeNumber
	// TypeDate is a calendar date in YYYY-MM-DD form
	TypeDate
	// TypeURL is an http or https link
	TypeURL
	// TypeBoolean is true/false, yes/no or 1/0
	TypeBoolean
	// TypeJSON is an embedded JSON object or array
	TypeJSON
)

var typeNames = [...]string{
	TypeText:    "text",
	TypeNumber:  "number",
	TypeDate:    "date",
	TypeURL:     "url",
	TypeBoolean: "boolean",
	TypeJSON:    "json",
}

// AllTypes returns every semantic type in declaration order.
func AllTypes() []SemanticType {
	return []SemanticType{TypeText, TypeNumber, TypeDate, TypeURL, TypeBoolean, TypeJSON}
}

// Valid reports whether t is one of the declared types.
func (t SemanticType) Valid() bool {
	return t >= TypeText && t <= TypeJSON
}

// String returns the lowercase type name. Out-of-range values print as text,
// matching how every consumer treats them.
func (t SemanticType) String() string {
	if !t.Valid() {
		return typeNames[TypeText]
	}
	return typeNames[t]
}

// ParseSemanticType parses a type name case-insensitively.
func ParseSemanticType(s string) (SemanticType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, candidate := range typeNames {
		if candidate == name {
			return SemanticType(i), nil
		}
	}
	return TypeText, errors.Newf(errors.ErrorTypeValidation, "unknown semantic type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (t SemanticType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *SemanticType) UnmarshalText(text []byte) error {
	parsed, err := ParseSemanticType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

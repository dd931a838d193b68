package format

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	jsonpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/json"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/schema"
	stringpool "github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/strings"
)

// maxInlineKeys is the largest document shown as key: value pairs
const maxInlineKeys = 3

// formatJSON summarizes an object or array: up to three "key: value" pairs,
// otherwise "{N properties}". Scalars and invalid documents stay raw.
func formatJSON(value interface{}) Value {
	s := schema.CellText(value)
	if !jsonpool.Valid([]byte(s)) {
		return raw(value)
	}

	entries, ok := decodeEntries(s)
	if !ok {
		return raw(value)
	}

	if len(entries) > maxInlineKeys {
		return display(stringpool.Sprintf("{%d properties}", len(entries)))
	}

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.key + ": " + templateString(e.value)
	}
	return display(stringpool.Join(parts, ", "))
}

type entry struct {
	key   string
	value interface{}
}

// decodeEntries reads the top-level keys of an object, or the indices of an
// array, in enumeration order. Object keys that are array indices come first
// in ascending order, the rest keep source order; a repeated key keeps its
// first position and its last value.
func decodeEntries(s string) ([]entry, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, false
	}

	var entries []entry
	switch delim {
	case '[':
		for i := 0; dec.More(); i++ {
			var v interface{}
			if err := dec.Decode(&v); err != nil {
				return nil, false
			}
			entries = append(entries, entry{key: strconv.Itoa(i), value: v})
		}
	case '{':
		index := make(map[string]int)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, false
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, false
			}
			var v interface{}
			if err := dec.Decode(&v); err != nil {
				return nil, false
			}
			if i, dup := index[key]; dup {
				entries[i].value = v
				continue
			}
			index[key] = len(entries)
			entries = append(entries, entry{key: key, value: v})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			ai, aok := arrayIndex(entries[i].key)
			bi, bok := arrayIndex(entries[j].key)
			switch {
			case aok && bok:
				return ai < bi
			default:
				return aok && !bok
			}
		})
	default:
		return nil, false
	}
	return entries, true
}

// arrayIndex reports whether key is a canonical non-negative integer below 2^32-1.
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

// templateString renders a decoded JSON value the way string interpolation
// does in a browser: nested objects collapse to "[object Object]" and arrays
// join their elements with commas, null elements becoming empty.
func templateString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return string(x)
		}
		return stringpool.FormatNumber(f)
	case []interface{}:
		parts := make([]string, len(x))
		for i, el := range x {
			if el != nil {
				parts[i] = templateString(el)
			}
		}
		return strings.Join(parts, ",")
	case map[string]interface{}:
		return "[object Object]"
	default:
		return stringpool.ValueToString(x)
	}
}

// formatBoolean maps true/yes/1 and false/no/0 to a bool and leaves anything
// else as it was.
func formatBoolean(value interface{}) Value {
	if b, ok := value.(bool); ok {
		return display(b)
	}
	switch strings.ToLower(strings.TrimSpace(schema.CellText(value))) {
	case "true", "yes", "1":
		return display(true)
	case "false", "no", "0":
		return display(false)
	default:
		return raw(value)
	}
}

package normalize

import (
	"strconv"
	"strings"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// Raw payloads are duck-typed: providers agree on rough shapes but drift on
// details, so every field is read through a chain of candidate keys with one
// deterministic default. These helpers are the only way normalization code
// touches a raw document.

// firstString walks docs in priority order and returns the first non-empty
// string found under any of the keys.
func firstString(docs []model.RawDocument, keys ...string) string {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, key := range keys {
			if s, ok := doc[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// firstNumber walks docs in priority order and returns the first value under
// any of the keys that parses as a number. Providers send numbers both as
// JSON numbers and as decimal strings.
func firstNumber(docs []model.RawDocument, keys ...string) (float64, bool) {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, key := range keys {
			if v, ok := asNumber(doc[key]); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// firstArray returns the first non-empty object array under any of the keys.
func firstArray(docs []model.RawDocument, keys ...string) []model.RawDocument {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, key := range keys {
			if arr := asArray(doc[key]); len(arr) > 0 {
				return arr
			}
		}
	}
	return nil
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asArray(v interface{}) []model.RawDocument {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]model.RawDocument, 0, len(raw))
	for _, item := range raw {
		if doc, ok := item.(map[string]interface{}); ok {
			out = append(out, model.RawDocument(doc))
		}
	}
	return out
}

// canonicalToken uppercases and squeezes separators so that provider enum
// variants ("Owner Occupied", "OWNER_OCCUPIED", "owner-occupied") compare
// equal. It also makes normalization idempotent: our own canonical labels
// round-trip through the same mapping.
func canonicalToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

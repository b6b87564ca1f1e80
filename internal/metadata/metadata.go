// Package metadata parses the optional leading metadata block of a source
// document into a typed key/value map plus the remaining body text.
//
// The block grammar is a deliberately flat `key: value` subset, not YAML:
// one key per line, no nesting, no multiline continuation. Values are coerced
// heuristically (quotes, booleans, null, numbers, comma arrays). Lines without
// a colon are silently skipped.
package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

// Delimiter is the three-character token that opens and closes a metadata
// block when it appears alone on a line.
const Delimiter = "---"

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// ParseBlock splits raw text into a coerced metadata map and the remaining
// body.
//
// If the trimmed text does not begin with a delimiter line the metadata is
// empty and the body is the trimmed text unchanged. A missing closing
// delimiter is not an error: the whole text is treated as an opaque body
// (lenient fallback).
func ParseBlock(raw string) (map[string]any, string) {
	text := strings.TrimSpace(raw)
	meta := map[string]any{}

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || trimLine(lines[0]) != Delimiter {
		return meta, text
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if trimLine(lines[i]) == Delimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return meta, text
	}

	for _, line := range lines[1:closing] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx == -1 {
			// Lossy by design: a metadata line without a colon produces no key.
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		meta[key] = coerceValue(value)
	}

	body := strings.TrimSpace(strings.Join(lines[closing+1:], "\n"))
	return meta, body
}

// ParseWithNormalization applies ParseBlock and then Normalize.
func ParseWithNormalization(raw string) (map[string]any, string) {
	meta, body := ParseBlock(raw)
	return Normalize(meta), body
}

// Normalize applies rule-field conventions to a parsed metadata map and
// returns the same map:
//
//   - "globs": a string becomes a single-element slice (empty string becomes
//     an empty slice); absent defaults to an empty slice.
//   - "alwaysApply": a string is coerced via case-insensitive "true"
//     comparison; absent defaults to false.
//
// Finally, keys whose value is nil are removed. Empty-string values are kept.
// Normalize is idempotent.
func Normalize(meta map[string]any) map[string]any {
	if v, ok := meta["globs"]; ok {
		if s, isString := v.(string); isString {
			if s == "" {
				meta["globs"] = []string{}
			} else {
				meta["globs"] = []string{s}
			}
		}
	} else {
		meta["globs"] = []string{}
	}

	if v, ok := meta["alwaysApply"]; ok {
		if s, isString := v.(string); isString {
			meta["alwaysApply"] = strings.EqualFold(s, "true")
		}
	} else {
		meta["alwaysApply"] = false
	}

	for k, v := range meta {
		if v == nil {
			delete(meta, k)
		}
	}
	return meta
}

// coerceValue applies the heuristic scalar coercion rules, in strict order.
func coerceValue(value string) any {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			// Unwrap verbatim; escapes inside quotes are not processed.
			return value[1 : len(value)-1]
		}
	}

	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	case "null", "~":
		return nil
	}

	if intPattern.MatchString(value) {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if floatPattern.MatchString(value) {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}

	// A comma is only an array signal when the value contains no whitespace
	// at all; "a, b" stays a plain string.
	if strings.Contains(value, ",") && !strings.ContainsAny(value, " \t") {
		parts := strings.Split(value, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			items = append(items, strings.TrimSpace(p))
		}
		return items
	}

	return value
}

func trimLine(line string) string {
	return strings.TrimSuffix(line, "\r")
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnclosedObject reports a `{` with no matching `}`. The directive
// engine owns the closing brace, so this surfaces as a directive-level
// error instead of disappearing inside a value parser.
var ErrUnclosedObject = errors.New("unclosed attribute object: missing '}'")

// Entry is one key/value pair of an attribute object, with the value kept
// as raw source text. Typed decoding happens later, per attribute, through
// a Decoder.
type Entry struct {
	Key string
	Raw string
}

// ObjectEnd returns the index of the `}` matching an object whose opening
// brace has already been consumed, skipping nested braces, brackets, and
// quoted strings. ok is false when the object is never closed.
func ObjectEnd(src string) (end int, ok bool) {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '"', '\'':
			j, closed := skipQuoted(src, i)
			if !closed {
				return 0, false
			}
			i = j
		case '{', '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '}':
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return 0, false
}

// skipQuoted returns the index of the closing quote starting at the opening
// quote src[i], honoring backslash escapes.
func skipQuoted(src string, i int) (end int, closed bool) {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j, true
		}
	}
	return 0, false
}

// ScanObject splits attribute-object content into ordered entries. Keys are
// identifiers followed by a colon; values run to the next top-level comma
// or newline, with quotes and nested braces/brackets respected. For a
// duplicated key the first occurrence wins; every duplicate key is returned
// separately so the caller can report it.
func ScanObject(src string) (entries []Entry, duplicates []string, err error) {
	seen := make(map[string]bool)
	rest := src
	for {
		rest = strings.TrimLeft(rest, " \t\n,")
		if rest == "" {
			return entries, duplicates, nil
		}
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			return nil, nil, fmt.Errorf("malformed attribute entry: missing ':' in %q", rest)
		}
		key := strings.TrimSpace(rest[:colon])
		if key == "" || strings.ContainsAny(key, " \t\n") {
			return nil, nil, fmt.Errorf("malformed attribute key %q", key)
		}
		valueEnd := scanValue(rest[colon+1:])
		raw := strings.TrimSpace(rest[colon+1 : colon+1+valueEnd])
		if seen[key] {
			duplicates = append(duplicates, key)
		} else {
			seen[key] = true
			entries = append(entries, Entry{Key: key, Raw: raw})
		}
		rest = rest[colon+1+valueEnd:]
	}
}

// scanValue returns the length of the value portion of src: everything up
// to the first comma or newline at nesting depth zero.
func scanValue(src string) int {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '"', '\'':
			j, closed := skipQuoted(src, i)
			if !closed {
				return len(src)
			}
			i = j
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case ',', '\n':
			if depth == 0 {
				return i
			}
		}
	}
	return len(src)
}

// Package langdetect resolves the language tag of embedded code snippets.
// Code directives may carry an explicit language attribute; when they do
// not, the snippet content is classified with go-enry. Resolved tags are
// normalized lowercase identifiers suitable for syntax-highlighting hints.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Fallback is the tag used when no language can be determined.
const Fallback = "text"

// aliases maps common user-written tags to their canonical form.
var aliases = map[string]string{
	"golang":  "go",
	"js":      "javascript",
	"ts":      "typescript",
	"py":      "python",
	"rb":      "ruby",
	"sh":      "bash",
	"shell":   "bash",
	"zsh":     "bash",
	"yml":     "yaml",
	"c++":     "cpp",
	"docker":  "dockerfile",
	"md":      "markdown",
	"txt":     "text",
	"":        Fallback,
	"plain":   Fallback,
	"console": "bash",
}

// Normalize canonicalizes an explicit language tag. Unknown tags pass
// through lowercased so downstream highlighters can still try them.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if canon, ok := aliases[tag]; ok {
		return canon
	}
	return tag
}

// candidates are the languages the classifier chooses between. Snippets in
// documents overwhelmingly come from this set; an open-world classification
// over enry's full corpus is slower and noisier.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect classifies snippet content and returns a normalized tag. It
// returns Fallback when the content is empty or classification is not
// confident enough to be useful.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Fallback
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Normalize(lang)
	}

	// A handful of unambiguous structural prefixes short-circuit the
	// classifier; these are cheap and never wrong for snippet-sized input.
	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return "go"
	case bytes.HasPrefix(trimmed, []byte("<!DOCTYPE html")), bytes.HasPrefix(trimmed, []byte("<html")):
		return "html"
	case bytes.HasPrefix(trimmed, []byte("FROM ")) && bytes.Contains(trimmed, []byte("\nRUN ")):
		return "dockerfile"
	case (trimmed[0] == '{' || trimmed[0] == '[') && bytes.Contains(trimmed, []byte(`"`)):
		return "json"
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return Normalize(lang)
	}
	return Fallback
}

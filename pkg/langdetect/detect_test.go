package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/treemark/pkg/langdetect"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag      string
		expected string
	}{
		{"golang", "go"},
		{"Go", "go"},
		{"JS", "javascript"},
		{"ts", "typescript"},
		{"py", "python"},
		{"sh", "bash"},
		{"shell", "bash"},
		{"yml", "yaml"},
		{"C++", "cpp"},
		{"", "text"},
		{"plain", "text"},
		{"  Rust  ", "rust"},
		{"kotlin", "kotlin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, langdetect.Normalize(tt.tag), "tag %q", tt.tag)
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang python",
			content:  "#!/usr/bin/env python3\nprint('hello')",
			expected: "python",
		},
		{
			name:     "go package clause",
			content:  "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}",
			expected: "go",
		},
		{
			name:     "json object",
			content:  `{"key": "value", "number": 123}`,
			expected: "json",
		},
		{
			name:     "html document",
			content:  "<!DOCTYPE html>\n<html>\n<head><title>t</title></head>\n</html>",
			expected: "html",
		},
		{
			name:     "dockerfile",
			content:  "FROM alpine:3.20\nRUN apk add --no-cache git",
			expected: "dockerfile",
		},
		{
			name:     "empty content falls back",
			content:  "",
			expected: "text",
		},
		{
			name:     "whitespace only falls back",
			content:  "   \n\t\n",
			expected: "text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestDetect_NeverEmpty(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "x", "just prose, nothing else", "???", "123 456"}
	for _, in := range inputs {
		assert.NotEmpty(t, langdetect.Detect([]byte(in)), "input %q", in)
	}
}

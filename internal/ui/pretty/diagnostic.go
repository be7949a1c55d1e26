package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/text"
)

// Diagnostic is one invalid-directive finding with its location in the
// source document.
type Diagnostic struct {
	Path       string
	Line       int
	Column     int
	Message    string
	SourceLine string
}

// CollectDiagnostics walks the document tree and locates every invalid node
// in the source text it was parsed from. Nodes whose source cannot be found
// (e.g. after programmatic tree edits) get line and column zero.
func CollectDiagnostics(path, src string, doc ast.Node) []Diagnostic {
	var diags []Diagnostic
	searchFrom := 0
	for _, inv := range ast.Invalids(doc) {
		d := Diagnostic{Path: path, Message: inv.Message}
		if inv.Source != "" {
			if idx := strings.Index(src[searchFrom:], inv.Source); idx >= 0 {
				off := searchFrom + idx
				searchFrom = off + len(inv.Source)
				d.Line, d.Column = text.NewPosition(src).Advance(off).LineColumn()
				d.SourceLine = lineAt(src, off)
			}
		}
		diags = append(diags, d)
	}
	return diags
}

// lineAt returns the full source line containing byte offset off.
func lineAt(src string, off int) string {
	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := strings.IndexByte(src[off:], '\n')
	if end < 0 {
		return src[start:]
	}
	return src[start : off+end]
}

// FormatDiagnostic formats a single diagnostic for terminal output.
func (s *Styles) FormatDiagnostic(d Diagnostic, showContext bool) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(d.Path),
		d.Line,
		d.Column,
	)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(d.Message),
	))

	if showContext && d.SourceLine != "" {
		builder.WriteString(s.FormatSourceContext(d.SourceLine, d.Column))
	}

	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

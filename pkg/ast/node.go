// Package ast defines the document tree produced by parsing: plain text,
// named container elements, and invalid-node placeholders. Nodes are plain
// values, immutable by convention after construction.
package ast

import "strings"

// Node is a single node in the document tree.
type Node interface {
	node()
}

// Text is a run of literal text.
type Text struct {
	Content string
}

// Element is a named container of child nodes, optionally carrying string
// attributes. Both block-level and inline elements use this shape; the Name
// distinguishes them (e.g. "paragraph", "emphasis", "callout").
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []Node
}

// Invalid is a placeholder for a construct that failed validation. It
// retains the original source text and the combined failure message, so a
// document with invalid directives still parses into a complete tree.
type Invalid struct {
	Message string
	Source  string
}

func (Text) node()    {}
func (Element) node() {}
func (Invalid) node() {}

// NewElement constructs an element with the given children.
func NewElement(name string, children ...Node) Element {
	return Element{Name: name, Children: children}
}

// AppendText appends literal text to a node list, merging into a trailing
// Text node if one exists. Empty text is dropped. This is the engine-level
// invariant: no two consecutive pure-text siblings exist in engine output.
func AppendText(nodes []Node, s string) []Node {
	if s == "" {
		return nodes
	}
	if n := len(nodes); n > 0 {
		if last, ok := nodes[n-1].(Text); ok {
			nodes[n-1] = Text{Content: last.Content + s}
			return nodes
		}
	}
	return append(nodes, Text{Content: s})
}

// Append appends a parsed node to a node list. A nil node or an empty Text
// contributes nothing; a non-empty Text is kept as its own node (it came
// from a parser, not from literal scanning, so it is not merged into a
// preceding text run).
func Append(nodes []Node, n Node) []Node {
	if n == nil {
		return nodes
	}
	if t, ok := n.(Text); ok && t.Content == "" {
		return nodes
	}
	return append(nodes, n)
}

// PlainText flattens a node to its literal text content. Invalid nodes
// contribute their original source.
func PlainText(n Node) string {
	var sb strings.Builder
	writePlain(&sb, n)
	return sb.String()
}

func writePlain(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case Text:
		sb.WriteString(n.Content)
	case Element:
		for _, c := range n.Children {
			writePlain(sb, c)
		}
	case Invalid:
		sb.WriteString(n.Source)
	}
}

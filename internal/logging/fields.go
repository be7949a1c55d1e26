// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldFiles  = "files"
	FieldInput  = "input"
	FieldOutput = "output"

	// Parse fields.
	FieldDirective    = "directive"
	FieldLine         = "line"
	FieldColumn       = "column"
	FieldNodes        = "nodes"
	FieldInvalidCount = "invalid_count"
	FieldDefines      = "defines"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

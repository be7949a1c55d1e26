package text

import "fmt"

// ParseError describes a parse failure: what went wrong, where the failing
// parser started, and the furthest offset any attempted branch reached.
// MaxOffset >= At.Offset() always holds; alternation widens it across all
// tried branches so diagnostics point at the deepest progress made, not at
// the shallow failure of an early branch.
type ParseError struct {
	Message   string
	At        Position
	MaxOffset int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	line, col := e.At.LineColumn()
	return fmt.Sprintf("%s (at line %d, column %d)", e.Message, line, col)
}

// Result is the outcome of running a parser at a position: either a value
// plus the next position, or a ParseError. For every success
// Next.Offset() >= start.Offset(); a parser never rewinds past its starting
// point as a success.
type Result[T any] struct {
	Value T
	Next  Position
	Err   *ParseError
}

// Ok reports whether the result is a success.
func (r Result[T]) Ok() bool { return r.Err == nil }

// Succeed constructs a successful result.
func Succeed[T any](value T, next Position) Result[T] {
	return Result[T]{Value: value, Next: next}
}

// Fail constructs a failed result at the given position.
func Fail[T any](at Position, format string, args ...any) Result[T] {
	return Result[T]{Err: &ParseError{
		Message:   fmt.Sprintf(format, args...),
		At:        at,
		MaxOffset: at.Offset(),
	}}
}

// FailWith constructs a failed result reusing an existing error, preserving
// its MaxOffset. Used when a failure propagates through a combinator of a
// different value type.
func FailWith[T any](err *ParseError) Result[T] {
	return Result[T]{Err: err}
}

// Parser is a pure function from an input position to a result.
type Parser[T any] func(Position) Result[T]

// Package pmlerr provides the error taxonomy shared by every stage of the
// checker: lexing, parsing, simple typing, MDP translation, and the external
// checker driver.
package pmlerr

import (
	"fmt"
	"strings"
)

// Category identifies which stage raised an error and, for the core stages,
// what policy governs it (see spec §7).
type Category string

const (
	// UnknownToken is raised by the lexer on an unrecognised lead character.
	UnknownToken Category = "UNKNOWN_TOKEN"
	// UnexpectedToken is raised by the parser when a production expects one
	// token kind and finds another.
	UnexpectedToken Category = "UNEXPECTED_TOKEN"
	// SimpleType is raised by the simple type checker.
	SimpleType Category = "SIMPLE_TYPE"
	// Unimplemented is raised by the MDP translator for constructs the
	// checker does not compile (LetFun, App, Fun).
	Unimplemented Category = "UNIMPLEMENTED"
	// Internal marks an invariant violation: the simple type checker should
	// have rejected the program before translation reached this point.
	Internal Category = "INTERNAL"
	// ExternalChecker marks a failure in the driver's invocation of the
	// external probabilistic model checker.
	ExternalChecker Category = "EXTERNAL_CHECKER"
)

// Position is a location in source text. Offset is authoritative; Line and
// Column are derived for diagnostics and are 1-based.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the single error type produced by every pipeline stage. Position
// is the zero value when a category carries none (e.g. Internal).
type Error struct {
	Category Category
	Message  string
	Position Position
}

func (e *Error) Error() string {
	if e.Position.Line == 0 {
		return fmt.Sprintf("[%s] %s", e.Category, e.Message)
	}
	return fmt.Sprintf("[%s] %s at %s", e.Category, e.Message, e.Position)
}

// New constructs an Error positioned in source text.
func New(category Category, pos Position, format string, args ...interface{}) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...), Position: pos}
}

// Newf constructs a position-less Error, for categories (SimpleType,
// Internal, Unimplemented, ExternalChecker) that name an expression or
// subsystem rather than a source span.
func Newf(category Category, format string, args ...interface{}) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FormatDetailed renders e with a one-line source excerpt and a caret under
// the offending column, in the teacher lexer's FormatErrorDetailed style
// (internal/lexer/error_integration.go). source is the full input text e's
// Position was derived from; excerpt/caret are omitted when Position carries
// no line (every error built with Newf).
func (e *Error) FormatDetailed(source string) string {
	base := e.Error()
	if e.Position.Line == 0 {
		return base
	}

	lines := strings.Split(source, "\n")
	lineIdx := e.Position.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return base
	}

	base += fmt.Sprintf("\n  %s", lines[lineIdx])
	padding := ""
	for i := 0; i < e.Position.Column-1; i++ {
		padding += " "
	}
	base += fmt.Sprintf("\n  %s^", padding)
	return base
}

package parser

import (
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken       = "unexpected token %s, expected %s"
	ErrUnexpectedExpr        = "unexpected token %s in expression"
	ErrUnterminatedString    = "unterminated string literal"
	ErrUnterminatedTemplate  = "unterminated template literal"
	ErrUnterminatedRegexp    = "unterminated regular expression"
	ErrUnterminatedComment   = "unterminated block comment"
	ErrInvalidAssignTarget   = "invalid assignment target"
	ErrInvalidBindingPattern = "invalid binding pattern"
	ErrInvalidArrowParams    = "invalid arrow function parameters"
	ErrUnsupported           = "%s is not supported"
	ErrForInInit             = "for-in/for-of declaration must have a single binding without initializer"
)

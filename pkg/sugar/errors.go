package sugar

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Validation errors. A pass stops at the first one.
var (
	ErrStateNotExpression  = errors.New("ref sugar must be an expression statement")
	ErrStateNotAssignment  = errors.New("ref sugar expression must be an assignment")
	ErrStateTargetNotIdent = errors.New("ref sugar assignment left must be an identifier")

	ErrWatchShape        = errors.New("watch sugar must be an assignment or arrow function")
	ErrWatchRightNotFunc = errors.New("watch sugar assign right must be an arrow function")
	ErrWatchLeftNotIdent = errors.New("watch sugar assign left must be an identifier")
	ErrWatchDeps         = errors.New("watch sugar arrow deps can only be identifiers")
)

// Error reports a rejected labeled statement.
type Error struct {
	Pos   token.Position
	Label string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(pos token.Position, label string, err error) *Error {
	return &Error{Pos: pos, Label: label, Err: err}
}

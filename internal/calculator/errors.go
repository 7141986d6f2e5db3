package calculator

import (
	"errors"
	"fmt"
)

// Evaluation error kinds. Every failure returned by this package unwraps to
// exactly one of these, so callers can classify with errors.Is.
var (
	ErrSyntax        = errors.New("syntax error")
	ErrDomain        = errors.New("domain error")
	ErrRange         = errors.New("range error")
	ErrInvalidResult = errors.New("invalid result")
)

// EvalError describes a failed evaluation.
type EvalError struct {
	Kind error  // one of ErrSyntax, ErrDomain, ErrRange, ErrInvalidResult
	Op   string // function or operator involved, if any
	Pos  int    // byte offset in the normalized expression, -1 if unknown
	Msg  string
}

func (e *EvalError) Error() string {
	prefix := e.Kind.Error()
	if e.Op != "" {
		prefix = e.Op + " " + prefix
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at position %d: %s", prefix, e.Pos, e.Msg)
	}
	return prefix + ": " + e.Msg
}

func (e *EvalError) Unwrap() error {
	return e.Kind
}

func syntaxErrorf(pos int, format string, args ...interface{}) error {
	return &EvalError{Kind: ErrSyntax, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func domainError(op, msg string) error {
	return &EvalError{Kind: ErrDomain, Op: op, Pos: -1, Msg: msg}
}

func rangeError(op, msg string) error {
	return &EvalError{Kind: ErrRange, Op: op, Pos: -1, Msg: msg}
}

func invalidResult(msg string) error {
	return &EvalError{Kind: ErrInvalidResult, Pos: -1, Msg: msg}
}

// KindName returns a short stable name for the kind of err, or "" if err did
// not come from an evaluation.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrSyntax):
		return "syntax"
	case errors.Is(err, ErrDomain):
		return "domain"
	case errors.Is(err, ErrRange):
		return "range"
	case errors.Is(err, ErrInvalidResult):
		return "invalid_result"
	}
	return ""
}

// UserMessage is the generic text a front end shows for a failed evaluation.
func UserMessage(err error) string {
	if errors.Is(err, ErrSyntax) {
		return "Invalid expression"
	}
	return "Invalid calculation"
}

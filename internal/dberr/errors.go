// Package dberr defines the error taxonomy shared by the parser, the store,
// the index manager and the executor.
//
// Every failure a command can produce is an *Error carrying one Kind. Callers
// match kinds with errors.Is against the Err* sentinels, which keeps working
// after the error has been wrapped with fmt.Errorf("...: %w", err).
package dberr

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindSyntax
	KindTableNotFound
	KindDuplicateTable
	KindColumnNotFound
	KindTypeMismatch
	KindArityMismatch
	KindIndexNotFound
	KindIndexAlreadyExists
	KindNoActiveTransaction
	KindTransactionAlreadyActive
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindTableNotFound:
		return "TableNotFound"
	case KindDuplicateTable:
		return "DuplicateTable"
	case KindColumnNotFound:
		return "ColumnNotFound"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindArityMismatch:
		return "ArityMismatch"
	case KindIndexNotFound:
		return "IndexNotFound"
	case KindIndexAlreadyExists:
		return "IndexAlreadyExists"
	case KindNoActiveTransaction:
		return "NoActiveTransaction"
	case KindTransactionAlreadyActive:
		return "TransactionAlreadyActive"
	default:
		return "UnknownError"
	}
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrSyntax                   = &Error{Kind: KindSyntax}
	ErrTableNotFound            = &Error{Kind: KindTableNotFound}
	ErrDuplicateTable           = &Error{Kind: KindDuplicateTable}
	ErrColumnNotFound           = &Error{Kind: KindColumnNotFound}
	ErrTypeMismatch             = &Error{Kind: KindTypeMismatch}
	ErrArityMismatch            = &Error{Kind: KindArityMismatch}
	ErrIndexNotFound            = &Error{Kind: KindIndexNotFound}
	ErrIndexAlreadyExists       = &Error{Kind: KindIndexAlreadyExists}
	ErrNoActiveTransaction      = &Error{Kind: KindNoActiveTransaction}
	ErrTransactionAlreadyActive = &Error{Kind: KindTransactionAlreadyActive}
)

// Error is a structured command failure.
type Error struct {
	Kind Kind

	// Msg describes this particular failure, e.g. "table Employees does not exist".
	Msg string

	// Hint is the expected form of the statement, set for syntax errors.
	Hint string
}

// New builds an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Syntax builds a syntax error that suggests the expected statement form.
func Syntax(hint string, format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Msg: fmt.Sprintf(format, args...), Hint: hint}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Hint != "" {
		msg += " (expected: " + e.Hint + ")"
	}
	return msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

package compiler

import (
	"errors"
	"fmt"
)

// ErrCompilationFailed is returned by Compile when at least one error
// diagnostic was recorded.
var ErrCompilationFailed = errors.New("compilation failed")

// ErrorKind classifies a semantic error.
type ErrorKind int

const (
	DuplicateDeclaration ErrorKind = iota + 1
	InvalidBounds
	UndeclaredIdentifier
	WrongKind
	IteratorOutOfScope
	IteratorIsReadOnly
	IndexOutOfBounds
	UninitializedVariable
	UndeclaredProcedure
	ArityMismatch
	ArgumentKindMismatch
)

var errorKindNames = [...]string{
	DuplicateDeclaration:  "DuplicateDeclaration",
	InvalidBounds:         "InvalidBounds",
	UndeclaredIdentifier:  "UndeclaredIdentifier",
	WrongKind:             "WrongKind",
	IteratorOutOfScope:    "IteratorOutOfScope",
	IteratorIsReadOnly:    "IteratorIsReadOnly",
	IndexOutOfBounds:      "IndexOutOfBounds",
	UninitializedVariable: "UninitializedVariable",
	UndeclaredProcedure:   "UndeclaredProcedure",
	ArityMismatch:         "ArityMismatch",
	ArgumentKindMismatch:  "ArgumentKindMismatch",
}

func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// SemanticError is returned by symbol table and resolver operations.
type SemanticError struct {
	Kind ErrorKind
	Name string // offending identifier or procedure, if any
	Msg  string
}

func (e *SemanticError) Error() string { return e.Msg }

// Is matches any *SemanticError of the same kind, so
// errors.Is(err, &SemanticError{Kind: WrongKind}) works.
func (e *SemanticError) Is(target error) bool {
	t, ok := target.(*SemanticError)
	return ok && t.Kind == e.Kind
}

func semErr(kind ErrorKind, name, format string, args ...any) *SemanticError {
	return &SemanticError{Kind: kind, Name: name, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind carried by err, or 0.
func KindOf(err error) ErrorKind {
	var se *SemanticError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

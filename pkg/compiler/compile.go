package compiler

import (
	"fmt"

	"goacc/pkg/asm"
)

// Result is the outcome of compiling one source file.
type Result struct {
	Tokens      []Token
	AST         *Program
	Diagnostics *Diagnostics
	Scopes      []*SymbolTable

	// Program is nil when any error was recorded.
	Program asm.Program
}

// Symbols renders every scope's symbol table.
func (r *Result) Symbols() string {
	var out string
	for _, s := range r.Scopes {
		out += s.String()
	}
	return out
}

// Compile lexes, parses and generates code for src. Lex and parse errors
// are returned directly with a nil Result. Semantic problems are collected
// in Result.Diagnostics; when any of them is an error the returned error
// wraps ErrCompilationFailed and Result.Program is nil. logf, if non-nil,
// receives each diagnostic as it is recorded.
func Compile(src string, logf func(format string, args ...any)) (*Result, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	prog, err := Parse(tokens, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	res := &Result{Tokens: tokens, AST: prog, Diagnostics: NewDiagnostics(logf)}
	code, scopes := Generate(prog, res.Diagnostics)
	res.Scopes = scopes

	if n := res.Diagnostics.ErrorCount(); n > 0 {
		return res, fmt.Errorf("%w: %d error(s)", ErrCompilationFailed, n)
	}
	if err := asm.CheckJumps(code); err != nil {
		return res, fmt.Errorf("codegen error: %w", err)
	}
	res.Program = code
	return res, nil
}

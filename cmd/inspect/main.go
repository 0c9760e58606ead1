package main

import (
	"fmt"
	"io"
	"os"

	"goacc/pkg/compiler"
)

const sampleSource = `PROGRAM IS
  x, t[1:3]
BEGIN
  x := 10;
  FOR i FROM 1 TO 3 DO
    t[i] := x * i;
  ENDFOR
  WRITE t[2];
END
`

func main() {
	src := sampleSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}
	if err := inspect(os.Stdout, src); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// inspect prints every stage of the pipeline for src.
func inspect(w io.Writer, src string) error {
	fmt.Fprintf(w, "Source:\n%s\n", src)

	tokens, err := compiler.Lex(src)
	if err != nil {
		return fmt.Errorf("lex error: %w", err)
	}
	fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Fprintln(w, " ", tok)
	}
	fmt.Fprintln(w)

	prog, err := compiler.Parse(tokens, src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	fmt.Fprintln(w, "AST")
	fmt.Fprint(w, prog.Dump())
	fmt.Fprintln(w)

	diags := compiler.NewDiagnostics(nil)
	code, scopes := compiler.Generate(prog, diags)
	if out := diags.Render(false); out != "" {
		fmt.Fprintln(w, "Diagnostics")
		fmt.Fprint(w, out)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Symbols")
	for _, s := range scopes {
		fmt.Fprint(w, s)
	}
	fmt.Fprintln(w)

	if diags.HasErrors() {
		return compiler.ErrCompilationFailed
	}
	fmt.Fprintf(w, "Instructions (%d)\n", len(code))
	fmt.Fprint(w, code.Listing())
	return nil
}

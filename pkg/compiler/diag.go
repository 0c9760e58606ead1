package compiler

import (
	"fmt"
	"strings"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "unknown"
	}
}

// Diagnostic is one line-tagged message produced while compiling.
type Diagnostic struct {
	Severity Severity
	Kind     ErrorKind
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: Line %d: %s", d.Severity, d.Line, d.Message)
}

// Format renders the diagnostic, optionally with ANSI colors.
func (d Diagnostic) Format(useColor bool) string {
	if !useColor {
		return d.String()
	}
	color := "\033[1;33m" // Bold yellow
	if d.Severity == SeverityError {
		color = "\033[1;31m" // Bold red
	}
	return fmt.Sprintf("%s%s\033[0m: \033[1;34mLine %d\033[0m: %s", color, d.Severity, d.Line, d.Message)
}

// Diagnostics accumulates errors and warnings in source order. Once an
// error is recorded, HasErrors stays true for the rest of the run.
type Diagnostics struct {
	all    []Diagnostic
	errors int
	logf   func(format string, args ...any)
}

// NewDiagnostics returns an empty collector. When logf is non-nil every
// diagnostic is echoed through it as it is recorded.
func NewDiagnostics(logf func(format string, args ...any)) *Diagnostics {
	return &Diagnostics{logf: logf}
}

func (d *Diagnostics) add(diag Diagnostic) {
	d.all = append(d.all, diag)
	if diag.Severity == SeverityError {
		d.errors++
	}
	if d.logf != nil {
		d.logf("%s", diag)
	}
}

// Errorf records an error.
func (d *Diagnostics) Errorf(line int, kind ErrorKind, format string, args ...any) {
	d.add(Diagnostic{Severity: SeverityError, Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning.
func (d *Diagnostics) Warnf(line int, kind ErrorKind, format string, args ...any) {
	d.add(Diagnostic{Severity: SeverityWarning, Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Report records err as an error diagnostic at line.
func (d *Diagnostics) Report(line int, err error) {
	d.add(Diagnostic{Severity: SeverityError, Kind: KindOf(err), Line: line, Message: err.Error()})
}

func (d *Diagnostics) HasErrors() bool { return d.errors > 0 }
func (d *Diagnostics) ErrorCount() int { return d.errors }

// All returns every diagnostic in the order it was recorded.
func (d *Diagnostics) All() []Diagnostic {
	return append([]Diagnostic(nil), d.all...)
}

func (d *Diagnostics) Errors() []Diagnostic   { return d.filter(SeverityError) }
func (d *Diagnostics) Warnings() []Diagnostic { return d.filter(SeverityWarning) }

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.all {
		if diag.Severity == sev {
			out = append(out, diag)
		}
	}
	return out
}

// Has reports whether a diagnostic of the given kind and severity exists.
func (d *Diagnostics) Has(sev Severity, kind ErrorKind) bool {
	for _, diag := range d.all {
		if diag.Severity == sev && diag.Kind == kind {
			return true
		}
	}
	return false
}

// Render formats every diagnostic one per line followed by a summary.
func (d *Diagnostics) Render(useColor bool) string {
	if len(d.all) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, diag := range d.all {
		sb.WriteString(diag.Format(useColor))
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d error(s), %d warning(s) found\n", d.errors, len(d.all)-d.errors)
	return sb.String()
}

package vm

import (
	"bufio"
	"io"
)

// Option configures a Machine.
type Option interface{ apply(m *Machine) }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type stepLimitOption int64
type promptOption bool
type logfnOption func(mess string, args ...any)

// WithInput reads whitespace separated integers for GET from r.
func WithInput(r io.Reader) Option { return inputOption{r} }

// WithOutput sends PUT values to w, one per line.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithStepLimit caps the number of instructions Run executes; 0 disables it.
func WithStepLimit(n int64) Option { return stepLimitOption(n) }

// WithPrompt prints "? " before GET and prefixes PUT output with "> ".
func WithPrompt(on bool) Option { return promptOption(on) }

// WithLogf traces execution through logfn.
func WithLogf(logfn func(mess string, args ...any)) Option { return logfnOption(logfn) }

func (o inputOption) apply(m *Machine) {
	sc := bufio.NewScanner(o.Reader)
	sc.Split(bufio.ScanWords)
	m.in = sc
}

func (o outputOption) apply(m *Machine) {
	if o.Writer == nil {
		o.Writer = io.Discard
	}
	m.out = o.Writer
}

func (n stepLimitOption) apply(m *Machine) { m.stepLimit = int64(n) }
func (b promptOption) apply(m *Machine)    { m.prompt = bool(b) }
func (fn logfnOption) apply(m *Machine)    { m.logfn = fn }

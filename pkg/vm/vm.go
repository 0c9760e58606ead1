// Package vm interprets programs for the accumulator machine.
//
// Memory is a sparse map of signed cells; cell 0 is the accumulator. Jumps
// are relative to the jump itself, RTRN jumps to the absolute index held in
// its operand cell. GET and PUT always move data through the accumulator.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"goacc/pkg/asm"
)

var (
	ErrHalted          = errors.New("machine halted")
	ErrNegativeAddress = errors.New("negative memory address")
	ErrPCOutOfRange    = errors.New("instruction index out of range")
	ErrStepLimit       = errors.New("step limit exceeded")
	ErrNoInput         = errors.New("no input available")
	ErrUnknownOpcode   = errors.New("unknown opcode")
)

// DefaultStepLimit bounds Run when no WithStepLimit option is given.
const DefaultStepLimit = 100_000_000

// ctxCheckInterval is how many steps Run executes between context checks.
const ctxCheckInterval = 4096

type Machine struct {
	Program asm.Program
	Mem     map[int64]int64

	PC     int64
	Cost   int64
	IOCost int64
	Steps  int64

	Halted bool
	// Waiting is set when a GET found no input; the GET is retried by the
	// next Step once input has been pushed.
	Waiting bool

	outputs []int64
	pending []int64

	in        *bufio.Scanner
	out       io.Writer
	prompt    bool
	stepLimit int64
	logfn     func(mess string, args ...any)
}

// New returns a machine ready to execute prog from instruction 0.
func New(prog asm.Program, opts ...Option) *Machine {
	m := &Machine{
		Program:   prog,
		Mem:       make(map[int64]int64),
		out:       io.Discard,
		stepLimit: DefaultStepLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(m)
		}
	}
	return m
}

func (m *Machine) logf(mess string, args ...any) {
	if m.logfn != nil {
		m.logfn(mess, args...)
	}
}

// Cell returns the value stored at addr.
func (m *Machine) Cell(addr int64) int64 { return m.Mem[addr] }

// Acc returns the accumulator.
func (m *Machine) Acc() int64 { return m.Mem[0] }

// Outputs returns every value written by PUT so far.
func (m *Machine) Outputs() []int64 {
	return append([]int64(nil), m.outputs...)
}

// PushInput queues values consumed by GET before the input reader.
func (m *Machine) PushInput(vals ...int64) {
	m.pending = append(m.pending, vals...)
	m.Waiting = false
}

func (m *Machine) nextInput() (int64, bool, error) {
	if len(m.pending) > 0 {
		v := m.pending[0]
		m.pending = m.pending[1:]
		return v, true, nil
	}
	if m.in == nil {
		return 0, false, nil
	}
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return 0, false, err
		}
		m.in = nil
		return 0, false, nil
	}
	v, err := strconv.ParseInt(m.in.Text(), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid input %q: %w", m.in.Text(), err)
	}
	return v, true, nil
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return ErrHalted
	}
	if m.PC < 0 || m.PC >= int64(len(m.Program)) {
		return fmt.Errorf("pc %d: %w", m.PC, ErrPCOutOfRange)
	}

	in := m.Program[m.PC]
	if in.Op.TakesAddress() && in.Arg < 0 {
		return fmt.Errorf("pc %d: %s: %w", m.PC, in, ErrNegativeAddress)
	}
	arg := in.Arg
	p := m.Mem

	switch in.Op {
	case asm.HALT:
		m.Halted = true
		m.logf("halt @%v cost %v", m.PC, m.Cost)
		return nil

	case asm.GET:
		if m.prompt {
			fmt.Fprint(m.out, "? ")
		}
		v, ok, err := m.nextInput()
		if err != nil {
			return fmt.Errorf("pc %d: %w", m.PC, err)
		}
		if !ok {
			m.Waiting = true
			return fmt.Errorf("pc %d: %w", m.PC, ErrNoInput)
		}
		m.Waiting = false
		p[arg] = v
		m.PC++
	case asm.PUT:
		v := p[arg]
		m.outputs = append(m.outputs, v)
		if m.prompt {
			fmt.Fprintf(m.out, "> %d\n", v)
		} else {
			fmt.Fprintf(m.out, "%d\n", v)
		}
		m.PC++

	case asm.LOAD:
		p[0] = p[arg]
		m.PC++
	case asm.STORE:
		p[arg] = p[0]
		m.PC++
	case asm.LOADI:
		p[0] = p[p[arg]]
		m.PC++
	case asm.STOREI:
		p[p[arg]] = p[0]
		m.PC++

	case asm.ADD:
		p[0] += p[arg]
		m.PC++
	case asm.SUB:
		p[0] -= p[arg]
		m.PC++
	case asm.ADDI:
		p[0] += p[p[arg]]
		m.PC++
	case asm.SUBI:
		p[0] -= p[p[arg]]
		m.PC++

	case asm.SET:
		p[0] = arg
		m.PC++
	case asm.HALF:
		p[0] >>= 1
		m.PC++

	case asm.JUMP:
		m.PC += arg
	case asm.JPOS:
		m.branch(p[0] > 0, arg)
	case asm.JZERO:
		m.branch(p[0] == 0, arg)
	case asm.JNEG:
		m.branch(p[0] < 0, arg)

	case asm.RTRN:
		m.PC = p[arg]

	default:
		return fmt.Errorf("pc %d: %v: %w", m.PC, in.Op, ErrUnknownOpcode)
	}

	cost := asm.Cost(in.Op)
	m.Cost += cost
	if in.Op == asm.GET || in.Op == asm.PUT {
		m.IOCost += cost
	}
	m.Steps++
	if m.logfn != nil {
		m.logf("exec %v -> pc %v acc %v", in, m.PC, p[0])
	}

	if m.PC < 0 || m.PC >= int64(len(m.Program)) {
		return fmt.Errorf("pc %d after %s: %w", m.PC, in, ErrPCOutOfRange)
	}
	return nil
}

func (m *Machine) branch(taken bool, off int64) {
	if taken {
		m.PC += off
	} else {
		m.PC++
	}
}

// Run executes until HALT, an error, cancellation of ctx or the step limit.
func (m *Machine) Run(ctx context.Context) error {
	for !m.Halted {
		if m.Steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if m.stepLimit > 0 && m.Steps >= m.stepLimit {
			return fmt.Errorf("pc %d after %d steps: %w", m.PC, m.Steps, ErrStepLimit)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntilBlocked runs like Run but returns nil when a GET finds no input,
// leaving the machine Waiting.
func (m *Machine) RunUntilBlocked(ctx context.Context) error {
	err := m.Run(ctx)
	if errors.Is(err, ErrNoInput) {
		return nil
	}
	return err
}

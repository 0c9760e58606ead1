// Package asm defines the instruction set of the accumulator machine and its
// one-instruction-per-line text format.
package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcode identifies a machine instruction.
type Opcode int

const (
	GET Opcode = iota
	PUT
	LOAD
	STORE
	LOADI
	STOREI
	ADD
	SUB
	ADDI
	SUBI
	SET
	HALF
	JUMP
	JPOS
	JZERO
	JNEG
	RTRN
	HALT
)

var mnemonics = [...]string{
	GET:    "GET",
	PUT:    "PUT",
	LOAD:   "LOAD",
	STORE:  "STORE",
	LOADI:  "LOADI",
	STOREI: "STOREI",
	ADD:    "ADD",
	SUB:    "SUB",
	ADDI:   "ADDI",
	SUBI:   "SUBI",
	SET:    "SET",
	HALF:   "HALF",
	JUMP:   "JUMP",
	JPOS:   "JPOS",
	JZERO:  "JZERO",
	JNEG:   "JNEG",
	RTRN:   "RTRN",
	HALT:   "HALT",
}

var zeroOperandOps = map[string]Opcode{
	"HALF": HALF,
	"HALT": HALT,
}

var addressOps = map[string]Opcode{
	"GET":    GET,
	"PUT":    PUT,
	"LOAD":   LOAD,
	"STORE":  STORE,
	"LOADI":  LOADI,
	"STOREI": STOREI,
	"ADD":    ADD,
	"SUB":    SUB,
	"ADDI":   ADDI,
	"SUBI":   SUBI,
	"RTRN":   RTRN,
}

// immediateOps take a signed operand that is not a memory address.
var immediateOps = map[string]Opcode{
	"SET":   SET,
	"JUMP":  JUMP,
	"JPOS":  JPOS,
	"JZERO": JZERO,
	"JNEG":  JNEG,
}

// costs mirror the reference machine's accounting.
var costs = [...]int64{
	GET:    100,
	PUT:    100,
	LOAD:   10,
	STORE:  10,
	LOADI:  20,
	STOREI: 20,
	ADD:    10,
	SUB:    10,
	ADDI:   20,
	SUBI:   12,
	SET:    50,
	HALF:   5,
	JUMP:   1,
	JPOS:   1,
	JZERO:  1,
	JNEG:   1,
	RTRN:   10,
	HALT:   0,
}

func (op Opcode) String() string {
	if op >= 0 && int(op) < len(mnemonics) {
		return mnemonics[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// HasOperand reports whether op is written with an operand.
func (op Opcode) HasOperand() bool {
	return op != HALF && op != HALT
}

// IsJump reports whether op is a relative jump.
func (op Opcode) IsJump() bool {
	switch op {
	case JUMP, JPOS, JZERO, JNEG:
		return true
	}
	return false
}

// TakesAddress reports whether the operand of op names a memory cell.
func (op Opcode) TakesAddress() bool {
	_, ok := addressOps[op.String()]
	return ok
}

// Cost returns the execution cost of op on the reference machine.
func Cost(op Opcode) int64 {
	if op >= 0 && int(op) < len(costs) {
		return costs[op]
	}
	return 0
}

// Instruction is one opcode plus at most one operand.
type Instruction struct {
	Op  Opcode
	Arg int64
}

func (in Instruction) String() string {
	if !in.Op.HasOperand() {
		return in.Op.String()
	}
	return fmt.Sprintf("%s %d", in.Op, in.Arg)
}

// Program is an ordered instruction sequence; index 0 is the entry point.
type Program []Instruction

// String renders the program one instruction per line.
func (p Program) String() string {
	var sb strings.Builder
	for _, in := range p {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Listing renders the program with instruction indexes and, for jumps, the
// absolute target they resolve to.
func (p Program) Listing() string {
	var sb strings.Builder
	width := len(strconv.Itoa(len(p)))
	for i, in := range p {
		fmt.Fprintf(&sb, "%*d  %-12s", width, i, in)
		if in.Op.IsJump() {
			fmt.Fprintf(&sb, " ; -> %d", int64(i)+in.Arg)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CheckJumps verifies that every relative jump in p lands inside the program.
func CheckJumps(p Program) error {
	for i, in := range p {
		if !in.Op.IsJump() {
			continue
		}
		target := int64(i) + in.Arg
		if target < 0 || target >= int64(len(p)) {
			return fmt.Errorf("instruction %d (%s) jumps to %d outside [0, %d)", i, in, target, len(p))
		}
	}
	return nil
}

// Parse reads a program in the text format produced by Program.String.
// Blank lines and '#' comments are ignored.
func Parse(text string) (Program, error) {
	var prog Program
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		in, ok, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		if ok {
			prog = append(prog, in)
		}
	}
	return prog, nil
}

func parseLine(raw string, lineNo int) (Instruction, bool, error) {
	if idx := strings.IndexByte(raw, '#'); idx != -1 {
		raw = raw[:idx]
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Instruction{}, false, nil
	}
	mnemonic := strings.ToUpper(fields[0])
	ops := fields[1:]

	if op, ok := zeroOperandOps[mnemonic]; ok {
		if len(ops) != 0 {
			return Instruction{}, false, fmt.Errorf("%s expects 0 operands on line %d", mnemonic, lineNo)
		}
		return Instruction{Op: op}, true, nil
	}

	if op, ok := addressOps[mnemonic]; ok {
		if len(ops) != 1 {
			return Instruction{}, false, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
		}
		val, err := parseOperand(ops[0], lineNo)
		if err != nil {
			return Instruction{}, false, err
		}
		if val < 0 {
			return Instruction{}, false, fmt.Errorf("negative address %d on line %d", val, lineNo)
		}
		return Instruction{Op: op, Arg: val}, true, nil
	}

	if op, ok := immediateOps[mnemonic]; ok {
		if len(ops) != 1 {
			return Instruction{}, false, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
		}
		val, err := parseOperand(ops[0], lineNo)
		if err != nil {
			return Instruction{}, false, err
		}
		return Instruction{Op: op, Arg: val}, true, nil
	}

	return Instruction{}, false, fmt.Errorf("unknown instruction on line %d: %s", lineNo, fields[0])
}

func parseOperand(s string, lineNo int) (int64, error) {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid operand on line %d: %s", lineNo, s)
	}
	return val, nil
}

package compiler

import "goacc/pkg/asm"

// fixups resolves forward and backward jumps to named positions inside one
// self-contained instruction block.
type fixups struct {
	g     *CodeGen
	marks map[string]int
	refs  []fixupRef
}

type fixupRef struct {
	at    int
	label string
}

func (g *CodeGen) newFixups() *fixups {
	return &fixups{g: g, marks: make(map[string]int)}
}

// jump emits op with a placeholder operand bound to label.
func (f *fixups) jump(op asm.Opcode, label string) {
	f.refs = append(f.refs, fixupRef{at: f.g.emit(op, 0), label: label})
}

// mark binds label to the next instruction.
func (f *fixups) mark(label string) {
	f.marks[label] = f.g.here()
}

func (f *fixups) resolve() {
	for _, r := range f.refs {
		target, ok := f.marks[r.label]
		if !ok {
			panic("compiler: unbound label " + r.label)
		}
		f.g.patch(r.at, target)
	}
}

// negate emits cell := -cell.
func (g *CodeGen) negate(cell int64) {
	g.emit(asm.LOAD, cell)
	g.emit(asm.SUB, cell)
	g.emit(asm.SUB, cell)
	g.emit(asm.STORE, cell)
}

// multiply emits cellLeft * cellRight into the accumulator using
// double-and-add over the smaller magnitude.
func (g *CodeGen) multiply() {
	const (
		a    = cellLeft
		b    = cellRight
		sign = cellMulSign
		res  = cellMulRes
	)
	f := g.newFixups()

	g.emit(asm.SET, 0)
	g.emit(asm.STORE, res)
	g.emit(asm.SET, 1)
	g.emit(asm.STORE, sign)

	g.emit(asm.LOAD, a)
	f.jump(asm.JPOS, "aPos")
	f.jump(asm.JZERO, "aPos")
	g.negate(sign)
	g.negate(a)
	f.mark("aPos")

	g.emit(asm.LOAD, b)
	f.jump(asm.JPOS, "bPos")
	f.jump(asm.JZERO, "bPos")
	g.negate(sign)
	g.negate(b)
	f.mark("bPos")

	// keep the smaller factor in b
	g.emit(asm.LOAD, a)
	g.emit(asm.SUB, b)
	f.jump(asm.JPOS, "noSwap")
	g.emit(asm.LOAD, a)
	g.emit(asm.ADD, b)
	g.emit(asm.STORE, a)
	g.emit(asm.LOAD, a)
	g.emit(asm.SUB, b)
	g.emit(asm.STORE, b)
	g.emit(asm.LOAD, a)
	g.emit(asm.SUB, b)
	g.emit(asm.STORE, a)
	f.mark("noSwap")

	f.mark("loop")
	g.emit(asm.LOAD, b)
	f.jump(asm.JZERO, "done")
	g.emit(asm.HALF, 0)
	g.emit(asm.ADD, cellAcc)
	g.emit(asm.SUB, b)
	f.jump(asm.JZERO, "even")
	g.emit(asm.LOAD, res)
	g.emit(asm.ADD, a)
	g.emit(asm.STORE, res)
	f.mark("even")
	g.emit(asm.LOAD, a)
	g.emit(asm.ADD, a)
	g.emit(asm.STORE, a)
	g.emit(asm.LOAD, b)
	g.emit(asm.HALF, 0)
	g.emit(asm.STORE, b)
	f.jump(asm.JUMP, "loop")

	f.mark("done")
	g.emit(asm.LOAD, sign)
	f.jump(asm.JPOS, "pos")
	g.negate(res)
	f.mark("pos")
	g.emit(asm.LOAD, res)

	f.resolve()
}

// divide emits floor(cellLeft / cellRight), or the matching remainder when
// modulo is set, into the accumulator. Division by zero yields 0.
//
// The magnitudes are divided by repeated doubling of the divisor. When the
// operand signs differ and the remainder is non-zero the quotient is
// rounded down and the remainder taken from the other side, so the
// remainder always carries the divisor's sign.
func (g *CodeGen) divide(modulo bool) {
	const (
		a     = cellLeft
		b     = cellRight
		q     = cellQuot
		r     = cellRem
		d     = cellDiv
		bsign = cellDivSign
		m     = cellMult
		sign  = cellSign
	)
	f := g.newFixups()

	g.emit(asm.SET, 1)
	g.emit(asm.STORE, sign)
	g.emit(asm.STORE, bsign)

	g.emit(asm.LOAD, a)
	f.jump(asm.JPOS, "aPos")
	f.jump(asm.JZERO, "aPos")
	g.emit(asm.SET, -1)
	g.emit(asm.STORE, sign)
	g.negate(a)
	f.mark("aPos")

	g.emit(asm.LOAD, b)
	f.jump(asm.JPOS, "bPos")
	f.jump(asm.JZERO, "bPos")
	g.negate(sign)
	g.emit(asm.SET, -1)
	g.emit(asm.STORE, bsign)
	g.negate(b)
	f.mark("bPos")

	g.emit(asm.SET, 0)
	g.emit(asm.STORE, q)
	g.emit(asm.STORE, r)
	g.emit(asm.LOAD, b)
	f.jump(asm.JZERO, "signed")
	g.emit(asm.LOAD, a)
	g.emit(asm.STORE, r)

	f.mark("outer")
	g.emit(asm.LOAD, r)
	g.emit(asm.SUB, b)
	f.jump(asm.JNEG, "fix")
	g.emit(asm.LOAD, b)
	g.emit(asm.STORE, d)
	g.emit(asm.SET, 1)
	g.emit(asm.STORE, m)

	f.mark("inner")
	g.emit(asm.LOAD, r)
	g.emit(asm.SUB, d)
	g.emit(asm.SUB, d)
	f.jump(asm.JNEG, "step")
	g.emit(asm.LOAD, d)
	g.emit(asm.ADD, d)
	g.emit(asm.STORE, d)
	g.emit(asm.LOAD, m)
	g.emit(asm.ADD, m)
	g.emit(asm.STORE, m)
	f.jump(asm.JUMP, "inner")

	f.mark("step")
	g.emit(asm.LOAD, r)
	g.emit(asm.SUB, d)
	g.emit(asm.STORE, r)
	g.emit(asm.LOAD, q)
	g.emit(asm.ADD, m)
	g.emit(asm.STORE, q)
	f.jump(asm.JUMP, "outer")

	f.mark("fix")
	g.emit(asm.LOAD, sign)
	f.jump(asm.JPOS, "signed")
	g.emit(asm.LOAD, r)
	f.jump(asm.JZERO, "signed")
	g.emit(asm.SET, 1)
	g.emit(asm.ADD, q)
	g.emit(asm.STORE, q)
	g.emit(asm.LOAD, b)
	g.emit(asm.SUB, r)
	g.emit(asm.STORE, r)

	f.mark("signed")
	result, resultSign := int64(q), int64(sign)
	if modulo {
		result, resultSign = r, bsign
	}
	g.emit(asm.LOAD, resultSign)
	f.jump(asm.JPOS, "done")
	g.negate(result)
	f.mark("done")
	g.emit(asm.LOAD, result)

	f.resolve()
}

// foldConst evaluates a literal operation with the same floor semantics as
// the emitted arithmetic.
func foldConst(op TokenType, a, b int64) int64 {
	switch op {
	case PLUS:
		return a + b
	case MINUS:
		return a - b
	case STAR:
		return a * b
	case SLASH:
		if b == 0 {
			return 0
		}
		return floorDiv(a, b)
	case PERCENT:
		if b == 0 {
			return 0
		}
		return a - floorDiv(a, b)*b
	}
	return 0
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

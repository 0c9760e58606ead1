package compiler

import "goacc/pkg/asm"

// canonical rewrites a comparison into one of the two tests the machine
// can branch on, "left - right > 0" (GT) or "left - right = 0" (EQ).
// The source comparison holds exactly when the test result differs from
// negate.
func canonical(c *Comparison) (op TokenType, left, right Value, negate bool) {
	switch c.Op {
	case EQ:
		return EQ, c.Left, c.Right, false
	case NE:
		return EQ, c.Left, c.Right, true
	case GT:
		return GT, c.Left, c.Right, false
	case LT:
		return GT, c.Right, c.Left, false
	case GE:
		return GT, c.Right, c.Left, true
	default: // LE
		return GT, c.Left, c.Right, true
	}
}

func branchOp(op TokenType) asm.Opcode {
	if op == EQ {
		return asm.JZERO
	}
	return asm.JPOS
}

// compare emits LOAD l; SUB r; and a branch that skips the next
// instruction when the test holds. The branch is the last instruction
// emitted, so callers may retarget it.
func (g *CodeGen) compare(l, r int64, op TokenType) {
	g.emit(asm.LOAD, l)
	g.emit(asm.SUB, r)
	g.emit(branchOp(op), 2)
}

// genCondition emits the canonical test for c and returns its form.
func (g *CodeGen) genCondition(c *Comparison) (op TokenType, negate bool, err error) {
	op, left, right, negate := canonical(c)
	if err := g.loadValue(left); err != nil {
		return op, negate, err
	}
	g.emit(asm.STORE, cellCondL)
	if err := g.loadValue(right); err != nil {
		return op, negate, err
	}
	g.emit(asm.STORE, cellCondR)
	g.compare(cellCondL, cellCondR, op)
	return op, negate, nil
}

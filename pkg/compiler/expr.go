package compiler

import "goacc/pkg/asm"

// genExpr leaves the value of e in the accumulator. Binary operands go
// through cellLeft and cellRight.
func (g *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {
	case *Number:
		g.emit(asm.SET, n.Value)
		return nil
	case *Load:
		return g.valueOf(n.Target)
	case *BinaryExpr:
		return g.genBinary(n)
	}
	return nil
}

func (g *CodeGen) genBinary(n *BinaryExpr) error {
	left, leftLit := n.Left.(*Number)
	right, rightLit := n.Right.(*Number)

	if leftLit && rightLit {
		g.emit(asm.SET, foldConst(n.Op, left.Value, right.Value))
		return nil
	}

	switch {
	case n.Op == STAR && leftLit && left.Value == 2:
		if err := g.loadValue(n.Right); err != nil {
			return err
		}
		g.emit(asm.ADD, cellAcc)
		return nil
	case n.Op == STAR && rightLit && right.Value == 2:
		if err := g.loadValue(n.Left); err != nil {
			return err
		}
		g.emit(asm.ADD, cellAcc)
		return nil
	case n.Op == SLASH && rightLit && right.Value == 2:
		if err := g.loadValue(n.Left); err != nil {
			return err
		}
		g.emit(asm.HALF, 0)
		return nil
	}

	if err := g.loadValue(n.Right); err != nil {
		return err
	}
	g.emit(asm.STORE, cellRight)
	if err := g.loadValue(n.Left); err != nil {
		return err
	}
	g.emit(asm.STORE, cellLeft)

	switch n.Op {
	case PLUS:
		g.emit(asm.ADD, cellRight)
	case MINUS:
		g.emit(asm.SUB, cellRight)
	case STAR:
		g.multiply()
	case SLASH:
		g.divide(false)
	case PERCENT:
		g.divide(true)
	}
	return nil
}

package compiler

import "goacc/pkg/asm"

// checkInitialized reports a read of a variable that has not been written.
// Inside a loop an earlier iteration may have written it, so the error is
// downgraded to a warning there.
func (g *CodeGen) checkInitialized(sym *Symbol) {
	if sym.Kind != KindVariable || sym.Initialized {
		return
	}
	if g.loopDepth == 0 {
		g.diags.Errorf(g.line, UninitializedVariable, "variable '%s' not initialized", sym.Name)
	} else {
		g.diags.Warnf(g.line, UninitializedVariable, "variable '%s' may be not initialized", sym.Name)
	}
}

func (g *CodeGen) lookupScalar(name string) (*Symbol, error) {
	sym, err := g.scope.Lookup(name)
	if err != nil {
		return nil, err
	}
	switch sym.Kind {
	case KindArray:
		return nil, semErr(WrongKind, name, "'%s' is an array, consider: '%s[INDEX]'", name, name)
	case KindPointer:
		if sym.Ref == KindArray {
			return nil, semErr(WrongKind, name, "'%s' refers to an array, consider: '%s[INDEX]'", name, name)
		}
	case KindIterator:
		if !sym.Active {
			return nil, semErr(IteratorOutOfScope, name, "iterator '%s' is used outside of its loop", name)
		}
	}
	return sym, nil
}

func (g *CodeGen) lookupArray(name string) (*Symbol, error) {
	sym, err := g.scope.Lookup(name)
	if err != nil {
		return nil, err
	}
	if sym.Kind == KindArray || (sym.Kind == KindPointer && sym.Ref == KindArray) {
		return sym, nil
	}
	return nil, semErr(WrongKind, name, "'%s' is not an array", name)
}

// loadIndex leaves the value of an array subscript in the accumulator
// without touching any scratch cell.
func (g *CodeGen) loadIndex(idx Index) error {
	switch n := idx.(type) {
	case *Number:
		g.emit(asm.SET, n.Value)
		return nil
	case *VarRef:
		return g.valueOf(n)
	}
	return nil
}

// loadValue leaves a literal or the value of an identifier in the accumulator.
func (g *CodeGen) loadValue(v Value) error {
	switch n := v.(type) {
	case *Number:
		g.emit(asm.SET, n.Value)
		return nil
	case *Load:
		return g.valueOf(n.Target)
	}
	return nil
}

// addressOf leaves the absolute cell address of id in the accumulator.
// Uses cellAddr as scratch.
func (g *CodeGen) addressOf(id Identifier) error {
	switch n := id.(type) {
	case *VarRef:
		sym, err := g.lookupScalar(n.Ident)
		if err != nil {
			return err
		}
		if sym.Kind == KindPointer {
			g.emit(asm.LOAD, sym.Location)
		} else {
			g.emit(asm.SET, sym.Location)
		}
		return nil

	case *IndexRef:
		sym, err := g.lookupArray(n.Ident)
		if err != nil {
			return err
		}
		if sym.Kind == KindArray {
			if lit, ok := n.Index.(*Number); ok {
				addr, err := g.scope.ElementAddress(n.Ident, lit.Value)
				if err != nil {
					return err
				}
				g.emit(asm.SET, addr)
				return nil
			}
			// base + 1 + (index - lower)
			g.emit(asm.LOAD, sym.Location)
			g.emit(asm.STORE, cellAddr)
			if err := g.loadIndex(n.Index); err != nil {
				return err
			}
			g.emit(asm.SUB, cellAddr)
			g.emit(asm.STORE, cellAddr)
			g.emit(asm.SET, sym.Location+1)
			g.emit(asm.ADD, cellAddr)
			return nil
		}
		// pointer to array: the lower bound sits in the cell it points at
		g.emit(asm.LOADI, sym.Location)
		g.emit(asm.STORE, cellAddr)
		if err := g.loadIndex(n.Index); err != nil {
			return err
		}
		g.emit(asm.SUB, cellAddr)
		g.emit(asm.STORE, cellAddr)
		g.emit(asm.SET, 1)
		g.emit(asm.ADD, sym.Location)
		g.emit(asm.ADD, cellAddr)
		return nil
	}
	return nil
}

// valueOf leaves the value stored at id in the accumulator.
// Uses cellVal as scratch.
func (g *CodeGen) valueOf(id Identifier) error {
	switch n := id.(type) {
	case *VarRef:
		sym, err := g.lookupScalar(n.Ident)
		if err != nil {
			return err
		}
		if sym.Kind == KindPointer {
			g.emit(asm.LOADI, sym.Location)
			return nil
		}
		g.checkInitialized(sym)
		g.emit(asm.LOAD, sym.Location)
		return nil

	case *IndexRef:
		sym, err := g.lookupArray(n.Ident)
		if err != nil {
			return err
		}
		if sym.Kind == KindArray {
			if lit, ok := n.Index.(*Number); ok {
				addr, err := g.scope.ElementAddress(n.Ident, lit.Value)
				if err != nil {
					return err
				}
				g.emit(asm.LOAD, addr)
				return nil
			}
			g.emit(asm.LOAD, sym.Location)
			g.emit(asm.STORE, cellVal)
			if err := g.loadIndex(n.Index); err != nil {
				return err
			}
			g.emit(asm.SUB, cellVal)
			g.emit(asm.STORE, cellVal)
			g.emit(asm.SET, sym.Location+1)
			g.emit(asm.ADD, cellVal)
			g.emit(asm.LOADI, cellAcc)
			return nil
		}
		g.emit(asm.LOADI, sym.Location)
		g.emit(asm.STORE, cellVal)
		if err := g.loadIndex(n.Index); err != nil {
			return err
		}
		g.emit(asm.SUB, cellVal)
		g.emit(asm.STORE, cellVal)
		g.emit(asm.SET, 1)
		g.emit(asm.ADD, cellVal)
		g.emit(asm.STORE, cellVal)
		g.emit(asm.LOAD, sym.Location)
		g.emit(asm.ADD, cellVal)
		g.emit(asm.LOADI, cellAcc)
		return nil
	}
	return nil
}

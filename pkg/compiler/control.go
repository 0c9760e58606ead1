package compiler

import "goacc/pkg/asm"

func (g *CodeGen) genCommands(cmds []Command) {
	for _, cmd := range cmds {
		g.genCommand(cmd)
	}
}

// genCommand compiles one command. Semantic errors are recorded on the
// command's line and compilation moves on to the next command.
func (g *CodeGen) genCommand(cmd Command) {
	g.line = cmd.CmdLine()
	switch n := cmd.(type) {
	case *AssignCmd:
		g.genAssign(n)
	case *ReadCmd:
		g.genRead(n)
	case *WriteCmd:
		g.genWrite(n)
	case *IfCmd:
		g.genIf(n)
	case *WhileCmd:
		g.genWhile(n)
	case *RepeatCmd:
		g.genRepeat(n)
	case *ForCmd:
		g.genFor(n)
	case *CallCmd:
		g.genCall(n)
	}
}

// checkWritable rejects writes to loop iterators.
func (g *CodeGen) checkWritable(id Identifier) error {
	sym, err := g.scope.Lookup(id.Name())
	if err != nil {
		return err
	}
	if sym.Kind != KindIterator {
		return nil
	}
	if !sym.Active {
		return semErr(IteratorOutOfScope, sym.Name, "iterator '%s' is used outside of its loop", sym.Name)
	}
	return semErr(IteratorIsReadOnly, sym.Name, "can not modify loop iterator '%s'", sym.Name)
}

// markInitialized records a write to a plain variable.
func (g *CodeGen) markInitialized(id Identifier) {
	ref, ok := id.(*VarRef)
	if !ok {
		return
	}
	if sym, err := g.scope.Lookup(ref.Ident); err == nil && sym.Kind == KindVariable {
		sym.Initialized = true
	}
}

func (g *CodeGen) genAssign(n *AssignCmd) {
	defer g.markInitialized(n.Target)
	if err := g.checkWritable(n.Target); err != nil {
		g.report(err)
		return
	}
	if err := g.addressOf(n.Target); err != nil {
		g.report(err)
		return
	}
	g.emit(asm.STORE, cellTarget)
	if err := g.genExpr(n.Value); err != nil {
		g.report(err)
		return
	}
	g.emit(asm.STOREI, cellTarget)
}

func (g *CodeGen) genRead(n *ReadCmd) {
	defer g.markInitialized(n.Target)
	if err := g.checkWritable(n.Target); err != nil {
		g.report(err)
		return
	}
	if err := g.addressOf(n.Target); err != nil {
		g.report(err)
		return
	}
	g.emit(asm.STORE, cellTarget)
	g.emit(asm.GET, cellAcc)
	g.emit(asm.STOREI, cellTarget)
}

func (g *CodeGen) genWrite(n *WriteCmd) {
	if err := g.loadValue(n.Value); err != nil {
		g.report(err)
		return
	}
	g.emit(asm.PUT, cellAcc)
}

// genIf lays out
//
//	cond; JUMP else; then...; JUMP end; else...; end:
//
// with the two blocks swapped when the canonical test is negated.
func (g *CodeGen) genIf(n *IfCmd) {
	_, negate, err := g.genCondition(n.Cond)
	g.report(err)

	first, second := n.Then, n.Else
	if negate {
		first, second = second, first
	}

	toSecond := g.emit(asm.JUMP, 0)
	g.genCommands(first)
	toEnd := g.emit(asm.JUMP, 0)
	g.genCommands(second)

	g.patch(toSecond, toEnd+1)
	g.patch(toEnd, g.here())
}

// genWhile tests before the body. A negated test exits through the
// condition's own branch; otherwise a separate jump skips the body.
func (g *CodeGen) genWhile(n *WhileCmd) {
	start := g.here()
	op, negate, err := g.genCondition(n.Cond)
	if err != nil {
		g.report(err)
		g.inLoop(n.Body)
		return
	}

	if !negate {
		exit := g.emit(asm.JUMP, 0)
		g.inLoop(n.Body)
		g.emit(asm.JUMP, int64(start-g.here()))
		g.patch(exit, g.here())
		return
	}

	branch := g.here() - 1
	g.inLoop(n.Body)
	g.emit(asm.JUMP, int64(start-g.here()))
	g.patchOp(branch, branchOp(op), g.here())
}

// genRepeat runs the body, then tests. A negated test loops back through
// the condition's own branch.
func (g *CodeGen) genRepeat(n *RepeatCmd) {
	start := g.here()
	g.inLoop(n.Body)

	g.line = n.Line
	op, negate, err := g.genCondition(n.Cond)
	if err != nil {
		g.report(err)
		return
	}
	if !negate {
		g.emit(asm.JUMP, int64(start-g.here()))
		return
	}
	g.patchOp(g.here()-1, branchOp(op), start)
}

// genFor compiles a counted loop. The end bound is copied into the
// iterator's second cell once, before the first test.
func (g *CodeGen) genFor(n *ForCmd) {
	it, err := g.scope.DeclareIterator(n.Iterator)
	if err != nil {
		g.report(err)
		g.inLoop(n.Body)
		return
	}

	// the iterator is not in scope while its bounds are evaluated
	if err := g.loadValue(n.From); err != nil {
		g.report(err)
	}
	g.emit(asm.STORE, it.Location)
	if err := g.loadValue(n.To); err != nil {
		g.report(err)
	}
	g.emit(asm.STORE, it.Location+1)
	it.Active = true

	start := g.here()
	step := int64(1)
	if n.Downto {
		g.compare(it.Location+1, it.Location, GT)
		step = -1
	} else {
		g.compare(it.Location, it.Location+1, GT)
	}
	exit := g.here() - 1

	g.inLoop(n.Body)

	g.emit(asm.SET, step)
	g.emit(asm.ADD, it.Location)
	g.emit(asm.STORE, it.Location)
	g.emit(asm.JUMP, int64(start-g.here()))
	g.patch(exit, g.here())

	g.report(g.scope.RetireIterator(n.Iterator))
}

// inLoop compiles a loop body one level deeper.
func (g *CodeGen) inLoop(body []Command) {
	g.loopDepth++
	g.genCommands(body)
	g.loopDepth--
}

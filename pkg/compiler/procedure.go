package compiler

import "goacc/pkg/asm"

// genProcedure compiles one procedure body. The procedure becomes callable
// only after its body is compiled, so a body can never call itself or a
// procedure declared after it.
//
// Scope layout: callback cell, one pointer cell per parameter, then the
// declarations. The body ends by jumping back through the callback cell.
func (g *CodeGen) genProcedure(proc *Procedure) {
	g.line = proc.Line
	if _, dup := g.procs[proc.Name]; dup {
		g.diags.Errorf(proc.Line, DuplicateDeclaration, "procedure '%s' already declared", proc.Name)
		return
	}
	if len(g.code) == 0 {
		// jump over the procedures to main; patched by genMain
		g.emit(asm.JUMP, 0)
	}

	info := &procInfo{
		Entry:    g.here(),
		Callback: g.offset,
	}
	g.scope = NewSymbolTable(proc.Name, g.offset+1)
	g.scopes = append(g.scopes, g.scope)

	for _, prm := range proc.Params {
		ref := KindVariable
		if prm.IsArray {
			ref = KindArray
		}
		sym, err := g.scope.DeclarePointer(prm.Ident, ref)
		if err != nil {
			g.report(err)
		}
		info.Params = append(info.Params, sym)
	}

	g.genDeclarations(proc.Decls)
	g.genCommands(proc.Commands)

	g.procs[proc.Name] = info
	g.offset = g.scope.Offset()

	g.emit(asm.RTRN, info.Callback)
}

// genCall stores each argument's address in the matching parameter cell,
// stores the return index in the callback cell and jumps to the entry.
func (g *CodeGen) genCall(n *CallCmd) {
	// arguments may be written by the callee
	for _, arg := range n.Args {
		if sym, err := g.scope.Lookup(arg); err == nil && sym.Kind == KindVariable {
			sym.Initialized = true
		}
	}

	info, ok := g.procs[n.Proc]
	if !ok {
		g.diags.Errorf(n.Line, UndeclaredProcedure,
			"undeclared procedure '%s' (recursive calls are not allowed)", n.Proc)
		return
	}
	if len(n.Args) != len(info.Params) {
		g.diags.Errorf(n.Line, ArityMismatch,
			"procedure '%s' expects %d parameter(s), provided: %d", n.Proc, len(info.Params), len(n.Args))
		return
	}

	for i, arg := range n.Args {
		param := info.Params[i]
		if param == nil {
			continue
		}
		if err := g.passArgument(n.Proc, arg, param); err != nil {
			g.report(err)
			continue
		}
		g.emit(asm.STORE, param.Location)
	}

	g.emit(asm.SET, int64(g.here()+3))
	g.emit(asm.STORE, info.Callback)
	g.emit(asm.JUMP, int64(info.Entry-g.here()))
}

// passArgument leaves the address to bind to param in the accumulator.
func (g *CodeGen) passArgument(proc, arg string, param *Symbol) error {
	sym, err := g.scope.Lookup(arg)
	if err != nil {
		return err
	}
	kind := sym.Kind
	if kind == KindPointer {
		kind = sym.Ref
	}
	if kind != param.Ref {
		return semErr(ArgumentKindMismatch, arg,
			"incorrect type of argument '%s' provided to procedure '%s': expected %s, got %s",
			arg, proc, param.Ref, kind)
	}

	switch sym.Kind {
	case KindVariable, KindArray:
		g.emit(asm.SET, sym.Location)
	case KindPointer:
		g.emit(asm.LOAD, sym.Location)
	}
	return nil
}

package compiler

import (
	"goacc/pkg/asm"
)

// procInfo is a compiled procedure as seen by its callers.
type procInfo struct {
	Entry    int       // index of the first instruction of the body
	Callback int64     // cell holding the return address
	Params   []*Symbol // nil where the parameter failed to declare
}

// CodeGen walks an AST and emits instructions for the accumulator machine.
// One CodeGen serves one compilation run.
type CodeGen struct {
	code   asm.Program
	scope  *SymbolTable
	scopes []*SymbolTable

	procs map[string]*procInfo

	diags     *Diagnostics
	loopDepth int
	line      int   // source line of the command being compiled
	offset    int64 // first free cell for the next program unit
}

func newCodeGen(diags *Diagnostics) *CodeGen {
	return &CodeGen{
		procs:  make(map[string]*procInfo),
		diags:  diags,
		offset: FirstUserCell,
	}
}

// emit appends one instruction and returns its index.
func (g *CodeGen) emit(op asm.Opcode, arg int64) int {
	g.code = append(g.code, asm.Instruction{Op: op, Arg: arg})
	return len(g.code) - 1
}

// here is the index the next emitted instruction will get.
func (g *CodeGen) here() int { return len(g.code) }

// patch points the jump at index at to target.
func (g *CodeGen) patch(at, target int) {
	g.code[at].Arg = int64(target - at)
}

// patchOp replaces the jump at index at with op pointing to target.
func (g *CodeGen) patchOp(at int, op asm.Opcode, target int) {
	g.code[at] = asm.Instruction{Op: op, Arg: int64(target - at)}
}

// report records err as an error on the current line.
func (g *CodeGen) report(err error) {
	if err != nil {
		g.diags.Report(g.line, err)
	}
}

// Generate compiles prog. Diagnostics are recorded in diags; the returned
// instructions are only meaningful when diags has no errors.
func Generate(prog *Program, diags *Diagnostics) (asm.Program, []*SymbolTable) {
	g := newCodeGen(diags)
	for _, proc := range prog.Procedures {
		g.genProcedure(proc)
	}
	g.genMain(prog.Main)
	return g.code, g.scopes
}

func (g *CodeGen) genMain(m *Main) {
	if len(g.code) > 0 {
		// skip over the procedure bodies
		g.patch(0, g.here())
	}
	g.scope = NewSymbolTable("main", g.offset)
	g.scopes = append(g.scopes, g.scope)
	g.line = m.Line
	g.genDeclarations(m.Decls)
	g.genCommands(m.Commands)
	g.offset = g.scope.Offset()
	g.emit(asm.HALT, 0)
}

// genDeclarations allocates each declared name. Arrays also store their
// lower bound in their base cell when the unit starts running.
func (g *CodeGen) genDeclarations(decls []Decl) {
	for _, decl := range decls {
		g.line = decl.DeclLine()
		switch d := decl.(type) {
		case *VarDecl:
			_, err := g.scope.DeclareVariable(d.Ident)
			g.report(err)
		case *ArrayDecl:
			sym, err := g.scope.DeclareArray(d.Ident, d.Lower, d.Upper)
			if err != nil {
				g.report(err)
				continue
			}
			g.emit(asm.SET, d.Lower)
			g.emit(asm.STORE, sym.Location)
		}
	}
}

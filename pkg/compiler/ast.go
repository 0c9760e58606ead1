package compiler

import (
	"fmt"
	"strings"
)

//  Values and identifiers

// Identifier names a storage location: a scalar, or an array element.
type Identifier interface {
	identNode()
	Name() string
	String() string
}

// VarRef is a plain name.
//
//	x := 1;
//	^  VarRef{Ident: "x"}
type VarRef struct {
	Ident string
}

func (*VarRef) identNode()       {}
func (v *VarRef) Name() string   { return v.Ident }
func (v *VarRef) String() string { return v.Ident }

// IndexRef is an array element.
//
//	t[j] := 1;    IndexRef{Ident: "t", Index: &VarRef{Ident: "j"}}
//	t[-2] := 1;   IndexRef{Ident: "t", Index: &Number{Value: -2}}
type IndexRef struct {
	Ident string
	Index Index
}

func (*IndexRef) identNode()       {}
func (r *IndexRef) Name() string   { return r.Ident }
func (r *IndexRef) String() string { return fmt.Sprintf("%s[%s]", r.Ident, r.Index) }

// Index is an array subscript: a literal or a plain name.
type Index interface {
	indexNode()
	String() string
}

func (*Number) indexNode() {}
func (*VarRef) indexNode() {}

// Value is an operand: a literal or a read of an identifier.
type Value interface {
	Expr
	valueNode()
}

// Number is a literal integer, already negated when written as -NUM.
type Number struct {
	Value int64
}

func (*Number) valueNode()       {}
func (*Number) exprNode()        {}
func (n *Number) String() string { return fmt.Sprintf("%d", n.Value) }

// Load reads the value stored at Target.
type Load struct {
	Target Identifier
}

func (*Load) valueNode()       {}
func (*Load) exprNode()        {}
func (l *Load) String() string { return l.Target.String() }

//  Expressions

// Expr is a Value or a single binary operation on two Values.
type Expr interface {
	exprNode()
	String() string
}

// BinaryExpr represents Left Op Right where Op is one of + - * / %.
type BinaryExpr struct {
	Op    TokenType
	Left  Value
	Right Value
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", b.Left, b.Op.Symbol(), b.Right)
}

//  Conditions

// Comparison is Left Op Right with Op one of = != < > <= >=.
type Comparison struct {
	Op    TokenType
	Left  Value
	Right Value
}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op.Symbol(), c.Right)
}

//  Declarations

// Decl is a variable or array declaration in a program unit header.
type Decl interface {
	declNode()
	DeclName() string
	DeclLine() int
	String() string
}

type VarDecl struct {
	Ident string
	Line  int
}

func (*VarDecl) declNode()          {}
func (d *VarDecl) DeclName() string { return d.Ident }
func (d *VarDecl) DeclLine() int    { return d.Line }
func (d *VarDecl) String() string   { return d.Ident }

type ArrayDecl struct {
	Ident string
	Lower int64
	Upper int64
	Line  int
}

func (*ArrayDecl) declNode()          {}
func (d *ArrayDecl) DeclName() string { return d.Ident }
func (d *ArrayDecl) DeclLine() int    { return d.Line }
func (d *ArrayDecl) String() string   { return fmt.Sprintf("%s[%d:%d]", d.Ident, d.Lower, d.Upper) }

//  Commands

// Command is one statement. Every command carries its source line.
type Command interface {
	cmdNode()
	CmdLine() int
	String() string
}

// AssignCmd is Target := Value.
type AssignCmd struct {
	Target Identifier
	Value  Expr
	Line   int
}

// IfCmd has an empty Else when the source had no ELSE branch.
type IfCmd struct {
	Cond *Comparison
	Then []Command
	Else []Command
	Line int
}

type WhileCmd struct {
	Cond *Comparison
	Body []Command
	Line int
}

// RepeatCmd runs Body until Cond holds; Body runs at least once.
type RepeatCmd struct {
	Body []Command
	Cond *Comparison
	Line int
}

// ForCmd iterates Iterator from From to To inclusive, counting down when
// Downto is set.
type ForCmd struct {
	Iterator string
	From     Value
	To       Value
	Downto   bool
	Body     []Command
	Line     int
}

// CallCmd invokes a procedure with by-reference arguments.
type CallCmd struct {
	Proc string
	Args []string
	Line int
}

type ReadCmd struct {
	Target Identifier
	Line   int
}

type WriteCmd struct {
	Value Value
	Line  int
}

func (*AssignCmd) cmdNode() {}
func (*IfCmd) cmdNode()     {}
func (*WhileCmd) cmdNode()  {}
func (*RepeatCmd) cmdNode() {}
func (*ForCmd) cmdNode()    {}
func (*CallCmd) cmdNode()   {}
func (*ReadCmd) cmdNode()   {}
func (*WriteCmd) cmdNode()  {}

func (c *AssignCmd) CmdLine() int { return c.Line }
func (c *IfCmd) CmdLine() int     { return c.Line }
func (c *WhileCmd) CmdLine() int  { return c.Line }
func (c *RepeatCmd) CmdLine() int { return c.Line }
func (c *ForCmd) CmdLine() int    { return c.Line }
func (c *CallCmd) CmdLine() int   { return c.Line }
func (c *ReadCmd) CmdLine() int   { return c.Line }
func (c *WriteCmd) CmdLine() int  { return c.Line }

func (c *AssignCmd) String() string { return fmt.Sprintf("%s := %s;", c.Target, c.Value) }
func (c *IfCmd) String() string {
	if len(c.Else) == 0 {
		return fmt.Sprintf("IF %s THEN %s ENDIF", c.Cond, blockString(c.Then))
	}
	return fmt.Sprintf("IF %s THEN %s ELSE %s ENDIF", c.Cond, blockString(c.Then), blockString(c.Else))
}
func (c *WhileCmd) String() string {
	return fmt.Sprintf("WHILE %s DO %s ENDWHILE", c.Cond, blockString(c.Body))
}
func (c *RepeatCmd) String() string {
	return fmt.Sprintf("REPEAT %s UNTIL %s;", blockString(c.Body), c.Cond)
}
func (c *ForCmd) String() string {
	dir := "TO"
	if c.Downto {
		dir = "DOWNTO"
	}
	return fmt.Sprintf("FOR %s FROM %s %s %s DO %s ENDFOR", c.Iterator, c.From, dir, c.To, blockString(c.Body))
}
func (c *CallCmd) String() string {
	return fmt.Sprintf("%s(%s);", c.Proc, strings.Join(c.Args, ", "))
}
func (c *ReadCmd) String() string  { return fmt.Sprintf("READ %s;", c.Target) }
func (c *WriteCmd) String() string { return fmt.Sprintf("WRITE %s;", c.Value) }

func blockString(cmds []Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

//  Program units

// Param is a formal procedure parameter; IsArray marks the T prefix.
type Param struct {
	Ident   string
	IsArray bool
}

func (p Param) String() string {
	if p.IsArray {
		return "T " + p.Ident
	}
	return p.Ident
}

type Procedure struct {
	Name     string
	Params   []Param
	Decls    []Decl
	Commands []Command
	Line     int
}

type Main struct {
	Decls    []Decl
	Commands []Command
	Line     int
}

// Program is the root of the AST.
type Program struct {
	Procedures []*Procedure
	Main       *Main
}

// Dump renders the program one command per line, indented by nesting.
func (p *Program) Dump() string {
	var sb strings.Builder
	for _, proc := range p.Procedures {
		params := make([]string, len(proc.Params))
		for i, prm := range proc.Params {
			params[i] = prm.String()
		}
		fmt.Fprintf(&sb, "PROCEDURE %s(%s) IS %s\n", proc.Name, strings.Join(params, ", "), declString(proc.Decls))
		dumpCommands(&sb, proc.Commands, 1)
		sb.WriteString("END\n")
	}
	if p.Main != nil {
		fmt.Fprintf(&sb, "PROGRAM IS %s\n", declString(p.Main.Decls))
		dumpCommands(&sb, p.Main.Commands, 1)
		sb.WriteString("END\n")
	}
	return sb.String()
}

func declString(decls []Decl) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

func dumpCommands(sb *strings.Builder, cmds []Command, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range cmds {
		switch n := c.(type) {
		case *IfCmd:
			fmt.Fprintf(sb, "%sIF %s THEN\n", indent, n.Cond)
			dumpCommands(sb, n.Then, depth+1)
			if len(n.Else) > 0 {
				fmt.Fprintf(sb, "%sELSE\n", indent)
				dumpCommands(sb, n.Else, depth+1)
			}
			fmt.Fprintf(sb, "%sENDIF\n", indent)
		case *WhileCmd:
			fmt.Fprintf(sb, "%sWHILE %s DO\n", indent, n.Cond)
			dumpCommands(sb, n.Body, depth+1)
			fmt.Fprintf(sb, "%sENDWHILE\n", indent)
		case *RepeatCmd:
			fmt.Fprintf(sb, "%sREPEAT\n", indent)
			dumpCommands(sb, n.Body, depth+1)
			fmt.Fprintf(sb, "%sUNTIL %s;\n", indent, n.Cond)
		case *ForCmd:
			dir := "TO"
			if n.Downto {
				dir = "DOWNTO"
			}
			fmt.Fprintf(sb, "%sFOR %s FROM %s %s %s DO\n", indent, n.Iterator, n.From, dir, n.To)
			dumpCommands(sb, n.Body, depth+1)
			fmt.Fprintf(sb, "%sENDFOR\n", indent)
		default:
			fmt.Fprintf(sb, "%s%s\n", indent, c)
		}
	}
}

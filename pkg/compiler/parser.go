package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program      = { procedure } main
//	procedure    = "PROCEDURE" pid "(" argsDecl ")" "IS" [ declarations ] "BEGIN" commands "END"
//	main         = "PROGRAM" "IS" [ declarations ] "BEGIN" commands "END"
//	declarations = decl { "," decl }
//	decl         = pid [ "[" num ":" num "]" ]
//	argsDecl     = [ "T" ] pid { "," [ "T" ] pid }
//	commands     = command { command }
//	command      = identifier ":=" expression ";"
//	             | "IF" condition "THEN" commands [ "ELSE" commands ] "ENDIF"
//	             | "WHILE" condition "DO" commands "ENDWHILE"
//	             | "REPEAT" commands "UNTIL" condition ";"
//	             | "FOR" pid "FROM" value ("TO"|"DOWNTO") value "DO" commands "ENDFOR"
//	             | pid "(" pid { "," pid } ")" ";"
//	             | "READ" identifier ";" | "WRITE" value ";"
//	expression   = value [ ("+"|"-"|"*"|"/"|"%") value ]
//	condition    = value ("="|"!="|">"|"<"|">="|"<=") value
//	value        = num | "-" num | identifier
//	identifier   = pid | pid "[" (pid | num | "-" num) "]"
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// Parse builds the AST for a whole source file.
func Parse(tokens []Token, rawSource string) (*Program, error) {
	return NewParser(tokens, rawSource).parseProgram()
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1 // Lines are 1-based

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return fmt.Errorf("line %d: %s\n  |> %s", tok.Line, msg, snippet)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// peekNext returns the token immediately after the current one.
func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+1]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for p.peek().Type == PROCEDURE {
		proc, err := p.parseProcedure()
		if err != nil {
			return nil, err
		}
		prog.Procedures = append(prog.Procedures, proc)
	}
	main, err := p.parseMain()
	if err != nil {
		return nil, err
	}
	prog.Main = main
	if tok := p.peek(); tok.Type != EOF {
		return nil, p.fmtError(tok, "unexpected %s (%q) after end of program", tok.Type, tok.Lexeme)
	}
	return prog, nil
}

func (p *Parser) parseProcedure() (*Procedure, error) {
	head, err := p.expect(PROCEDURE)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(PIDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []Param
	for {
		isArray := false
		if p.peek().Type == T {
			p.advance()
			isArray = true
		}
		id, err := p.expect(PIDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Ident: id.Lexeme, IsArray: isArray})
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	decls, cmds, err := p.parseUnitBody()
	if err != nil {
		return nil, err
	}
	return &Procedure{Name: name.Lexeme, Params: params, Decls: decls, Commands: cmds, Line: head.Line}, nil
}

func (p *Parser) parseMain() (*Main, error) {
	head, err := p.expect(PROGRAM)
	if err != nil {
		return nil, err
	}
	decls, cmds, err := p.parseUnitBody()
	if err != nil {
		return nil, err
	}
	return &Main{Decls: decls, Commands: cmds, Line: head.Line}, nil
}

// parseUnitBody parses `IS [declarations] BEGIN commands END`.
func (p *Parser) parseUnitBody() ([]Decl, []Command, error) {
	if _, err := p.expect(IS); err != nil {
		return nil, nil, err
	}
	var decls []Decl
	if p.peek().Type != BEGIN {
		var err error
		decls, err = p.parseDeclarations()
		if err != nil {
			return nil, nil, err
		}
	}
	if _, err := p.expect(BEGIN); err != nil {
		return nil, nil, err
	}
	cmds, err := p.parseCommands()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(END); err != nil {
		return nil, nil, err
	}
	return decls, cmds, nil
}

func (p *Parser) parseDeclarations() ([]Decl, error) {
	var decls []Decl
	for {
		id, err := p.expect(PIDENT)
		if err != nil {
			return nil, err
		}
		if p.peek().Type == LBRACKET {
			p.advance()
			lower, err := p.parseSignedNum()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(COLON); err != nil {
				return nil, err
			}
			upper, err := p.parseSignedNum()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			decls = append(decls, &ArrayDecl{Ident: id.Lexeme, Lower: lower, Upper: upper, Line: id.Line})
		} else {
			decls = append(decls, &VarDecl{Ident: id.Lexeme, Line: id.Line})
		}
		if p.peek().Type != COMMA {
			return decls, nil
		}
		p.advance()
	}
}

// parseSignedNum parses NUM or -NUM.
func (p *Parser) parseSignedNum() (int64, error) {
	sign := ""
	if p.peek().Type == MINUS {
		p.advance()
		sign = "-"
	}
	tok, err := p.expect(NUM)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseInt(sign+tok.Lexeme, 10, 64)
	if err != nil {
		return 0, p.fmtError(tok, "invalid number %q", sign+tok.Lexeme)
	}
	return val, nil
}

// isBlockEnd reports whether tt closes a command list.
func isBlockEnd(tt TokenType) bool {
	switch tt {
	case END, ELSE, ENDIF, ENDWHILE, UNTIL, ENDFOR, EOF:
		return true
	}
	return false
}

func (p *Parser) parseCommands() ([]Command, error) {
	var cmds []Command
	for {
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
		if isBlockEnd(p.peek().Type) {
			return cmds, nil
		}
	}
}

func (p *Parser) parseCommand() (Command, error) {
	tok := p.peek()
	switch tok.Type {
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case REPEAT:
		return p.parseRepeat()
	case FOR:
		return p.parseFor()
	case READ:
		p.advance()
		target, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &ReadCmd{Target: target, Line: tok.Line}, nil
	case WRITE:
		p.advance()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &WriteCmd{Value: val, Line: tok.Line}, nil
	case PIDENT:
		if p.peekNext().Type == LPAREN {
			return p.parseCall()
		}
		return p.parseAssign()
	}
	return nil, p.fmtError(tok, "expected command, got %s (%q)", tok.Type, tok.Lexeme)
}

func (p *Parser) parseAssign() (Command, error) {
	target, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	tok, err := p.expect(ASSIGN)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &AssignCmd{Target: target, Value: expr, Line: tok.Line}, nil
}

func (p *Parser) parseCall() (Command, error) {
	name := p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var args []string
	for {
		id, err := p.expect(PIDENT)
		if err != nil {
			return nil, err
		}
		args = append(args, id.Lexeme)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &CallCmd{Proc: name.Lexeme, Args: args, Line: name.Line}, nil
}

func (p *Parser) parseIf() (Command, error) {
	head := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(THEN); err != nil {
		return nil, err
	}
	thenCmds, err := p.parseCommands()
	if err != nil {
		return nil, err
	}
	var elseCmds []Command
	if p.peek().Type == ELSE {
		p.advance()
		elseCmds, err = p.parseCommands()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(ENDIF); err != nil {
		return nil, err
	}
	return &IfCmd{Cond: cond, Then: thenCmds, Else: elseCmds, Line: head.Line}, nil
}

func (p *Parser) parseWhile() (Command, error) {
	head := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(DO); err != nil {
		return nil, err
	}
	body, err := p.parseCommands()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ENDWHILE); err != nil {
		return nil, err
	}
	return &WhileCmd{Cond: cond, Body: body, Line: head.Line}, nil
}

func (p *Parser) parseRepeat() (Command, error) {
	head := p.advance()
	body, err := p.parseCommands()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(UNTIL); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &RepeatCmd{Body: body, Cond: cond, Line: head.Line}, nil
}

func (p *Parser) parseFor() (Command, error) {
	head := p.advance()
	it, err := p.expect(PIDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(FROM); err != nil {
		return nil, err
	}
	from, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	downto := false
	switch tok := p.advance(); tok.Type {
	case TO:
	case DOWNTO:
		downto = true
	default:
		return nil, p.fmtError(tok, "expected TO or DOWNTO, got %s (%q)", tok.Type, tok.Lexeme)
	}
	to, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(DO); err != nil {
		return nil, err
	}
	body, err := p.parseCommands()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ENDFOR); err != nil {
		return nil, err
	}
	return &ForCmd{Iterator: it.Lexeme, From: from, To: to, Downto: downto, Body: body, Line: head.Line}, nil
}

func isArithOp(tt TokenType) bool {
	switch tt {
	case PLUS, MINUS, STAR, SLASH, PERCENT:
		return true
	}
	return false
}

func isRelOp(tt TokenType) bool {
	switch tt {
	case EQ, NE, LT, GT, LE, GE:
		return true
	}
	return false
}

func (p *Parser) parseExpression() (Expr, error) {
	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if !isArithOp(p.peek().Type) {
		return left, nil
	}
	op := p.advance().Type
	right, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseCondition() (*Comparison, error) {
	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	tok := p.advance()
	if !isRelOp(tok.Type) {
		return nil, p.fmtError(tok, "expected comparison operator, got %s (%q)", tok.Type, tok.Lexeme)
	}
	right, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Comparison{Op: tok.Type, Left: left, Right: right}, nil
}

func (p *Parser) parseValue() (Value, error) {
	switch p.peek().Type {
	case NUM, MINUS:
		n, err := p.parseSignedNum()
		if err != nil {
			return nil, err
		}
		return &Number{Value: n}, nil
	case PIDENT:
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return &Load{Target: id}, nil
	}
	tok := p.advance()
	return nil, p.fmtError(tok, "expected value, got %s (%q)", tok.Type, tok.Lexeme)
}

func (p *Parser) parseIdentifier() (Identifier, error) {
	id, err := p.expect(PIDENT)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != LBRACKET {
		return &VarRef{Ident: id.Lexeme}, nil
	}
	p.advance()
	var index Index
	if p.peek().Type == PIDENT {
		index = &VarRef{Ident: p.advance().Lexeme}
	} else {
		n, err := p.parseSignedNum()
		if err != nil {
			return nil, err
		}
		index = &Number{Value: n}
	}
	if _, err := p.expect(RBRACKET); err != nil {
		return nil, err
	}
	return &IndexRef{Ident: id.Lexeme, Index: index}, nil
}

package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	PIDENT // identifier: [_a-z]+
	NUM    // unsigned decimal literal

	// Keywords
	PROGRAM
	PROCEDURE
	IS
	BEGIN
	END
	IF
	THEN
	ELSE
	ENDIF
	WHILE
	DO
	ENDWHILE
	REPEAT
	UNTIL
	FOR
	FROM
	TO
	DOWNTO
	ENDFOR
	READ
	WRITE
	T // array parameter marker

	// Punctuation
	ASSIGN    // :=
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]

	// Arithmetic operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %

	// Comparison
	EQ // =
	NE // !=
	LT // <
	GT // >
	LE // <=
	GE // >=
)

var tokenNames = [...]string{
	EOF:       "EOF",
	PIDENT:    "PIDENT",
	NUM:       "NUM",
	PROGRAM:   "PROGRAM",
	PROCEDURE: "PROCEDURE",
	IS:        "IS",
	BEGIN:     "BEGIN",
	END:       "END",
	IF:        "IF",
	THEN:      "THEN",
	ELSE:      "ELSE",
	ENDIF:     "ENDIF",
	WHILE:     "WHILE",
	DO:        "DO",
	ENDWHILE:  "ENDWHILE",
	REPEAT:    "REPEAT",
	UNTIL:     "UNTIL",
	FOR:       "FOR",
	FROM:      "FROM",
	TO:        "TO",
	DOWNTO:    "DOWNTO",
	ENDFOR:    "ENDFOR",
	READ:      "READ",
	WRITE:     "WRITE",
	T:         "T",
	ASSIGN:    "ASSIGN",
	SEMICOLON: "SEMICOLON",
	COMMA:     "COMMA",
	COLON:     "COLON",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	STAR:      "STAR",
	SLASH:     "SLASH",
	PERCENT:   "PERCENT",
	EQ:        "EQ",
	NE:        "NE",
	LT:        "LT",
	GT:        "GT",
	LE:        "LE",
	GE:        "GE",
}

// symbols holds the source spelling of operator tokens, used when printing
// the AST back out.
var symbols = map[TokenType]string{
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	EQ:      "=",
	NE:      "!=",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Symbol returns the source spelling of an operator token.
func (tt TokenType) Symbol() string {
	if s, ok := symbols[tt]; ok {
		return s
	}
	return tt.String()
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

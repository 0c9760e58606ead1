package compiler

import (
	"fmt"
	"unicode"
)

// keywords maps source text to its keyword TokenType. Keywords are upper
// case; identifiers are lower case, so the two never collide.
var keywords = map[string]TokenType{
	"PROGRAM":   PROGRAM,
	"PROCEDURE": PROCEDURE,
	"IS":        IS,
	"BEGIN":     BEGIN,
	"END":       END,
	"IF":        IF,
	"THEN":      THEN,
	"ELSE":      ELSE,
	"ENDIF":     ENDIF,
	"WHILE":     WHILE,
	"DO":        DO,
	"ENDWHILE":  ENDWHILE,
	"REPEAT":    REPEAT,
	"UNTIL":     UNTIL,
	"FOR":       FOR,
	"FROM":      FROM,
	"TO":        TO,
	"DOWNTO":    DOWNTO,
	"ENDFOR":    ENDFOR,
	"READ":      READ,
	"WRITE":     WRITE,
	"T":         T,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipComment discards everything from '#' to end-of-line.
func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z')
}

func isKeywordRune(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scanIdent collects a lower case identifier.
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isIdentRune(l.peek()) {
		l.advance()
	}
	return Token{Type: PIDENT, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// scanKeyword collects a run of upper case letters and maps it to a keyword.
func (l *Lexer) scanKeyword() (Token, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isKeywordRune(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt, ok := keywords[lexeme]
	if !ok {
		return Token{}, fmt.Errorf("unknown keyword %q on line %d", lexeme, line)
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}, nil
}

func (l *Lexer) scanNum() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.advance()
	}
	return Token{Type: NUM, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '#' {
			l.skipComment()
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	switch {
	case isIdentRune(ch):
		return l.scanIdent(), nil
	case isKeywordRune(ch):
		return l.scanKeyword()
	case isDigit(ch):
		return l.scanNum(), nil
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case '[':
		return Token{LBRACKET, "[", line}, nil
	case ']':
		return Token{RBRACKET, "]", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil
	case ',':
		return Token{COMMA, ",", line}, nil
	case ':':
		if l.peek() == '=' {
			l.advance()
			return Token{ASSIGN, ":=", line}, nil
		}
		return Token{COLON, ":", line}, nil
	case '+':
		return Token{PLUS, "+", line}, nil
	case '-':
		return Token{MINUS, "-", line}, nil
	case '*':
		return Token{STAR, "*", line}, nil
	case '/':
		return Token{SLASH, "/", line}, nil
	case '%':
		return Token{PERCENT, "%", line}, nil
	case '=':
		return Token{EQ, "=", line}, nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{NE, "!=", line}, nil
		}
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{LE, "<=", line}, nil
		}
		return Token{LT, "<", line}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{GE, ">=", line}, nil
		}
		return Token{GT, ">", line}, nil
	}
	return Token{}, fmt.Errorf("unexpected character %q on line %d", ch, line)
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first illegal character.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

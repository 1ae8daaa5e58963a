package lexer

import (
	"fmt"
	"strconv"

	"github.com/Nirlep5252/fun/pkg/token"
)

// Error reports a character the lexer could not turn into a token.
type Error struct {
	Line int
	Char rune
}

func (e *Error) Error() string {
	return fmt.Sprintf("Unexpected character: %c", e.Char)
}

// Position returns the source line of the bad character.
func (e *Error) Position() int { return e.Line }

// Lexer scans source text into tokens, one character of lookahead at a time.
type Lexer struct {
	source  []rune
	tokens  []token.Token
	errors  []*Error
	start   int
	current int
	line    int
}

// New returns a lexer positioned at the start of source.
func New(source string) *Lexer {
	return &Lexer{source: []rune(source), line: 1}
}

// Scan is a convenience wrapper around New(source).Scan().
func Scan(source string) ([]token.Token, []*Error) {
	return New(source).Scan()
}

// Scan consumes the whole source. The returned tokens always end with EOF.
// Unexpected characters are recorded and skipped so every bad character in
// the source is reported; callers must not parse when errors is non-empty.
func (l *Lexer) Scan() ([]token.Token, []*Error) {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Line: l.line})
	return l.tokens, l.errors
}

func (l *Lexer) scanToken() {
	c := l.advance()
	switch c {
	case ' ', '\r', '\t':
	case '\n':
		l.line++
	case '(':
		l.addToken(token.LeftParen)
	case ')':
		l.addToken(token.RightParen)
	case '{':
		l.addToken(token.LeftCurly)
	case '}':
		l.addToken(token.RightCurly)
	case ',':
		l.addToken(token.Comma)
	case ';':
		l.addToken(token.Semicolon)
	case '+':
		l.addToken(token.Plus)
	case '-':
		l.addToken(token.Minus)
	case '/':
		l.addToken(token.Slash)
	case '*':
		l.addToken(l.choose('*', token.DoubleStar, token.Star))
	case '=':
		l.addToken(l.choose('=', token.DoubleEqual, token.Equal))
	case '>':
		l.addToken(l.choose('=', token.GreaterEqual, token.Greater))
	case '<':
		l.addToken(l.choose('=', token.LessEqual, token.Less))
	case '#':
		for l.peek() != '\n' && !l.isAtEnd() {
			l.advance()
		}
	default:
		switch {
		case isDigit(c):
			l.number()
		case isAlpha(c):
			l.identifier()
		default:
			l.errors = append(l.errors, &Error{Line: l.line, Char: c})
		}
	}
}

// choose consumes next when it follows immediately and returns the matching kind.
func (l *Lexer) choose(next rune, matched, otherwise token.Kind) token.Kind {
	if l.peek() == next {
		l.advance()
		return matched
	}
	return otherwise
}

func (l *Lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	text := string(l.source[l.start:l.current])
	// digit+ ('.' digit+)? always parses
	value, _ := strconv.ParseFloat(text, 64)
	l.tokens = append(l.tokens, token.Token{
		Kind:    token.Number,
		Lexeme:  text,
		Literal: value,
		Line:    l.line,
	})
}

func (l *Lexer) identifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	text := string(l.source[l.start:l.current])
	l.addToken(token.LookupIdent(text))
}

func (l *Lexer) addToken(kind token.Kind) {
	l.tokens = append(l.tokens, token.Token{
		Kind:   kind,
		Lexeme: string(l.source[l.start:l.current]),
		Line:   l.line,
	})
}

func (l *Lexer) advance() rune {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

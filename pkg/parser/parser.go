package parser

import (
	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/token"
)

// ParseError is a syntax error. AtEnd is set when the parser ran out of
// input, which means more source could still complete the statement.
type ParseError struct {
	Line    int
	Message string
	AtEnd   bool
}

func (e *ParseError) Error() string { return e.Message }

// Position returns the source line the error is reported at.
func (e *ParseError) Position() int { return e.Line }

// Parser turns a token stream into statements using recursive descent.
type Parser struct {
	tokens        []token.Token
	current       int
	errors        []*ParseError
	functionDepth int
}

// New returns a parser over tokens. A missing trailing EOF is supplied.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Kind: token.EOF, Line: line})
	}
	return &Parser{tokens: tokens}
}

// Parse is a convenience wrapper around New(tokens).Parse().
func Parse(tokens []token.Token) ([]ast.Statement, []*ParseError) {
	return New(tokens).Parse()
}

// Parse consumes every declaration in the stream. A broken declaration is
// recorded, skipped up to the next statement boundary and left out of the
// result, so the statements are only safe to execute when no errors came back.
func (p *Parser) Parse() ([]ast.Statement, []*ParseError) {
	statements := make([]ast.Statement, 0)
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, p.errors
}

// HadError reports whether any syntax error was recorded.
func (p *Parser) HadError() bool {
	return len(p.errors) > 0
}

// IsIncomplete reports whether errs stem only from input that ended too
// early. Any error in the middle of the input makes the source final.
func IsIncomplete(errs []*ParseError) bool {
	if len(errs) == 0 {
		return false
	}
	for _, err := range errs {
		if !err.AtEnd {
			return false
		}
	}
	return true
}

// synchronize discards tokens until the start of the next statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Print, token.Let, token.Fn, token.For, token.If, token.While, token.Return:
			return
		}
		p.advance()
	}
}

package parser

import "github.com/Nirlep5252/fun/pkg/token"

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// previous returns the last consumed token, or the first token when nothing
// has been consumed yet.
func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

// consume expects kind next. Failures are reported on the line of the last
// consumed token, which is where the missing piece belongs.
func (p *Parser) consume(kind token.Kind, message string) (token.Token, *ParseError) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.previous().Line, message)
}

func (p *Parser) errorAt(line int, message string) *ParseError {
	return &ParseError{Line: line, Message: message, AtEnd: p.isAtEnd()}
}

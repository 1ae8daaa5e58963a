package parser

import (
	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/token"
)

func (p *Parser) expression() (ast.Expression, *ParseError) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, *ParseError) {
	left, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return left, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if variable, ok := left.(*ast.VariableExpression); ok {
		return ast.NewAssignmentExpression(variable.Name, value, variable.Line), nil
	}
	return nil, p.errorAt(equals.Line, "Invalid assignment target.")
}

func (p *Parser) logicOr() (ast.Expression, *ParseError) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		operator := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) logicAnd() (ast.Expression, *ParseError) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr, nil
}

// leftFold parses `operand (op operand)*` into a left-associative chain.
func (p *Parser) leftFold(operand func() (ast.Expression, *ParseError), operators ...token.Kind) (ast.Expression, *ParseError) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, *ParseError) {
	return p.leftFold(p.comparison, token.DoubleEqual)
}

func (p *Parser) comparison() (ast.Expression, *ParseError) {
	return p.leftFold(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expression, *ParseError) {
	return p.leftFold(p.factor, token.Plus, token.Minus)
}

func (p *Parser) factor() (ast.Expression, *ParseError) {
	return p.leftFold(p.power, token.Star, token.Slash)
}

// power is right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (p *Parser) power() (ast.Expression, *ParseError) {
	base, err := p.unary()
	if err != nil {
		return nil, err
	}
	if !p.match(token.DoubleStar) {
		return base, nil
	}
	operator := p.previous()
	exponent, err := p.power()
	if err != nil {
		return nil, err
	}
	return ast.NewBinaryExpression(base, operator, exponent), nil
}

func (p *Parser) unary() (ast.Expression, *ParseError) {
	if p.match(token.Minus, token.Not) {
		operator := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(operator, operand), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, *ParseError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.LeftParen) {
		args := make([]ast.Expression, 0)
		if !p.check(token.RightParen) {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		closing, err := p.consume(token.RightParen, "Expected `)` to finish call.")
		if err != nil {
			return nil, err
		}
		expr = ast.NewCallExpression(expr, args, closing.Line)
	}
	return expr, nil
}

func (p *Parser) primary() (ast.Expression, *ParseError) {
	switch {
	case p.match(token.Number):
		return ast.NewNumberLiteral(p.previous().Literal), nil
	case p.match(token.True):
		return ast.NewBooleanLiteral(true), nil
	case p.match(token.False):
		return ast.NewBooleanLiteral(false), nil
	case p.match(token.Null):
		return ast.NewNullLiteral(), nil
	case p.match(token.Get):
		return ast.NewInputExpression(p.previous().Line), nil
	case p.match(token.Identifier):
		name := p.previous()
		return ast.NewVariableExpression(name.Lexeme, name.Line), nil
	case p.match(token.LeftParen):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expected ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGroupingExpression(inner), nil
	}
	return nil, p.errorAt(p.peek().Line, "Expected expression.")
}

package parser

import (
	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/token"
)

func (p *Parser) declaration() (ast.Statement, *ParseError) {
	switch {
	case p.match(token.Let):
		return p.variableDeclaration()
	case p.match(token.Fn):
		return p.functionDeclaration()
	}
	return p.statement()
}

func (p *Parser) variableDeclaration() (ast.Statement, *ParseError) {
	mutable := p.match(token.Mut)
	name, err := p.consume(token.Identifier, "Expected variable name.")
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return nil, p.errorAt(name.Line, "Expected '=' after variable name.")
	}
	initializer, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expected `;` after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVariableDeclaration(name.Lexeme, initializer, mutable, name.Line), nil
}

func (p *Parser) functionDeclaration() (ast.Statement, *ParseError) {
	name, err := p.consume(token.Identifier, "Expected function name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, "Expected '(' after function name."); err != nil {
		return nil, err
	}
	params := make([]string, 0)
	if !p.check(token.RightParen) {
		for {
			param, err := p.consume(token.Identifier, "Expected parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expected ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftCurly, "Expected '{' before function body."); err != nil {
		return nil, err
	}
	p.functionDepth++
	body, err := p.block()
	p.functionDepth--
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDeclaration(name.Lexeme, params, body, name.Line), nil
}

func (p *Parser) statement() (ast.Statement, *ParseError) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.LeftCurly):
		return p.block()
	}
	return p.expressionStatement()
}

// block parses the statements after an opening brace up to the closing one.
func (p *Parser) block() (*ast.BlockStatement, *ParseError) {
	statements := make([]ast.Statement, 0)
	for !p.check(token.RightCurly) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(token.RightCurly, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return ast.NewBlockStatement(statements), nil
}

func (p *Parser) printStatement() (ast.Statement, *ParseError) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expected `;` after print statement."); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(value), nil
}

func (p *Parser) ifStatement() (ast.Statement, *ParseError) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Statement
	if p.match(token.Else) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(condition, thenBranch, elseBranch), nil
}

func (p *Parser) whileStatement() (ast.Statement, *ParseError) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(condition, body), nil
}

func (p *Parser) forStatement() (ast.Statement, *ParseError) {
	variable, err := p.consume(token.Identifier, "Expected variable name after `for` keyword.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.From, "Expected `from` keyword after loop variable."); err != nil {
		return nil, err
	}
	lower, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.To, "Expected `to` keyword after lower bound."); err != nil {
		return nil, err
	}
	upper, err := p.expression()
	if err != nil {
		return nil, err
	}
	var step ast.Expression = ast.NewNumberLiteral(1)
	if p.match(token.Step) {
		if step, err = p.expression(); err != nil {
			return nil, err
		}
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewForStatement(variable.Lexeme, variable.Line, lower, upper, step, body), nil
}

func (p *Parser) returnStatement() (ast.Statement, *ParseError) {
	keyword := p.previous()
	if p.functionDepth == 0 {
		return nil, p.errorAt(keyword.Line, "Cannot return from top-level code.")
	}
	var value ast.Expression
	if !p.check(token.Semicolon) {
		var err *ParseError
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expected `;` after return value."); err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(value, keyword.Line), nil
}

func (p *Parser) expressionStatement() (ast.Statement, *ParseError) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expected `;` after expression."); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(value), nil
}

package ast

import "github.com/Nirlep5252/fun/pkg/token"

// Literal helpers.

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

// Op builds an operator token for kind on line 1.
func Op(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: kind.Symbol(), Line: 1}
}

// Expression helpers.

func Group(inner Expression) *GroupingExpression {
	return NewGroupingExpression(inner)
}

func Un(operator token.Kind, operand Expression) *UnaryExpression {
	return NewUnaryExpression(Op(operator), operand)
}

func Bin(operator token.Kind, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(left, Op(operator), right)
}

func And(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Op(token.And), right)
}

func Or(left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Op(token.Or), right)
}

func Var(name string) *VariableExpression {
	return NewVariableExpression(name, 1)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(name, value, 1)
}

func Call(name string, args ...Expression) *CallExpression {
	if args == nil {
		args = []Expression{}
	}
	return NewCallExpression(Var(name), args, 1)
}

func Input() *InputExpression {
	return NewInputExpression(1)
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Print(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func Let(name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(name, initializer, false, 1)
}

func LetMut(name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(name, initializer, true, 1)
}

func Block(statements ...Statement) *BlockStatement {
	if statements == nil {
		statements = []Statement{}
	}
	return NewBlockStatement(statements)
}

func If(condition Expression, then Statement, elseBranch Statement) *IfStatement {
	return NewIfStatement(condition, then, elseBranch)
}

func While(condition Expression, body Statement) *WhileStatement {
	return NewWhileStatement(condition, body)
}

// For builds a range loop; a nil step means the default step of 1.
func For(variable string, lower, upper, step Expression, body Statement) *ForStatement {
	if step == nil {
		step = Num(1)
	}
	return NewForStatement(variable, 1, lower, upper, step, body)
}

func Fn(name string, params []string, body ...Statement) *FunctionDeclaration {
	if params == nil {
		params = []string{}
	}
	return NewFunctionDeclaration(name, params, Block(body...), 1)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value, 1)
}

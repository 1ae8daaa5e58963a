package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Postfix renders an expression in reverse Polish form: operands first, then
// the operator. Grouping parentheses disappear since the tree already encodes
// the evaluation order.
func Postfix(expr Expression) string {
	var parts []string
	appendPostfix(&parts, expr)
	return strings.Join(parts, " ")
}

func appendPostfix(parts *[]string, expr Expression) {
	switch e := expr.(type) {
	case *NumberLiteral:
		*parts = append(*parts, formatNumber(e.Value))
	case *BooleanLiteral:
		*parts = append(*parts, strconv.FormatBool(e.Value))
	case *NullLiteral:
		*parts = append(*parts, "null")
	case *GroupingExpression:
		appendPostfix(parts, e.Inner)
	case *UnaryExpression:
		appendPostfix(parts, e.Operand)
		// distinguishes negation from subtraction
		*parts = append(*parts, "u"+e.Operator.Lexeme)
	case *BinaryExpression:
		appendPostfix(parts, e.Left)
		appendPostfix(parts, e.Right)
		*parts = append(*parts, e.Operator.Lexeme)
	case *LogicalExpression:
		appendPostfix(parts, e.Left)
		appendPostfix(parts, e.Right)
		*parts = append(*parts, e.Operator.Lexeme)
	case *VariableExpression:
		*parts = append(*parts, e.Name)
	case *AssignmentExpression:
		appendPostfix(parts, e.Value)
		*parts = append(*parts, e.Name, "=")
	case *CallExpression:
		for _, arg := range e.Arguments {
			appendPostfix(parts, arg)
		}
		appendPostfix(parts, e.Callee)
		*parts = append(*parts, fmt.Sprintf("call/%d", len(e.Arguments)))
	case *InputExpression:
		*parts = append(*parts, "get")
	default:
		*parts = append(*parts, fmt.Sprintf("<%T>", expr))
	}
}

// Sprint renders a program as an indented outline, one statement per line.
func Sprint(statements []Statement) string {
	var b strings.Builder
	for _, stmt := range statements {
		writeStatement(&b, stmt, 0)
	}
	return b.String()
}

func writeStatement(b *strings.Builder, stmt Statement, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s := stmt.(type) {
	case *ExpressionStatement:
		fmt.Fprintf(b, "%s(expr %s)\n", indent, Postfix(s.Expression))
	case *PrintStatement:
		fmt.Fprintf(b, "%s(print %s)\n", indent, Postfix(s.Expression))
	case *VariableDeclaration:
		keyword := "let"
		if s.Mutable {
			keyword = "let mut"
		}
		fmt.Fprintf(b, "%s(%s %s %s)\n", indent, keyword, s.Name, Postfix(s.Initializer))
	case *BlockStatement:
		fmt.Fprintf(b, "%s(block\n", indent)
		for _, child := range s.Statements {
			writeStatement(b, child, depth+1)
		}
		fmt.Fprintf(b, "%s)\n", indent)
	case *IfStatement:
		fmt.Fprintf(b, "%s(if %s\n", indent, Postfix(s.Condition))
		writeStatement(b, s.Then, depth+1)
		if s.Else != nil {
			fmt.Fprintf(b, "%selse\n", indent)
			writeStatement(b, s.Else, depth+1)
		}
		fmt.Fprintf(b, "%s)\n", indent)
	case *WhileStatement:
		fmt.Fprintf(b, "%s(while %s\n", indent, Postfix(s.Condition))
		writeStatement(b, s.Body, depth+1)
		fmt.Fprintf(b, "%s)\n", indent)
	case *ForStatement:
		fmt.Fprintf(b, "%s(for %s from %s to %s step %s\n", indent, s.Variable,
			Postfix(s.Lower), Postfix(s.Upper), Postfix(s.Step))
		writeStatement(b, s.Body, depth+1)
		fmt.Fprintf(b, "%s)\n", indent)
	case *FunctionDeclaration:
		fmt.Fprintf(b, "%s(fn %s(%s)\n", indent, s.Name, strings.Join(s.Parameters, ", "))
		for _, child := range s.Body.Statements {
			writeStatement(b, child, depth+1)
		}
		fmt.Fprintf(b, "%s)\n", indent)
	case *ReturnStatement:
		if s.Value == nil {
			fmt.Fprintf(b, "%s(return)\n", indent)
			return
		}
		fmt.Fprintf(b, "%s(return %s)\n", indent, Postfix(s.Value))
	default:
		fmt.Fprintf(b, "%s(<%T>)\n", indent, stmt)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package ast

import "github.com/Nirlep5252/fun/pkg/token"

type NodeType string

const (
	NodeNumberLiteral       NodeType = "NumberLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeNullLiteral         NodeType = "NullLiteral"
	NodeGroupingExpression  NodeType = "GroupingExpression"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeLogicalExpression   NodeType = "LogicalExpression"
	NodeVariableExpression  NodeType = "VariableExpression"
	NodeAssignment          NodeType = "AssignmentExpression"
	NodeCallExpression      NodeType = "CallExpression"
	NodeInputExpression     NodeType = "InputExpression"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeForStatement        NodeType = "ForStatement"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeReturnStatement     NodeType = "ReturnStatement"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces. Only types in this package can satisfy them, which keeps
// the set of expression and statement shapes closed.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

// Expressions

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewGroupingExpression(inner Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression), Inner: inner}
}

// UnaryExpression applies `-` or `not`.
type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator token.Token `json:"operator"`
	Operand  Expression  `json:"operand"`
}

func NewUnaryExpression(operator token.Token, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

// BinaryExpression covers arithmetic, comparison and equality operators.
type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewBinaryExpression(left Expression, operator token.Token, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Left: left, Operator: operator, Right: right}
}

// LogicalExpression is `and`/`or`; the right side is evaluated only when the
// left side does not decide the result.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewLogicalExpression(left Expression, operator token.Token, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Left: left, Operator: operator, Right: right}
}

type VariableExpression struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
	Line int    `json:"line"`
}

func NewVariableExpression(name string, line int) *VariableExpression {
	return &VariableExpression{nodeImpl: newNodeImpl(NodeVariableExpression), Name: name, Line: line}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
	Line  int        `json:"line"`
}

func NewAssignmentExpression(name string, value Expression, line int) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignment), Name: name, Value: value, Line: line}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
	Line      int          `json:"line"`
}

func NewCallExpression(callee Expression, args []Expression, line int) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args, Line: line}
}

// InputExpression is `get`: one number read from standard input.
type InputExpression struct {
	nodeImpl
	expressionMarker

	Line int `json:"line"`
}

func NewInputExpression(line int) *InputExpression {
	return &InputExpression{nodeImpl: newNodeImpl(NodeInputExpression), Line: line}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewPrintStatement(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Name        string     `json:"name"`
	Initializer Expression `json:"initializer"`
	Mutable     bool       `json:"mutable,omitempty"`
	Line        int        `json:"line"`
}

func NewVariableDeclaration(name string, initializer Expression, mutable bool, line int) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Name: name, Initializer: initializer, Mutable: mutable, Line: line}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlockStatement(statements []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: statements}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then Statement, elseBranch Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: elseBranch}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileStatement(condition Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

// ForStatement is the bounded range loop `for v from lower to upper step s body`.
// Step is never nil; the parser supplies the literal 1 when it is omitted.
type ForStatement struct {
	nodeImpl
	statementMarker

	Variable string     `json:"variable"`
	Line     int        `json:"line"`
	Lower    Expression `json:"lower"`
	Upper    Expression `json:"upper"`
	Step     Expression `json:"step"`
	Body     Statement  `json:"body"`
}

func NewForStatement(variable string, line int, lower, upper, step Expression, body Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Variable: variable, Line: line, Lower: lower, Upper: upper, Step: step, Body: body}
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name       string          `json:"name"`
	Parameters []string        `json:"parameters"`
	Body       *BlockStatement `json:"body"`
	Line       int             `json:"line"`
}

func NewFunctionDeclaration(name string, params []string, body *BlockStatement, line int) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Parameters: params, Body: body, Line: line}
}

// ReturnStatement ends the enclosing function call. Value is nil for a bare `return;`.
type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
	Line  int        `json:"line"`
}

func NewReturnStatement(value Expression, line int) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value, Line: line}
}

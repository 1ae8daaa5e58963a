package interpreter

import (
	"fmt"
	"math"

	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/runtime"
	"github.com/Nirlep5252/fun/pkg/token"
)

func (i *Interpreter) evaluate(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NullLiteral:
		return runtime.NilValue{}, nil
	case *ast.GroupingExpression:
		return i.evaluate(n.Inner)
	case *ast.UnaryExpression:
		return i.evaluateUnary(n)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n)
	case *ast.LogicalExpression:
		return i.evaluateLogical(n)
	case *ast.VariableExpression:
		val, err := i.env.Get(n.Name)
		if err != nil {
			return nil, runtimeError(n.Line, err)
		}
		return val, nil
	case *ast.AssignmentExpression:
		val, err := i.evaluate(n.Value)
		if err != nil {
			return nil, err
		}
		if err := i.env.Update(n.Name, val); err != nil {
			return nil, runtimeError(n.Line, err)
		}
		return val, nil
	case *ast.CallExpression:
		return i.evaluateCall(n)
	case *ast.InputExpression:
		return i.readNumber(), nil
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateUnary(n *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evaluate(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Kind {
	case token.Minus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(n.Operator.Line, ErrNumberOperand)
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case token.Not:
		b, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, runtimeError(n.Operator.Line, ErrBooleanOperand)
		}
		return runtime.BoolValue{Val: !b.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", n.Operator.Kind)
	}
}

func (i *Interpreter) evaluateBinary(n *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(n.Right)
	if err != nil {
		return nil, err
	}
	if n.Operator.Kind == token.DoubleEqual {
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtimeError(n.Operator.Line, ErrNumberOperands)
	}
	switch n.Operator.Kind {
	case token.Plus:
		return runtime.NumberValue{Val: l.Val + r.Val}, nil
	case token.Minus:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case token.Star:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case token.Slash:
		if r.Val == 0 {
			return nil, runtimeError(n.Operator.Line, ErrDivisionByZero)
		}
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case token.DoubleStar:
		return runtime.NumberValue{Val: math.Pow(l.Val, r.Val)}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	case token.Less:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", n.Operator.Kind)
	}
}

// evaluateLogical returns the operand that decided the result. The right
// operand is not evaluated when the left one already decides it.
func (i *Interpreter) evaluateLogical(n *ast.LogicalExpression) (runtime.Value, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Operator.Kind == token.Or {
		if runtime.Truthy(left) {
			return left, nil
		}
	} else if !runtime.Truthy(left) {
		return left, nil
	}
	return i.evaluate(n.Right)
}

func (i *Interpreter) evaluateCall(n *ast.CallExpression) (runtime.Value, error) {
	callee, err := i.evaluate(n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, argExpr := range n.Arguments {
		arg, err := i.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok {
		return nil, runtimeError(n.Line, ErrNotCallable)
	}
	if len(args) != fn.Arity() {
		return nil, runtimeError(n.Line, &ArityError{Want: fn.Arity(), Got: len(args)})
	}
	return i.invokeFunction(fn, args, n.Line)
}

// invokeFunction binds the arguments as mutable parameters in a fresh scope
// chained to callParent and runs the body there.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, line int) (runtime.Value, error) {
	if i.depth >= maxCallDepth {
		return nil, runtimeError(line, ErrCallDepthReached)
	}
	i.depth++
	defer func() { i.depth-- }()

	scope := runtime.NewEnvironment(i.callParent())
	for idx, param := range fn.Declaration.Parameters {
		if err := scope.Define(param, args[idx], true); err != nil {
			return nil, runtimeError(line, err)
		}
	}
	result, err := i.executeBlock(fn.Declaration.Body.Statements, scope)
	if err != nil {
		return nil, err
	}
	if result.returning {
		return result.value, nil
	}
	return runtime.NilValue{}, nil
}

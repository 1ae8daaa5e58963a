package interpreter

import (
	"fmt"

	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/runtime"
)

// completion is how a statement finished: normally, or by a `return` that
// must unwind to the enclosing call.
type completion struct {
	returning bool
	value     runtime.Value
}

var normal = completion{}

func (i *Interpreter) execute(node ast.Statement) (completion, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluate(n.Expression)
		return normal, err
	case *ast.PrintStatement:
		return normal, i.executePrint(n)
	case *ast.VariableDeclaration:
		return normal, i.executeVariableDeclaration(n)
	case *ast.BlockStatement:
		return i.executeBlock(n.Statements, i.env.Extend())
	case *ast.IfStatement:
		return i.executeIf(n)
	case *ast.WhileStatement:
		return i.executeWhile(n)
	case *ast.ForStatement:
		return i.executeFor(n)
	case *ast.FunctionDeclaration:
		if err := i.env.Define(n.Name, runtime.NewFunctionValue(n), false); err != nil {
			return normal, runtimeError(n.Line, err)
		}
		return normal, nil
	case *ast.ReturnStatement:
		return i.executeReturn(n)
	default:
		return normal, fmt.Errorf("unsupported statement type: %s", node.NodeType())
	}
}

// executeBlock runs statements with env as the current scope. The previous
// scope is restored however the block ends.
func (i *Interpreter) executeBlock(statements []ast.Statement, env *runtime.Environment) (completion, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		result, err := i.execute(stmt)
		if err != nil || result.returning {
			return result, err
		}
	}
	return normal, nil
}

func (i *Interpreter) executePrint(n *ast.PrintStatement) error {
	val, err := i.evaluate(n.Expression)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(i.stdout, Stringify(val))
	return err
}

func (i *Interpreter) executeVariableDeclaration(n *ast.VariableDeclaration) error {
	val, err := i.evaluate(n.Initializer)
	if err != nil {
		return err
	}
	if err := i.env.Define(n.Name, val, n.Mutable); err != nil {
		return runtimeError(n.Line, err)
	}
	return nil
}

func (i *Interpreter) executeIf(n *ast.IfStatement) (completion, error) {
	cond, err := i.evaluate(n.Condition)
	if err != nil {
		return normal, err
	}
	if runtime.Truthy(cond) {
		return i.execute(n.Then)
	}
	if n.Else != nil {
		return i.execute(n.Else)
	}
	return normal, nil
}

func (i *Interpreter) executeWhile(n *ast.WhileStatement) (completion, error) {
	for {
		cond, err := i.evaluate(n.Condition)
		if err != nil {
			return normal, err
		}
		if !runtime.Truthy(cond) {
			return normal, nil
		}
		result, err := i.execute(n.Body)
		if err != nil || result.returning {
			return result, err
		}
	}
}

// executeFor runs the body before checking any bound. The bounds are
// evaluated once while the step is re-evaluated after every iteration.
func (i *Interpreter) executeFor(n *ast.ForStatement) (completion, error) {
	lowerVal, err := i.evaluate(n.Lower)
	if err != nil {
		return normal, err
	}
	upperVal, err := i.evaluate(n.Upper)
	if err != nil {
		return normal, err
	}
	lower, lowerOK := lowerVal.(runtime.NumberValue)
	upper, upperOK := upperVal.(runtime.NumberValue)
	if !lowerOK || !upperOK {
		return normal, runtimeError(n.Line, ErrBounds)
	}
	if err := i.env.Define(n.Variable, lower, true); err != nil {
		return normal, runtimeError(n.Line, err)
	}

	for {
		result, err := i.execute(n.Body)
		if err != nil || result.returning {
			return result, err
		}
		stepVal, err := i.evaluate(n.Step)
		if err != nil {
			return normal, err
		}
		step, ok := stepVal.(runtime.NumberValue)
		if !ok {
			return normal, runtimeError(n.Line, ErrStep)
		}
		currentVal, err := i.env.Get(n.Variable)
		if err != nil {
			return normal, runtimeError(n.Line, err)
		}
		current, ok := currentVal.(runtime.NumberValue)
		if !ok {
			return normal, runtimeError(n.Line, ErrLoopVariable)
		}
		next := current.Val + step.Val
		switch {
		case current.Val == upper.Val:
			return normal, nil
		case step.Val > 0 && next > upper.Val:
			return normal, nil
		case step.Val < 0 && next < upper.Val:
			return normal, nil
		}
		if err := i.env.Update(n.Variable, runtime.NumberValue{Val: next}); err != nil {
			return normal, runtimeError(n.Line, err)
		}
	}
}

func (i *Interpreter) executeReturn(n *ast.ReturnStatement) (completion, error) {
	var val runtime.Value = runtime.NilValue{}
	if n.Value != nil {
		var err error
		if val, err = i.evaluate(n.Value); err != nil {
			return normal, err
		}
	}
	return completion{returning: true, value: val}, nil
}

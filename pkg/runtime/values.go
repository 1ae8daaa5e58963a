package runtime

import (
	"fmt"

	"github.com/Nirlep5252/fun/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function. It deliberately holds no
// environment: every call runs in a fresh scope whose parent is the global
// scope, whatever scope the function was declared in.
type FunctionValue struct {
	Declaration *ast.FunctionDeclaration
}

func NewFunctionValue(decl *ast.FunctionDeclaration) *FunctionValue {
	return &FunctionValue{Declaration: decl}
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Name returns the declared function name.
func (v *FunctionValue) Name() string {
	if v == nil || v.Declaration == nil {
		return ""
	}
	return v.Declaration.Name
}

// Arity is the number of declared parameters.
func (v *FunctionValue) Arity() int {
	if v == nil || v.Declaration == nil {
		return 0
	}
	return len(v.Declaration.Parameters)
}

func (v *FunctionValue) String() string {
	return "<fn " + v.Name() + ">"
}

// Equal implements `==`. Null equals only null and values of different kinds
// are never equal. Functions compare by identity.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NilValue:
		return true
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case *FunctionValue:
		return av == b.(*FunctionValue)
	default:
		return false
	}
}

// Truthy reports how a value behaves as a condition: null and false are
// falsy, numbers are falsy only when exactly zero, everything else is truthy.
func Truthy(v Value) bool {
	switch tv := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return tv.Val
	case NumberValue:
		return tv.Val != 0
	default:
		return true
	}
}

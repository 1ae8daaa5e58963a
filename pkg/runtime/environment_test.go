package runtime

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Nirlep5252/fun/pkg/ast"
)

func TestEnvironmentDefineRejectsSameScopeRedefinition(t *testing.T) {
	global := NewEnvironment(nil)
	if err := global.Define("x", NumberValue{Val: 1}, false); err != nil {
		t.Fatalf("define x: %v", err)
	}
	err := global.Define("x", NumberValue{Val: 2}, true)
	if !errors.Is(err, ErrAlreadyDefined) {
		t.Fatalf("expected ErrAlreadyDefined, got %v", err)
	}
	if err.Error() != "Variable `x` is already defined." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	child := global.Extend()
	if err := child.Define("x", NumberValue{Val: 3}, false); err != nil {
		t.Fatalf("shadowing in a child scope must succeed: %v", err)
	}
	got, _ := child.Get("x")
	if got != (NumberValue{Val: 3}) {
		t.Fatalf("child lookup = %#v, want shadowed 3", got)
	}
	got, _ = global.Get("x")
	if got != (NumberValue{Val: 1}) {
		t.Fatalf("global lookup = %#v, want 1", got)
	}
}

func TestEnvironmentGetWalksParents(t *testing.T) {
	global := NewEnvironment(nil)
	_ = global.Define("g", BoolValue{Val: true}, false)
	inner := global.Extend().Extend()
	if inner.Parent().Parent() != global {
		t.Fatalf("unexpected parent chain")
	}
	got, err := inner.Get("g")
	if err != nil || got != (BoolValue{Val: true}) {
		t.Fatalf("Get(g) = %#v, %v", got, err)
	}
	_, err = inner.Get("missing")
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
	if err.Error() != "Variable `missing` is not defined." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEnvironmentUpdate(t *testing.T) {
	global := NewEnvironment(nil)
	_ = global.Define("fixed", NumberValue{Val: 1}, false)
	_ = global.Define("counter", NumberValue{Val: 1}, true)
	block := global.Extend()

	err := block.Update("fixed", NumberValue{Val: 2})
	if !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected ErrImmutable, got %v", err)
	}
	if err.Error() != "Variable `fixed` is not mutable." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if err := block.Update("counter", NumberValue{Val: 5}); err != nil {
		t.Fatalf("update counter: %v", err)
	}
	if got, _ := global.Get("counter"); got != (NumberValue{Val: 5}) {
		t.Fatalf("update must write through to the defining scope, got %#v", got)
	}

	if err := block.Update("fresh", NilValue{}); !errors.Is(err, ErrUndefined) {
		t.Fatalf("update must not create bindings, got %v", err)
	}
	if !reflect.DeepEqual(block.Keys(), []string{}) {
		t.Fatalf("block scope should stay empty, got %v", block.Keys())
	}
	if !reflect.DeepEqual(global.Keys(), []string{"counter", "fixed"}) {
		t.Fatalf("unexpected global keys %v", global.Keys())
	}
}

func TestEqualAndTruthy(t *testing.T) {
	fn := NewFunctionValue(ast.Fn("f", nil))
	other := NewFunctionValue(ast.Fn("f", nil))
	equal := []struct {
		a, b Value
		want bool
	}{
		{NilValue{}, NilValue{}, true},
		{NilValue{}, NumberValue{Val: 0}, false},
		{NumberValue{Val: 0}, BoolValue{Val: false}, false},
		{NumberValue{Val: 2.5}, NumberValue{Val: 2.5}, true},
		{BoolValue{Val: true}, BoolValue{Val: false}, false},
		{fn, fn, true},
		{fn, other, false},
	}
	for _, tc := range equal {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%#v, %#v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}

	truthy := []struct {
		v    Value
		want bool
	}{
		{NilValue{}, false},
		{BoolValue{Val: false}, false},
		{BoolValue{Val: true}, true},
		{NumberValue{Val: 0}, false},
		{NumberValue{Val: -0.5}, true},
		{fn, true},
	}
	for _, tc := range truthy {
		if got := Truthy(tc.v); got != tc.want {
			t.Fatalf("Truthy(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
	if fn.String() != "<fn f>" || fn.Arity() != 0 {
		t.Fatalf("unexpected function metadata %s/%d", fn.String(), fn.Arity())
	}
}

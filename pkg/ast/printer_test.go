package ast

import (
	"testing"

	"github.com/Nirlep5252/fun/pkg/token"
)

func TestPostfixRespectsTreeShape(t *testing.T) {
	cases := []struct {
		name string
		expr Expression
		want string
	}{
		{"precedence", Bin(token.Plus, Num(1), Bin(token.Star, Num(2), Num(3))), "1 2 3 * +"},
		{"grouping", Bin(token.Star, Group(Bin(token.Plus, Num(1), Num(2))), Num(3)), "1 2 + 3 *"},
		{"unary", Un(token.Minus, Num(4.5)), "4.5 u-"},
		{"not", Un(token.Not, Bool(false)), "false unot"},
		{"logical", Or(Var("a"), And(Bool(true), Null())), "a true null and or"},
		{"assign", Assign("x", Bin(token.DoubleStar, Num(2), Num(8))), "2 8 ** x ="},
		{"call", Call("f", Num(1), Input()), "1 get f call/2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Postfix(tc.expr); got != tc.want {
				t.Fatalf("Postfix = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSprintOutline(t *testing.T) {
	program := []Statement{
		LetMut("total", Num(0)),
		Fn("add", []string{"a", "b"}, Ret(Bin(token.Plus, Var("a"), Var("b")))),
		For("i", Num(1), Num(3), nil, Block(
			Expr(Assign("total", Call("add", Var("total"), Var("i")))),
		)),
		If(Bin(token.Greater, Var("total"), Num(5)), Print(Var("total")), Print(Null())),
	}
	want := `(let mut total 0)
(fn add(a, b)
  (return a b +)
)
(for i from 1 to 3 step 1
  (block
    (expr total i add call/2 total =)
  )
)
(if total 5 >
  (print total)
else
  (print null)
)
`
	if got := Sprint(program); got != want {
		t.Fatalf("Sprint mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestNodeTypes(t *testing.T) {
	var stmt Statement = Ret(nil)
	if stmt.NodeType() != NodeReturnStatement {
		t.Fatalf("unexpected node type %s", stmt.NodeType())
	}
	var expr Expression = Input()
	if expr.NodeType() != NodeInputExpression {
		t.Fatalf("unexpected node type %s", expr.NodeType())
	}
	if step, ok := For("i", Num(0), Num(1), nil, Block()).Step.(*NumberLiteral); !ok || step.Value != 1 {
		t.Fatalf("expected default step literal 1, got %#v", step)
	}
}

package parser_test

import (
	"reflect"
	"testing"

	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/lexer"
	"github.com/Nirlep5252/fun/pkg/parser"
	"github.com/Nirlep5252/fun/pkg/token"
)

func mustParse(t *testing.T, source string) []ast.Statement {
	t.Helper()
	tokens, lexErrs := lexer.Scan(source)
	if len(lexErrs) != 0 {
		t.Fatalf("lex %q: %v", source, lexErrs)
	}
	stmts, errs := parser.Parse(tokens)
	if len(errs) != 0 {
		t.Fatalf("parse %q: unexpected errors %v", source, errs)
	}
	return stmts
}

func parseErrors(t *testing.T, source string) []*parser.ParseError {
	t.Helper()
	tokens, lexErrs := lexer.Scan(source)
	if len(lexErrs) != 0 {
		t.Fatalf("lex %q: %v", source, lexErrs)
	}
	_, errs := parser.Parse(tokens)
	return errs
}

func assertProgram(t *testing.T, source string, want ...ast.Statement) {
	t.Helper()
	got := mustParse(t, source)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parse %q mismatch\n got: %s\nwant: %s", source, ast.Sprint(got), ast.Sprint(want))
	}
}

func TestParsePrecedence(t *testing.T) {
	assertProgram(t, "1 + 2 * 3;",
		ast.Expr(ast.Bin(token.Plus, ast.Num(1), ast.Bin(token.Star, ast.Num(2), ast.Num(3)))),
	)
	assertProgram(t, "1 - 2 - 3;",
		ast.Expr(ast.Bin(token.Minus, ast.Bin(token.Minus, ast.Num(1), ast.Num(2)), ast.Num(3))),
	)
	assertProgram(t, "(1 + 2) * 3;",
		ast.Expr(ast.Bin(token.Star, ast.Group(ast.Bin(token.Plus, ast.Num(1), ast.Num(2))), ast.Num(3))),
	)
	assertProgram(t, "1 < 2 == true;",
		ast.Expr(ast.Bin(token.DoubleEqual, ast.Bin(token.Less, ast.Num(1), ast.Num(2)), ast.Bool(true))),
	)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	assertProgram(t, "2 ** 3 ** 2;",
		ast.Expr(ast.Bin(token.DoubleStar, ast.Num(2), ast.Bin(token.DoubleStar, ast.Num(3), ast.Num(2)))),
	)
	assertProgram(t, "-2 ** 2;",
		ast.Expr(ast.Bin(token.DoubleStar, ast.Un(token.Minus, ast.Num(2)), ast.Num(2))),
	)
}

func TestParseLogicalAndAssignment(t *testing.T) {
	assertProgram(t, "a = b = not x or y and z;",
		ast.Expr(ast.Assign("a", ast.Assign("b",
			ast.Or(ast.Un(token.Not, ast.Var("x")), ast.And(ast.Var("y"), ast.Var("z"))),
		))),
	)
}

func TestParseDeclarationsAndControlFlow(t *testing.T) {
	assertProgram(t, "let x = 1; let mut y = get; if x print x; else { y = null; }",
		ast.Let("x", ast.Num(1)),
		ast.LetMut("y", ast.Input()),
		ast.If(ast.Var("x"), ast.Print(ast.Var("x")), ast.Block(ast.Expr(ast.Assign("y", ast.Null())))),
	)
	assertProgram(t, "while false {} for i from 1 to 10 step 2 print i; for j from 3 to 1 print j;",
		ast.While(ast.Bool(false), ast.Block()),
		ast.For("i", ast.Num(1), ast.Num(10), ast.Num(2), ast.Print(ast.Var("i"))),
		ast.For("j", ast.Num(3), ast.Num(1), nil, ast.Print(ast.Var("j"))),
	)
}

func TestParseFunctionsAndCalls(t *testing.T) {
	assertProgram(t, "fn add(a, b) { return a + b; } fn noop() { return; } print add(1, 2); noop()();",
		ast.Fn("add", []string{"a", "b"}, ast.Ret(ast.Bin(token.Plus, ast.Var("a"), ast.Var("b")))),
		ast.Fn("noop", []string{}, ast.Ret(nil)),
		ast.Print(ast.Call("add", ast.Num(1), ast.Num(2))),
		ast.Expr(ast.NewCallExpression(ast.Call("noop"), []ast.Expression{}, 1)),
	)
}

func TestParseRecordsLines(t *testing.T) {
	stmts := mustParse(t, "let a = 1;\n\nprint f(\n a\n);")
	decl := stmts[0].(*ast.VariableDeclaration)
	if decl.Line != 1 {
		t.Fatalf("declaration line = %d, want 1", decl.Line)
	}
	call := stmts[1].(*ast.PrintStatement).Expression.(*ast.CallExpression)
	if call.Line != 5 {
		t.Fatalf("call line = %d, want closing paren line 5", call.Line)
	}
	if arg := call.Arguments[0].(*ast.VariableExpression); arg.Line != 4 {
		t.Fatalf("argument line = %d, want 4", arg.Line)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		source  string
		line    int
		message string
		atEnd   bool
	}{
		{"1 = 2;", 1, "Invalid assignment target.", false},
		{"let = 2;", 1, "Expected variable name.", false},
		{"let x 2;", 1, "Expected '=' after variable name.", false},
		{"let x = 2\nprint x;", 1, "Expected `;` after variable declaration.", false},
		{"print 1", 1, "Expected `;` after print statement.", true},
		{"1 + 2", 1, "Expected `;` after expression.", true},
		{"{ print 1;", 1, "Expected '}' after block.", true},
		{"print (1 + 2;", 1, "Expected ')' after expression.", false},
		{"f(1, 2;", 1, "Expected `)` to finish call.", false},
		{"print ;", 1, "Expected expression.", false},
		{"print\n", 2, "Expected expression.", true},
		{"return 1;", 1, "Cannot return from top-level code.", false},
		{"for 1 from 1 to 2 print 1;", 1, "Expected variable name after `for` keyword.", false},
		{"fn (a) {}", 1, "Expected function name.", false},
		{"fn f(a b) {}", 1, "Expected ')' after parameters.", false},
	}
	for _, tc := range cases {
		errs := parseErrors(t, tc.source)
		if len(errs) != 1 {
			t.Fatalf("parse %q: expected 1 error, got %d: %v", tc.source, len(errs), errs)
		}
		err := errs[0]
		if err.Message != tc.message || err.Line != tc.line || err.AtEnd != tc.atEnd {
			t.Fatalf("parse %q: got %+v, want line %d %q atEnd=%v", tc.source, err, tc.line, tc.message, tc.atEnd)
		}
	}
}

func TestParseRecoversPerStatement(t *testing.T) {
	tokens, _ := lexer.Scan("print 1 +;\nlet = 2;\nprint 3;")
	p := parser.New(tokens)
	stmts, errs := p.Parse()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 1 || errs[1].Line != 2 {
		t.Fatalf("unexpected error lines %d, %d", errs[0].Line, errs[1].Line)
	}
	if !p.HadError() {
		t.Fatalf("expected HadError after syntax errors")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the valid trailing statement to survive, got %d statements", len(stmts))
	}
}

func TestParseReturnInsideNestedBlocks(t *testing.T) {
	stmts := mustParse(t, "fn f(n) { while true { if n return n; } }")
	fn := stmts[0].(*ast.FunctionDeclaration)
	loop := fn.Body.Statements[0].(*ast.WhileStatement)
	branch := loop.Body.(*ast.BlockStatement).Statements[0].(*ast.IfStatement)
	if _, ok := branch.Then.(*ast.ReturnStatement); !ok {
		t.Fatalf("expected return statement, got %T", branch.Then)
	}
	if errs := parseErrors(t, "fn f() {} return;"); len(errs) != 1 {
		t.Fatalf("return after a function body must still be rejected, got %v", errs)
	}
}

func TestIsIncomplete(t *testing.T) {
	if !parser.IsIncomplete(parseErrors(t, "fn f() {")) {
		t.Fatalf("open function body should be incomplete")
	}
	if parser.IsIncomplete(parseErrors(t, "print ;")) {
		t.Fatalf("missing operand in the middle of input is not incomplete")
	}
	errs := parseErrors(t, "let = 1; print 2")
	if len(errs) != 2 || errs[0].AtEnd || !errs[1].AtEnd {
		t.Fatalf("unexpected errors: %#v", errs)
	}
	if parser.IsIncomplete(errs) {
		t.Fatalf("an error before the trailing statement makes the input final")
	}
	if parser.IsIncomplete(nil) {
		t.Fatalf("no errors is not incomplete")
	}
}

func TestParseWithoutEOF(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Print, Lexeme: "print", Line: 1},
		{Kind: token.Number, Lexeme: "1", Literal: 1, Line: 1},
		{Kind: token.Semicolon, Lexeme: ";", Line: 1},
	}
	stmts, errs := parser.Parse(tokens)
	if len(errs) != 0 || len(stmts) != 1 {
		t.Fatalf("expected one statement, got %v %v", stmts, errs)
	}
	if stmts, errs := parser.Parse(nil); len(stmts) != 0 || len(errs) != 0 {
		t.Fatalf("empty token stream should parse to nothing")
	}
}

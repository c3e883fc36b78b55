package interpreter

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/watzkuh/klox/pkg/ast"
	"github.com/watzkuh/klox/pkg/diag"
	"github.com/watzkuh/klox/pkg/parser"
	"github.com/watzkuh/klox/pkg/runtime"
	"github.com/watzkuh/klox/pkg/scanner"
)

// evaluate runs expr against the globals without reporting.
func (i *Interpreter) evaluate(expr ast.Expression) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr, i.global)
	if err != nil {
		return nil, asRuntimeError(err)
	}
	return val, nil
}

func TestEvaluateArithmeticPrecedence(t *testing.T) {
	interp := New(nil, nil)
	expr := ast.Bin("+", ast.Num(1), ast.Bin("*", ast.Num(2), ast.Num(3)))
	val, err := interp.evaluate(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num, ok := val.(runtime.NumberValue)
	if !ok || num.Val != 7 {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateStringConcatenation(t *testing.T) {
	interp := New(nil, nil)
	val, err := interp.evaluate(ast.Bin("+", ast.Str("a"), ast.Str("b")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	str, ok := val.(runtime.StringValue)
	if !ok || str.Val != "ab" {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateMixedPlusFails(t *testing.T) {
	interp := New(nil, nil)
	_, err := interp.evaluate(ast.Bin("+", ast.Num(1), ast.Str("a")))
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if rtErr.Message != "Operands must be two numbers or two strings." {
		t.Fatalf("unexpected message %q", rtErr.Message)
	}
	if rtErr.Token.Lexeme != "+" {
		t.Fatalf("error should point at operator, got %#v", rtErr.Token)
	}
}

func TestEvaluateUnary(t *testing.T) {
	interp := New(nil, nil)
	val, err := interp.evaluate(ast.Un("-", ast.Num(3)))
	if err != nil || val != (runtime.NumberValue{Val: -3}) {
		t.Fatalf("unexpected negation result %#v, %v", val, err)
	}
	val, err = interp.evaluate(ast.Un("!", ast.Nil()))
	if err != nil || val != (runtime.BoolValue{Val: true}) {
		t.Fatalf("unexpected not result %#v, %v", val, err)
	}
	val, err = interp.evaluate(ast.Un("!", ast.Num(0)))
	if err != nil || val != (runtime.BoolValue{Val: false}) {
		t.Fatalf("0 is truthy, got %#v, %v", val, err)
	}
	_, err = interp.evaluate(ast.Un("-", ast.Str("x")))
	if err == nil || err.Error() != "Operand must be a number." {
		t.Fatalf("expected operand error, got %v", err)
	}
}

func TestEvaluateComparisonRequiresNumbers(t *testing.T) {
	interp := New(nil, nil)
	ops := []string{"-", "*", "/", "<", "<=", ">", ">="}
	for _, op := range ops {
		_, err := interp.evaluate(ast.Bin(op, ast.Str("a"), ast.Num(1)))
		if err == nil || err.Error() != "Operands must be numbers." {
			t.Fatalf("%s: expected operands error, got %v", op, err)
		}
	}
	val, err := interp.evaluate(ast.Bin("<=", ast.Num(2), ast.Num(2)))
	if err != nil || val != (runtime.BoolValue{Val: true}) {
		t.Fatalf("unexpected comparison result %#v, %v", val, err)
	}
}

func TestEvaluateEquality(t *testing.T) {
	interp := New(nil, nil)
	cases := []struct {
		expr ast.Expression
		want bool
	}{
		{ast.Bin("==", ast.Nil(), ast.Nil()), true},
		{ast.Bin("==", ast.Num(1), ast.Str("1")), false},
		{ast.Bin("!=", ast.Str("a"), ast.Str("b")), true},
		{ast.Bin("==", ast.Bool(false), ast.Nil()), false},
	}
	for _, tc := range cases {
		val, err := interp.evaluate(tc.expr)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", ast.Print(tc.expr), err)
		}
		if val != (runtime.BoolValue{Val: tc.want}) {
			t.Fatalf("%s: got %#v", ast.Print(tc.expr), val)
		}
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	interp := New(nil, nil)
	val, err := interp.evaluate(ast.Bin("/", ast.Num(1), ast.Num(0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	num, ok := val.(runtime.NumberValue)
	if !ok || !math.IsInf(num.Val, 1) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateIdentifierLookup(t *testing.T) {
	interp := New(nil, nil)
	global := interp.GlobalEnvironment()
	global.Define("greeting", runtime.StringValue{Val: "hello"})

	val, err := interp.evaluateExpression(ast.Ref("greeting"), global)
	if err != nil {
		t.Fatalf("identifier lookup failed: %v", err)
	}
	str, ok := val.(runtime.StringValue)
	if !ok || str.Val != "hello" {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestUndefinedVariableCarriesToken(t *testing.T) {
	interp := New(nil, nil)
	_, err := interp.evaluate(ast.Ref("missing"))
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if rtErr.Message != "Undefined variable 'missing'." || rtErr.Token.Lexeme != "missing" {
		t.Fatalf("unexpected error %#v", rtErr)
	}
}

func TestAssignmentUpdatesEnclosingScope(t *testing.T) {
	var out bytes.Buffer
	interp := New(&out, nil)
	program := []ast.Statement{
		ast.VarDecl("x", ast.Num(1)),
		ast.Block(
			ast.ExprStmt(ast.Assign("x", ast.Num(2))),
		),
		ast.PrintStmt(ast.Ref("x")),
	}
	if err := interp.Interpret(program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "2\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestBlockScopeIsDiscarded(t *testing.T) {
	interp := New(nil, nil)
	program := []ast.Statement{
		ast.Block(ast.VarDecl("inner", ast.Num(1))),
	}
	if err := interp.Interpret(program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := interp.GlobalEnvironment().Get("inner"); err == nil {
		t.Fatalf("block-local binding leaked into globals")
	}
}

func TestIfExecutesSingleBranch(t *testing.T) {
	var out bytes.Buffer
	interp := New(&out, nil)
	program := []ast.Statement{
		ast.If(ast.Nil(), ast.PrintStmt(ast.Str("then")), ast.PrintStmt(ast.Str("else"))),
		ast.If(ast.Num(0), ast.PrintStmt(ast.Str("zero")), nil),
		ast.If(ast.Bool(false), ast.PrintStmt(ast.Str("skipped")), nil),
	}
	if err := interp.Interpret(program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "else\nzero\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestInterpretReportsOnce(t *testing.T) {
	var out, errs bytes.Buffer
	sink := diag.NewSink(&errs)
	interp := New(&out, sink)
	program := []ast.Statement{
		ast.PrintStmt(ast.Num(1)),
		ast.PrintStmt(ast.Un("-", ast.Str("s"))),
		ast.PrintStmt(ast.Num(2)),
	}
	err := interp.Interpret(program)
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	if out.String() != "1\n" {
		t.Fatalf("output before the error should survive, got %q", out.String())
	}
	if len(sink.Diagnostics()) != 1 || !sink.HadRuntimeError() {
		t.Fatalf("expected exactly one runtime diagnostic, got %#v", sink.Diagnostics())
	}
	if errs.String() != "Operand must be a number.\n[line 1]\n" {
		t.Fatalf("unexpected error output %q", errs.String())
	}
}

func TestGlobalsPersistAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	interp := New(&out, nil)
	if err := interp.Interpret([]ast.Statement{ast.VarDecl("count", ast.Num(1))}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := interp.Interpret([]ast.Statement{ast.PrintStmt(ast.Bin("+", ast.Ref("count"), ast.Num(1)))}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "2\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func runSource(t *testing.T, source string) (string, string) {
	t.Helper()
	var out, errs bytes.Buffer
	sink := diag.NewSink(&errs)
	statements := parser.Parse(scanner.Scan(source, sink), sink)
	if sink.HadError() {
		t.Fatalf("unexpected static errors: %s", errs.String())
	}
	_ = New(&out, sink).Interpret(statements)
	return out.String(), errs.String()
}

func TestSourcePrograms(t *testing.T) {
	cases := []struct {
		name   string
		source string
		stdout string
		stderr string
	}{
		{"arithmetic", "print 1 + 2 * 3;", "7\n", ""},
		{"concat", `print "a" + "b";`, "ab\n", ""},
		{"mixedPlus", `print 1 + "a";`, "", "Operands must be two numbers or two strings.\n[line 1]\n"},
		{"shadowing", "var a = 1; { var a = 2; print a; } print a;", "2\n1\n", ""},
		{"undefinedAssign", "y = 1;", "", "Undefined variable 'y'.\n[line 1]\n"},
		{"declareThenAssign", "var x; x = 5; print x;", "5\n", ""},
		{"uninitialized", "var x; print x;", "nil\n", ""},
		{"ifElse", `if (1 < 2) print "yes"; else print "no";`, "yes\n", ""},
		{"danglingElse", `if (true) if (false) print "a"; else print "b";`, "b\n", ""},
		{"chainedAssign", "var a; var b; a = b = 3; print a; print b;", "3\n3\n", ""},
		{"abortKeepsOutput", "print 1;\nprint -nil;\nprint 3;", "1\n", "Operand must be a number.\n[line 2]\n"},
		{"integralNumbers", "print 10 / 4; print 3.0;", "2.5\n3\n", ""},
		{"infinity", "print 1 / 0; print -1 / 0;", "Infinity\n-Infinity\n", ""},
		{"selfReference", "var a = 1; { var a = a + 1; print a; }", "2\n", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr := runSource(t, tc.source)
			if stdout != tc.stdout {
				t.Fatalf("stdout = %q, want %q", stdout, tc.stdout)
			}
			if stderr != tc.stderr {
				t.Fatalf("stderr = %q, want %q", stderr, tc.stderr)
			}
		})
	}
}

func TestUnsupportedNodes(t *testing.T) {
	interp := New(nil, nil)
	if err := interp.Interpret([]ast.Statement{nil}); err == nil || !strings.Contains(err.Error(), "missing statement") {
		t.Fatalf("expected missing statement error, got %v", err)
	}
	if _, err := interp.evaluate(nil); err == nil {
		t.Fatalf("expected error for nil expression")
	}
}

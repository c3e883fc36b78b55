package ast

import (
	"fmt"

	"github.com/watzkuh/klox/pkg/token"
)

// Builders for hand-constructed trees. Synthesized tokens sit on line 1.

var operatorTypes = map[string]token.Type{
	"-":  token.Minus,
	"+":  token.Plus,
	"*":  token.Star,
	"/":  token.Slash,
	"!":  token.Bang,
	"!=": token.BangEqual,
	"==": token.EqualEqual,
	"<":  token.Less,
	"<=": token.LessEqual,
	">":  token.Greater,
	">=": token.GreaterEqual,
}

// Op returns an operator token for lexeme. It panics on unknown operators.
func Op(lexeme string) token.Token {
	typ, ok := operatorTypes[lexeme]
	if !ok {
		panic(fmt.Sprintf("ast: unknown operator %q", lexeme))
	}
	return token.New(typ, lexeme, nil, 1)
}

// Name returns an identifier token.
func Name(name string) token.Token {
	return token.New(token.Identifier, name, nil, 1)
}

func Num(value float64) *LiteralExpression {
	return NewLiteralExpression(value)
}

func Str(value string) *LiteralExpression {
	return NewLiteralExpression(value)
}

func Bool(value bool) *LiteralExpression {
	return NewLiteralExpression(value)
}

func Nil() *LiteralExpression {
	return NewLiteralExpression(nil)
}

func Ref(name string) *VariableExpression {
	return NewVariableExpression(Name(name))
}

func Assign(name string, value Expression) *AssignExpression {
	return NewAssignExpression(Name(name), value)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(left, Op(operator), right)
}

func Un(operator string, right Expression) *UnaryExpression {
	return NewUnaryExpression(Op(operator), right)
}

func Group(inner Expression) *GroupingExpression {
	return NewGroupingExpression(inner)
}

func ExprStmt(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func PrintStmt(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func VarDecl(name string, initializer Expression) *VarStatement {
	return NewVarStatement(Name(name), initializer)
}

func Block(statements ...Statement) *BlockStatement {
	return NewBlockStatement(statements)
}

func If(condition Expression, then Statement, els Statement) *IfStatement {
	return NewIfStatement(condition, then, els)
}

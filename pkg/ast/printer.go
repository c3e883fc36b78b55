package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Print renders a node in parenthesized prefix form, e.g. (+ 1 (* 2 3)).
func Print(node Node) string {
	var b strings.Builder
	writeTree(&b, node)
	return b.String()
}

// PrintProgram renders each statement on its own line.
func PrintProgram(statements []Statement) string {
	lines := make([]string, 0, len(statements))
	for _, stmt := range statements {
		lines = append(lines, Print(stmt))
	}
	return strings.Join(lines, "\n")
}

func writeTree(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *BinaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *UnaryExpression:
		parenthesize(b, n.Operator.Lexeme, n.Right)
	case *GroupingExpression:
		parenthesize(b, "group", n.Expression)
	case *LiteralExpression:
		b.WriteString(formatLiteral(n.Value))
	case *VariableExpression:
		b.WriteString(n.Name.Lexeme)
	case *AssignExpression:
		parenthesize(b, "= "+n.Name.Lexeme, n.Value)
	case *ExpressionStatement:
		parenthesize(b, ";", n.Expression)
	case *PrintStatement:
		parenthesize(b, "print", n.Expression)
	case *VarStatement:
		if n.Initializer == nil {
			parenthesize(b, "var "+n.Name.Lexeme)
			return
		}
		parenthesize(b, "var "+n.Name.Lexeme, n.Initializer)
	case *BlockStatement:
		children := make([]Node, 0, len(n.Statements))
		for _, stmt := range n.Statements {
			children = append(children, stmt)
		}
		parenthesize(b, "block", children...)
	case *IfStatement:
		if n.Else == nil {
			parenthesize(b, "if", n.Condition, n.Then)
			return
		}
		parenthesize(b, "if", n.Condition, n.Then, n.Else)
	default:
		fmt.Fprintf(b, "<unsupported %s>", node.NodeType())
	}
}

func parenthesize(b *strings.Builder, name string, children ...Node) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, child := range children {
		b.WriteByte(' ')
		writeTree(b, child)
	}
	b.WriteByte(')')
}

// Format renders a node back to source text. Groupings are kept as written and
// ungrouped operators follow grammar precedence, so the output parses to an
// equivalent tree.
func Format(node Node) string {
	var b strings.Builder
	writeSource(&b, node, 0)
	return b.String()
}

// FormatProgram renders statements one per line.
func FormatProgram(statements []Statement) string {
	var b strings.Builder
	for _, stmt := range statements {
		writeSource(&b, stmt, 0)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeSource(b *strings.Builder, node Node, depth int) {
	switch n := node.(type) {
	case *BinaryExpression:
		writeSource(b, n.Left, depth)
		b.WriteString(" " + n.Operator.Lexeme + " ")
		writeSource(b, n.Right, depth)
	case *UnaryExpression:
		b.WriteString(n.Operator.Lexeme)
		writeSource(b, n.Right, depth)
	case *GroupingExpression:
		b.WriteByte('(')
		writeSource(b, n.Expression, depth)
		b.WriteByte(')')
	case *LiteralExpression:
		b.WriteString(formatLiteral(n.Value))
	case *VariableExpression:
		b.WriteString(n.Name.Lexeme)
	case *AssignExpression:
		b.WriteString(n.Name.Lexeme + " = ")
		writeSource(b, n.Value, depth)
	case *ExpressionStatement:
		writeSource(b, n.Expression, depth)
		b.WriteByte(';')
	case *PrintStatement:
		b.WriteString("print ")
		writeSource(b, n.Expression, depth)
		b.WriteByte(';')
	case *VarStatement:
		b.WriteString("var " + n.Name.Lexeme)
		if n.Initializer != nil {
			b.WriteString(" = ")
			writeSource(b, n.Initializer, depth)
		}
		b.WriteByte(';')
	case *BlockStatement:
		if len(n.Statements) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for _, stmt := range n.Statements {
			b.WriteString(strings.Repeat("  ", depth+1))
			writeSource(b, stmt, depth+1)
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", depth) + "}")
	case *IfStatement:
		b.WriteString("if (")
		writeSource(b, n.Condition, depth)
		b.WriteString(") ")
		writeSource(b, n.Then, depth)
		if n.Else != nil {
			b.WriteString(" else ")
			writeSource(b, n.Else, depth)
		}
	}
}

func formatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case string:
		return `"` + v + `"`
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

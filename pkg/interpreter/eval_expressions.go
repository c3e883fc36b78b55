package interpreter

import (
	"fmt"

	"github.com/watzkuh/klox/pkg/ast"
	"github.com/watzkuh/klox/pkg/runtime"
	"github.com/watzkuh/klox/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.LiteralExpression:
		val, err := runtime.FromLiteral(n.Value)
		if err != nil {
			return nil, &RuntimeError{Message: err.Error()}
		}
		return val, nil
	case *ast.GroupingExpression:
		return i.evaluateExpression(n.Expression, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.VariableExpression:
		val, err := env.Get(n.Name.Lexeme)
		if err != nil {
			return nil, &RuntimeError{Token: n.Name, Message: err.Error()}
		}
		return val, nil
	case *ast.AssignExpression:
		return i.evaluateAssignment(n, env)
	case nil:
		return nil, fmt.Errorf("missing expression")
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateAssignment(assign *ast.AssignExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(assign.Value, env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(assign.Name.Lexeme, val); err != nil {
		return nil, &RuntimeError{Token: assign.Name, Message: err.Error()}
	}
	return val, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Type {
	case token.Minus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtimeErrorf(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(operand)}, nil
	default:
		return nil, runtimeErrorf(expr.Operator, "Unsupported unary operator '%s'.", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	leftVal, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	rightVal, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	op := expr.Operator
	switch op.Type {
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equal(leftVal, rightVal)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equal(leftVal, rightVal)}, nil
	case token.Plus:
		return evaluatePlus(op, leftVal, rightVal)
	}

	l, r, err := numericOperands(op, leftVal, rightVal)
	if err != nil {
		return nil, err
	}
	switch op.Type {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Slash:
		// Division by zero yields ±Inf or NaN.
		return runtime.NumberValue{Val: l / r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, runtimeErrorf(op, "Unsupported binary operator '%s'.", op.Lexeme)
	}
}

func evaluatePlus(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.NumberValue:
		if r, ok := right.(runtime.NumberValue); ok {
			return runtime.NumberValue{Val: l.Val + r.Val}, nil
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
	}
	return nil, runtimeErrorf(op, "Operands must be two numbers or two strings.")
}

func numericOperands(op token.Token, left, right runtime.Value) (float64, float64, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, runtimeErrorf(op, "Operands must be numbers.")
	}
	return l.Val, r.Val, nil
}

package interpreter

import (
	"fmt"

	"github.com/watzkuh/klox/pkg/ast"
	"github.com/watzkuh/klox/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.PrintStatement:
		return i.executePrint(n, env)
	case *ast.VarStatement:
		return i.executeVar(n, env)
	case *ast.BlockStatement:
		return i.executeBlock(n.Statements, env.Extend())
	case *ast.IfStatement:
		return i.executeIf(n, env)
	case nil:
		return fmt.Errorf("missing statement")
	default:
		return fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement, env *runtime.Environment) error {
	val, err := i.evaluateExpression(stmt.Expression, env)
	if err != nil {
		return err
	}
	fmt.Fprintln(i.stdout, val.String())
	return nil
}

func (i *Interpreter) executeVar(stmt *ast.VarStatement, env *runtime.Environment) error {
	var val runtime.Value = runtime.NilValue{}
	if stmt.Initializer != nil {
		v, err := i.evaluateExpression(stmt.Initializer, env)
		if err != nil {
			return err
		}
		val = v
	}
	env.Define(stmt.Name.Lexeme, val)
	return nil
}

// executeBlock runs statements in scope. The scope is dropped with the call,
// whether the block completes or fails.
func (i *Interpreter) executeBlock(statements []ast.Statement, scope *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, env *runtime.Environment) error {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return err
	}
	if runtime.IsTruthy(cond) {
		return i.executeStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.executeStatement(stmt.Else, env)
	}
	return nil
}

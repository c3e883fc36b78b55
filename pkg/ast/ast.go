package ast

import "github.com/watzkuh/klox/pkg/token"

type NodeType string

const (
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeGroupingExpression  NodeType = "GroupingExpression"
	NodeLiteralExpression   NodeType = "LiteralExpression"
	NodeVariableExpression  NodeType = "VariableExpression"
	NodeAssignExpression    NodeType = "AssignExpression"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeVarStatement        NodeType = "VarStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeIfStatement         NodeType = "IfStatement"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces. The unexported methods keep both variant sets closed to this package.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expressions

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression
	Operator token.Token
	Right    Expression
}

func NewBinaryExpression(left Expression, operator token.Token, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Left: left, Operator: operator, Right: right}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator token.Token
	Right    Expression
}

func NewUnaryExpression(operator token.Token, right Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Right: right}
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression
}

func NewGroupingExpression(inner Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression), Expression: inner}
}

// LiteralExpression holds nil, a bool, a float64 or a string.
type LiteralExpression struct {
	nodeImpl
	expressionMarker

	Value any
}

func NewLiteralExpression(value any) *LiteralExpression {
	return &LiteralExpression{nodeImpl: newNodeImpl(NodeLiteralExpression), Value: value}
}

type VariableExpression struct {
	nodeImpl
	expressionMarker

	Name token.Token
}

func NewVariableExpression(name token.Token) *VariableExpression {
	return &VariableExpression{nodeImpl: newNodeImpl(NodeVariableExpression), Name: name}
}

type AssignExpression struct {
	nodeImpl
	expressionMarker

	Name  token.Token
	Value Expression
}

func NewAssignExpression(name token.Token, value Expression) *AssignExpression {
	return &AssignExpression{nodeImpl: newNodeImpl(NodeAssignExpression), Name: name, Value: value}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewPrintStatement(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

type VarStatement struct {
	nodeImpl
	statementMarker

	Name        token.Token
	Initializer Expression // nil when the declaration has no initializer
}

func NewVarStatement(name token.Token, initializer Expression) *VarStatement {
	return &VarStatement{nodeImpl: newNodeImpl(NodeVarStatement), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement
}

func NewBlockStatement(statements []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: statements}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression
	Then      Statement
	Else      Statement // optional
}

func NewIfStatement(condition Expression, then Statement, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: els}
}

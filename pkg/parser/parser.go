package parser

import (
	"fmt"

	"github.com/watzkuh/klox/pkg/ast"
	"github.com/watzkuh/klox/pkg/token"
)

// ErrorReporter receives syntax errors located at a token.
type ErrorReporter interface {
	TokenError(tok token.Token, message string)
}

// ParseError unwinds the parser to the nearest declaration boundary.
type ParseError struct {
	Token   token.Token
	Message string
}

func (e *ParseError) Error() string {
	if e.Token.Type == token.EOF {
		return fmt.Sprintf("[line %d] Error at end: %s", e.Token.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Token.Line, e.Token.Lexeme, e.Message)
}

// Parser is a recursive descent parser over a scanned token slice.
//
//	program     → declaration* EOF ;
//	declaration → varDecl | statement ;
//	varDecl     → "var" IDENTIFIER ( "=" expression )? ";" ;
//	statement   → exprStmt | printStmt | ifStmt | block ;
//	ifStmt      → "if" "(" expression ")" statement ( "else" statement )? ;
//	block       → "{" declaration* "}" ;
//	expression  → assignment ;
//	assignment  → IDENTIFIER "=" assignment | equality ;
//	equality    → comparison ( ( "!=" | "==" ) comparison )* ;
//	comparison  → term ( ( ">" | ">=" | "<" | "<=" ) term )* ;
//	term        → factor ( ( "-" | "+" ) factor )* ;
//	factor      → unary ( ( "/" | "*" ) unary )* ;
//	unary       → ( "!" | "-" ) unary | primary ;
//	primary     → NUMBER | STRING | "true" | "false" | "nil" | IDENTIFIER | "(" expression ")" ;
type Parser struct {
	tokens   []token.Token
	current  int
	reporter ErrorReporter
	errors   []*ParseError
}

// New creates a parser. tokens must end with an EOF token; reporter may be nil.
func New(tokens []token.Token, reporter ErrorReporter) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens, reporter: reporter}
}

// Parse is shorthand for New(tokens, reporter).Parse().
func Parse(tokens []token.Token, reporter ErrorReporter) []ast.Statement {
	return New(tokens, reporter).Parse()
}

// Parse parses every declaration. Declarations that fail to parse are
// reported and dropped; parsing resumes at the next statement boundary.
func (p *Parser) Parse() []ast.Statement {
	statements := make([]ast.Statement, 0)
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// declaration returns nil when the declaration, or anything nested in it,
// reported an error.
func (p *Parser) declaration() ast.Statement {
	var (
		stmt ast.Statement
		err  error
	)
	reported := len(p.errors)
	if p.match(token.Var) {
		stmt, err = p.varDeclaration()
	} else {
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	if len(p.errors) > reported {
		return nil
	}
	return stmt
}

func (p *Parser) varDeclaration() (ast.Statement, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expression
	if p.match(token.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVarStatement(name, initializer), nil
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.LeftBrace):
		statements, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStatement(statements), nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (ast.Statement, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(value), nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	// The innermost if claims the else.
	var elseBranch ast.Statement
	if p.match(token.Else) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(condition, thenBranch, elseBranch), nil
}

// block parses declarations up to the closing brace. Errors inside the block
// are recovered locally so one bad line does not discard its siblings.
func (p *Parser) block() ([]ast.Statement, error) {
	statements := make([]ast.Statement, 0)
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr), nil
}

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if variable, ok := expr.(*ast.VariableExpression); ok {
		return ast.NewAssignExpression(variable.Name, value), nil
	}
	// Reported without unwinding: the parser is still in a known state.
	p.error(equals, "Invalid assignment target.")
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of operand (op operand)*.
func (p *Parser) binary(operand func() (ast.Expression, error), operators ...token.Type) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(operator, right), nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteralExpression(false), nil
	case p.match(token.True):
		return ast.NewLiteralExpression(true), nil
	case p.match(token.Nil):
		return ast.NewLiteralExpression(nil), nil
	case p.match(token.Number, token.String):
		return ast.NewLiteralExpression(p.previous().Literal), nil
	case p.match(token.Identifier):
		return ast.NewVariableExpression(p.previous()), nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGroupingExpression(expr), nil
	}
	return nil, p.error(p.peek(), "Expect expression.")
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) consume(typ token.Type, message string) (token.Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return token.Token{}, p.error(p.peek(), message)
}

func (p *Parser) error(tok token.Token, message string) *ParseError {
	err := &ParseError{Token: tok, Message: message}
	p.errors = append(p.errors, err)
	if p.reporter != nil {
		p.reporter.TokenError(tok, message)
	}
	return err
}

func (p *Parser) match(types ...token.Type) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(typ token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

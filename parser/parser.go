package parser

import (
	"fmt"

	"github.com/lux-lang/lux/diagnostics"
	"github.com/lux-lang/lux/lexer"
)

// maxArgs is the argument/parameter count above which the parser
// reports a non-fatal diagnostic and keeps parsing.
const maxArgs = 255

// parseError is an internal sentinel used to unwind to the nearest
// synchronisation point; it is never returned to callers of Parse.
type parseError struct{ token lexer.Token }

func (parseError) Error() string { return "parse error" }

// Parser is a recursive-descent parser over a token slice, producing a
// []Stmt program. Errors are collected rather than raised on the first
// failure, so a single Parse call can surface every syntax problem in
// the source.
type Parser struct {
	tokens      []lexer.Token
	current     int
	diagnostics []diagnostics.Diagnostic
}

// NewParser builds a Parser over an already-scanned token stream.
func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the `program → declaration* EOF` production, returning the
// parsed statements and any diagnostics collected along the way. A
// non-empty diagnostics slice means the driver should exit 65.
func (p *Parser) Parse() ([]Stmt, []diagnostics.Diagnostic) {
	var statements []Stmt
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.diagnostics
}

// ---- declarations & statements ----

func (p *Parser) declaration() Stmt {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				return
			}
			panic(r)
		}
	}()

	if p.matchType(lexer.FUN) {
		return p.function("function")
	}
	if p.matchType(lexer.VAR) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) function(kind string) Stmt {
	name := p.consume(lexer.IDENTIFIER, fmt.Sprintf("Expect %s name.", kind))
	p.consume(lexer.LEFT_PAREN, fmt.Sprintf("Expect '(' after %s name.", kind))
	var params []lexer.Token
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(lexer.IDENTIFIER, "Expect parameter name."))
			if !p.matchType(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(lexer.LEFT_BRACE, fmt.Sprintf("Expect '{' before %s body.", kind))
	body := p.block()
	return &FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(lexer.IDENTIFIER, "Expect variable name.")
	var initializer Expr = &NilExpr{}
	if p.matchType(lexer.EQUAL) {
		initializer = p.expression()
	}
	p.consume(lexer.SEMICOLON, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.matchType(lexer.PRINT):
		return p.printStatement()
	case p.matchType(lexer.RETURN):
		return p.returnStatement()
	case p.matchType(lexer.FOR):
		return p.forStatement()
	case p.matchType(lexer.WHILE):
		return p.whileStatement()
	case p.matchType(lexer.IF):
		return p.ifStatement()
	case p.matchType(lexer.LEFT_BRACE):
		return &BlockStmt{Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() Stmt {
	value := p.expression()
	p.consume(lexer.SEMICOLON, "Expect ';' after value.")
	return &PrintStmt{Expression: value}
}

func (p *Parser) returnStatement() Stmt {
	keyword := p.previous()
	var value Expr = &NilExpr{}
	if !p.check(lexer.SEMICOLON) {
		value = p.expression()
	}
	p.consume(lexer.SEMICOLON, "Expect ';' after return value.")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

// forStatement desugars `for (init; cond; inc) body` into a Block
// wrapping a While.
func (p *Parser) forStatement() Stmt {
	p.consume(lexer.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.matchType(lexer.SEMICOLON):
		initializer = nil
	case p.check(lexer.VAR):
		p.advance()
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition Expr
	if !p.check(lexer.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(lexer.SEMICOLON, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(lexer.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: true}
	}
	body = &WhileStmt{Cond: condition, Body: body}

	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) whileStatement() Stmt {
	p.consume(lexer.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &WhileStmt{Cond: condition, Body: body}
}

func (p *Parser) ifStatement() Stmt {
	p.consume(lexer.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.matchType(lexer.ELSE) {
		elseBranch = p.statement()
	}
	return &IfStmt{Cond: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) block() []Stmt {
	var statements []Stmt
	for !p.check(lexer.RIGHT_BRACE) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(lexer.RIGHT_BRACE, "Expect '}' after block.")
	return statements
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.SEMICOLON, "Expect ';' after expression.")
	return &ExpressionStmt{Expression: expr}
}

// ---- expressions, lowest to highest precedence ----

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.matchType(lexer.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		if varExpr, ok := expr.(*VariableExpr); ok {
			return &AssignExpr{Name: varExpr.Name, Value: value}
		}
		p.errorAt(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.matchType(lexer.OR) {
		operator := p.previous()
		right := p.and()
		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.matchType(lexer.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.matchAny(lexer.BANG_EQUAL, lexer.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.matchAny(lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL) {
		operator := p.previous()
		right := p.term()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.matchAny(lexer.MINUS, lexer.PLUS) {
		operator := p.previous()
		right := p.factor()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.matchAny(lexer.SLASH, lexer.STAR) {
		operator := p.previous()
		right := p.unary()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.matchAny(lexer.BANG, lexer.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &UnaryExpr{Operator: operator, Right: right}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()
	for {
		if p.matchType(lexer.LEFT_PAREN) {
			expr = p.finishCall(expr)
		} else {
			break
		}
	}
	return expr
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.matchType(lexer.COMMA) {
				break
			}
		}
	}
	paren := p.consume(lexer.RIGHT_PAREN, "Expect ')' after arguments.")
	return &CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.matchType(lexer.FALSE):
		return &LiteralExpr{Value: false}
	case p.matchType(lexer.TRUE):
		return &LiteralExpr{Value: true}
	case p.matchType(lexer.NIL):
		return &NilExpr{}
	case p.matchType(lexer.NUMBER), p.matchType(lexer.STRING):
		return &LiteralExpr{Value: p.previous().Literal}
	case p.matchType(lexer.IDENTIFIER):
		return &VariableExpr{Name: p.previous()}
	case p.matchType(lexer.LEFT_PAREN):
		expr := p.expression()
		p.consume(lexer.RIGHT_PAREN, "Expect ')' after expression.")
		return &GroupingExpr{Inner: expr}
	}
	panic(p.errorAt(p.peek(), "Expect expression."))
}

// ---- token-stream helpers ----

func (p *Parser) matchType(typ lexer.TokenType) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchAny(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.matchType(t) {
			return true
		}
	}
	return false
}

func (p *Parser) check(typ lexer.TokenType) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) advance() lexer.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(typ lexer.TokenType, message string) lexer.Token {
	if p.check(typ) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

// errorAt records a diagnostic for token and returns a parseError the
// caller can panic with to unwind to the nearest synchronisation point.
// Recording and unwinding are kept separate so callers like the
// argument-count checks above can report without aborting the parse.
func (p *Parser) errorAt(token lexer.Token, message string) parseError {
	where := token.Lexeme
	if token.Type == lexer.EOF {
		where = ""
	}
	p.diagnostics = append(p.diagnostics, diagnostics.New(diagnostics.Parse, token.Line, where, message))
	return parseError{token: token}
}

// synchronize discards tokens until it finds a statement boundary: a
// consumed ';' or the start of one of class/fun/var/for/if/while/print/
// return. When the offending token itself starts a fun/var/for/if/
// while/print/return statement, nothing is discarded.
func (p *Parser) synchronize() {
	switch p.peek().Type {
	case lexer.FUN, lexer.VAR, lexer.FOR, lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
		return
	}
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case lexer.CLASS, lexer.FUN, lexer.VAR, lexer.FOR, lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		p.advance()
	}
}

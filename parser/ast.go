/*
Package parser turns a Lux token stream into an abstract syntax tree via
recursive descent.

The AST follows go-mix's visitor-pattern shape (parser/node.go): every
node implements a small marker interface and accepts a visitor, so the
resolver and interpreter each implement one ExprVisitor/StmtVisitor
instead of the AST package knowing about either.
*/
package parser

import "github.com/lux-lang/lux/lexer"

// Expr is the marker interface for every expression AST node.
type Expr interface {
	AcceptExpr(v ExprVisitor) (interface{}, error)
}

// Stmt is the marker interface for every statement AST node.
type Stmt interface {
	AcceptStmt(v StmtVisitor) error
}

// ExprVisitor is implemented once by the resolver and once by the
// interpreter to walk expression nodes without a type switch at every
// call site.
type ExprVisitor interface {
	VisitBinaryExpr(e *BinaryExpr) (interface{}, error)
	VisitGroupingExpr(e *GroupingExpr) (interface{}, error)
	VisitLiteralExpr(e *LiteralExpr) (interface{}, error)
	VisitUnaryExpr(e *UnaryExpr) (interface{}, error)
	VisitVariableExpr(e *VariableExpr) (interface{}, error)
	VisitAssignExpr(e *AssignExpr) (interface{}, error)
	VisitLogicalExpr(e *LogicalExpr) (interface{}, error)
	VisitCallExpr(e *CallExpr) (interface{}, error)
	VisitNilExpr(e *NilExpr) (interface{}, error)
}

// StmtVisitor is implemented once by the resolver and once by the
// interpreter to walk statement nodes.
type StmtVisitor interface {
	VisitExpressionStmt(s *ExpressionStmt) error
	VisitPrintStmt(s *PrintStmt) error
	VisitVarStmt(s *VarStmt) error
	VisitBlockStmt(s *BlockStmt) error
	VisitIfStmt(s *IfStmt) error
	VisitWhileStmt(s *WhileStmt) error
	VisitFunctionStmt(s *FunctionStmt) error
	VisitReturnStmt(s *ReturnStmt) error
}

// ---- Expressions ----

// BinaryExpr is a two-operand operator expression: left op right.
type BinaryExpr struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (e *BinaryExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitBinaryExpr(e) }

// GroupingExpr is a parenthesised sub-expression: (inner).
type GroupingExpr struct {
	Inner Expr
}

func (e *GroupingExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitGroupingExpr(e) }

// LiteralExpr wraps a compile-time constant: a number, string or bool.
type LiteralExpr struct {
	Value interface{} // float64, string, or bool
}

func (e *LiteralExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitLiteralExpr(e) }

// NilExpr is the `nil` literal, kept distinct from LiteralExpr so the
// resolver/interpreter never need a nil-valued interface{} payload.
type NilExpr struct{}

func (e *NilExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitNilExpr(e) }

// UnaryExpr is a prefix operator expression: op right (`!`, `-`).
type UnaryExpr struct {
	Operator lexer.Token
	Right    Expr
}

func (e *UnaryExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitUnaryExpr(e) }

// VariableExpr reads the current value bound to Name.
type VariableExpr struct {
	Name lexer.Token
}

func (e *VariableExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitVariableExpr(e) }

// AssignExpr assigns Value to the variable Name, yielding the assigned
// value as its own result.
type AssignExpr struct {
	Name  lexer.Token
	Value Expr
}

func (e *AssignExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitAssignExpr(e) }

// LogicalExpr is a short-circuiting `and`/`or` expression.
type LogicalExpr struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (e *LogicalExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitLogicalExpr(e) }

// CallExpr invokes Callee with Args. Paren is the closing ')' token,
// kept so runtime errors (arity mismatch, non-callable) can report a
// source line.
type CallExpr struct {
	Callee Expr
	Paren  lexer.Token
	Args   []Expr
}

func (e *CallExpr) AcceptExpr(v ExprVisitor) (interface{}, error) { return v.VisitCallExpr(e) }

// ---- Statements ----

// ExpressionStmt evaluates Expression and discards the result.
type ExpressionStmt struct {
	Expression Expr
}

func (s *ExpressionStmt) AcceptStmt(v StmtVisitor) error { return v.VisitExpressionStmt(s) }

// PrintStmt evaluates Expression and writes its display form followed
// by a newline.
type PrintStmt struct {
	Expression Expr
}

func (s *PrintStmt) AcceptStmt(v StmtVisitor) error { return v.VisitPrintStmt(s) }

// VarStmt declares Name in the current environment, bound to the
// evaluated Initializer (a NilExpr when the source omits one).
type VarStmt struct {
	Name        lexer.Token
	Initializer Expr
}

func (s *VarStmt) AcceptStmt(v StmtVisitor) error { return v.VisitVarStmt(s) }

// BlockStmt executes Statements in a freshly created child environment.
type BlockStmt struct {
	Statements []Stmt
}

func (s *BlockStmt) AcceptStmt(v StmtVisitor) error { return v.VisitBlockStmt(s) }

// IfStmt executes Then or Else (which may be nil) depending on Cond's
// truthiness.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (s *IfStmt) AcceptStmt(v StmtVisitor) error { return v.VisitIfStmt(s) }

// WhileStmt repeats Body while Cond is truthy. `for` loops desugar into
// this node so the interpreter has a single loop form.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (s *WhileStmt) AcceptStmt(v StmtVisitor) error { return v.VisitWhileStmt(s) }

// FunctionStmt declares a named function: Name, Params, and Body. It is
// also reused (with an empty Name) nowhere — Lux has no function
// expressions, only declarations.
type FunctionStmt struct {
	Name   lexer.Token
	Params []lexer.Token
	Body   []Stmt
}

func (s *FunctionStmt) AcceptStmt(v StmtVisitor) error { return v.VisitFunctionStmt(s) }

// ReturnStmt unwinds to the nearest enclosing call frame with Value
// (Nil when the source omits one). Keyword is kept for diagnostics.
type ReturnStmt struct {
	Keyword lexer.Token
	Value   Expr
}

func (s *ReturnStmt) AcceptStmt(v StmtVisitor) error { return v.VisitReturnStmt(s) }

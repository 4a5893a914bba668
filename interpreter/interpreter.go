/*
Package interpreter tree-walks a resolved Lux program and executes it,
the largest single component of the pipeline.

Grounded on akashmaji946/go-mix's eval package: Evaluator holds
globals/environment exactly as eval.Evaluator does, eval_expressions.go's
binary-operator switch supplies the shape of evalBinary, and
eval.Evaluator.CallFunction's type-assertion dispatch (rather than a
polymorphic Call method) is why function.Function/function.Native carry
no Call method — Interpreter.call type-switches on them directly.

Return is not modelled as an error the driver ever prints: returnSignal
implements error purely so it can ride the same (value.Value, error)
return channel Go expression evaluation already uses, and is unwrapped
at the nearest call boundary with errors.As — never by panic/recover.
This is the idiomatic-Go rendering of a three-way "ran to completion |
returned a value | failed with a runtime error" result, since Go has no
sum types.
*/
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lux-lang/lux/environment"
	"github.com/lux-lang/lux/function"
	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/parser"
	"github.com/lux-lang/lux/value"
)

// RuntimeError is a failure raised while executing a resolved program:
// a type mismatch, an undefined variable, an arity mismatch, or a call
// to a non-callable value.
type RuntimeError struct {
	Token   lexer.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func newRuntimeError(token lexer.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: token, Message: fmt.Sprintf(format, args...)}
}

// returnSignal carries a `return` statement's value up to the call site
// that invoked the function currently executing. It is recognized with
// errors.As at exactly one place (call) and must never escape further.
type returnSignal struct {
	Value value.Value
}

func (returnSignal) Error() string { return "return outside a call (internal control signal)" }

// Interpreter executes statements and expressions against a tree of
// Environments, rooted at globals. locals is the resolver's distance
// map: consulted for every variable read/assignment, absence meaning
// "global".
type Interpreter struct {
	globals     *environment.Environment
	environment *environment.Environment
	locals      map[parser.Expr]int
	Writer      io.Writer
}

// New builds an Interpreter with globals pre-populated with clock(),
// the single native builtin Lux ships. Writer defaults to os.Stdout;
// tests redirect it with SetWriter.
func New() *Interpreter {
	globals := environment.New()
	globals.Define("clock", function.NewNative("clock", 0, func(args []value.Value) (value.Value, error) {
		return value.NewNumber(float64(time.Now().UnixNano()) / float64(time.Second)), nil
	}))
	return &Interpreter{globals: globals, environment: globals, locals: make(map[parser.Expr]int), Writer: os.Stdout}
}

// Globals exposes the root environment, so callers can inspect
// top-level bindings after Interpret.
func (in *Interpreter) Globals() *environment.Environment { return in.globals }

// SetWriter redirects `print` output, following go-mix's
// eval.Evaluator.SetWriter — used by tests to capture output in a
// bytes.Buffer instead of the real stdout.
func (in *Interpreter) SetWriter(w io.Writer) { in.Writer = w }

// ResolveLocals merges a resolver pass's distance map into the
// interpreter's. Called once per Interpret for file runs, and once per
// line for the REPL, where each line is scanned/parsed/resolved fresh
// but the Interpreter (and therefore globals) persists across lines.
func (in *Interpreter) ResolveLocals(locals map[parser.Expr]int) {
	for expr, distance := range locals {
		in.locals[expr] = distance
	}
}

// Interpret executes statements in program order and stops at the
// first runtime error, aborting the current top-level execution. A
// returned *RuntimeError is always the concrete type; callers needing
// the exit code use errors.As.
func (in *Interpreter) Interpret(statements []parser.Stmt) error {
	for _, stmt := range statements {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(stmt parser.Stmt) error {
	return stmt.AcceptStmt(in)
}

func (in *Interpreter) evaluate(expr parser.Expr) (value.Value, error) {
	v, err := expr.AcceptExpr(in)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return value.Nil, nil
	}
	return v.(value.Value), nil
}

// ---- statements ----

func (in *Interpreter) VisitExpressionStmt(s *parser.ExpressionStmt) error {
	_, err := in.evaluate(s.Expression)
	return err
}

func (in *Interpreter) VisitPrintStmt(s *parser.PrintStmt) error {
	v, err := in.evaluate(s.Expression)
	if err != nil {
		return err
	}
	fmt.Fprintln(in.Writer, v.String())
	return nil
}

func (in *Interpreter) VisitVarStmt(s *parser.VarStmt) error {
	var init value.Value = value.Nil
	if s.Initializer != nil {
		v, err := in.evaluate(s.Initializer)
		if err != nil {
			return err
		}
		init = v
	}
	in.environment.Define(s.Name.Lexeme, init)
	return nil
}

func (in *Interpreter) VisitBlockStmt(s *parser.BlockStmt) error {
	return in.executeBlock(s.Statements, environment.NewChild(in.environment))
}

// executeBlock runs statements in env, restoring the interpreter's
// previous environment on every exit path — normal completion, a
// returnSignal, or a runtime error — so nested scopes release in
// strict LIFO order.
func (in *Interpreter) executeBlock(statements []parser.Stmt, env *environment.Environment) error {
	previous := in.environment
	in.environment = env
	defer func() { in.environment = previous }()

	for _, stmt := range statements {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) VisitIfStmt(s *parser.IfStmt) error {
	cond, err := in.evaluate(s.Cond)
	if err != nil {
		return err
	}
	if value.IsTruthy(cond) {
		return in.execute(s.Then)
	} else if s.Else != nil {
		return in.execute(s.Else)
	}
	return nil
}

func (in *Interpreter) VisitWhileStmt(s *parser.WhileStmt) error {
	for {
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if !value.IsTruthy(cond) {
			return nil
		}
		if err := in.execute(s.Body); err != nil {
			return err
		}
	}
}

func (in *Interpreter) VisitFunctionStmt(s *parser.FunctionStmt) error {
	fn := function.New(s, in.environment)
	in.environment.Define(s.Name.Lexeme, fn)
	return nil
}

func (in *Interpreter) VisitReturnStmt(s *parser.ReturnStmt) error {
	var v value.Value = value.Nil
	if s.Value != nil {
		ev, err := in.evaluate(s.Value)
		if err != nil {
			return err
		}
		v = ev
	}
	return returnSignal{Value: v}
}

// ---- expressions ----

func (in *Interpreter) VisitLiteralExpr(e *parser.LiteralExpr) (interface{}, error) {
	switch lit := e.Value.(type) {
	case float64:
		return value.NewNumber(lit), nil
	case string:
		return value.NewString(lit), nil
	case bool:
		return value.NewBoolean(lit), nil
	default:
		return value.Nil, nil
	}
}

func (in *Interpreter) VisitNilExpr(e *parser.NilExpr) (interface{}, error) {
	return value.Nil, nil
}

func (in *Interpreter) VisitGroupingExpr(e *parser.GroupingExpr) (interface{}, error) {
	return in.evaluate(e.Inner)
}

func (in *Interpreter) VisitUnaryExpr(e *parser.UnaryExpr) (interface{}, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case lexer.MINUS:
		n, ok := right.(value.Number)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operand must be a number.")
		}
		return value.NewNumber(-n.Val), nil
	case lexer.BANG:
		return value.NewBoolean(!value.IsTruthy(right)), nil
	}
	return nil, newRuntimeError(e.Operator, "Unknown unary operator.")
}

func (in *Interpreter) VisitBinaryExpr(e *parser.BinaryExpr) (interface{}, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.PLUS:
		if ln, lok := left.(value.Number); lok {
			if rn, rok := right.(value.Number); rok {
				return value.NewNumber(ln.Val + rn.Val), nil
			}
		}
		if ls, lok := left.(value.String); lok {
			if rs, rok := right.(value.String); rok {
				return value.NewString(ls.Val + rs.Val), nil
			}
		}
		return nil, newRuntimeError(e.Operator, "Operands must be two numbers or two strings.")
	case lexer.MINUS:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
		}
		return value.NewNumber(ln - rn), nil
	case lexer.STAR:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
		}
		return value.NewNumber(ln * rn), nil
	case lexer.SLASH:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
		}
		return value.NewNumber(ln / rn), nil
	case lexer.GREATER:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
		}
		return value.NewBoolean(ln > rn), nil
	case lexer.GREATER_EQUAL:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
		}
		return value.NewBoolean(ln >= rn), nil
	case lexer.LESS:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
		}
		return value.NewBoolean(ln < rn), nil
	case lexer.LESS_EQUAL:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
		}
		return value.NewBoolean(ln <= rn), nil
	case lexer.BANG_EQUAL:
		return value.NewBoolean(!value.Equal(left, right)), nil
	case lexer.EQUAL_EQUAL:
		return value.NewBoolean(value.Equal(left, right)), nil
	}
	return nil, newRuntimeError(e.Operator, "Unknown binary operator.")
}

func numberOperands(left, right value.Value) (float64, float64, bool) {
	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if !lok || !rok {
		return 0, 0, false
	}
	return ln.Val, rn.Val, true
}

func (in *Interpreter) VisitLogicalExpr(e *parser.LogicalExpr) (interface{}, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Operator.Type == lexer.OR {
		if value.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !value.IsTruthy(left) {
			return left, nil
		}
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) VisitVariableExpr(e *parser.VariableExpr) (interface{}, error) {
	return in.lookUpVariable(e.Name, e)
}

func (in *Interpreter) lookUpVariable(name lexer.Token, expr parser.Expr) (value.Value, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.environment.GetAt(distance, name.Lexeme), nil
	}
	v, err := in.globals.Get(name)
	if err != nil {
		return nil, newRuntimeError(name, "%s", err.Error())
	}
	return v, nil
}

func (in *Interpreter) VisitAssignExpr(e *parser.AssignExpr) (interface{}, error) {
	v, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := in.locals[e]; ok {
		in.environment.AssignAt(distance, e.Name.Lexeme, v)
		return v, nil
	}
	if err := in.globals.Assign(e.Name, v); err != nil {
		return nil, newRuntimeError(e.Name, "%s", err.Error())
	}
	return v, nil
}

func (in *Interpreter) VisitCallExpr(e *parser.CallExpr) (interface{}, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, 0, len(e.Args))
	for _, argExpr := range e.Args {
		arg, err := in.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	return in.call(callee, e.Paren, args)
}

// call dispatches by concrete type rather than through a Callable
// interface method, matching function.Function/function.Native's
// tagged-sum design.
func (in *Interpreter) call(callee value.Value, paren lexer.Token, args []value.Value) (value.Value, error) {
	switch fn := callee.(type) {
	case *function.Native:
		if len(args) != fn.Arity() {
			return nil, newRuntimeError(paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
		}
		return fn.Fn(args)
	case *function.Function:
		if len(args) != fn.Arity() {
			return nil, newRuntimeError(paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
		}
		callEnv := environment.NewChild(fn.Closure)
		for i, param := range fn.Params() {
			callEnv.Define(param.Lexeme, args[i])
		}
		err := in.executeBlock(fn.Body(), callEnv)
		var ret returnSignal
		if errors.As(err, &ret) {
			return ret.Value, nil
		}
		if err != nil {
			return nil, err
		}
		return value.Nil, nil
	default:
		return nil, newRuntimeError(paren, "Can only call functions and classes.")
	}
}

/*
Package function implements Lux's two Callable kinds — user-defined
closures and the single native builtin, clock() — as a tagged sum
(Callable = Native | UserFn) rather than dynamic dispatch over a trait
object, keeping Value cloneable and equatable.

Grounded on akashmaji946/go-mix's function.Function (name/params/body/
captured-scope fields) and its eval.Evaluator.CallFunction, which
already dispatches by type assertion (fn.(*function.Function)) rather
than through a polymorphic Call method — this package follows the same
shape: Function and Native carry no Call method at all, and
interpreter.call type-switches on them directly.
*/
package function

import (
	"fmt"
	"sync/atomic"

	"github.com/lux-lang/lux/environment"
	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/parser"
	"github.com/lux-lang/lux/value"
)

var nextID uint64

func newID() uint64 {
	return atomic.AddUint64(&nextID, 1)
}

// Function is a user-defined Lux function: its declaration plus the
// environment active when it was defined (its closure). Capturing the
// environment by reference, not by copy, is what makes later mutations
// of captured variables (e.g. a counter closure) visible across calls.
type Function struct {
	Declaration *parser.FunctionStmt
	Closure     *environment.Environment
	id          uint64
}

// New wraps declaration as a Function closing over closure.
func New(declaration *parser.FunctionStmt, closure *environment.Environment) *Function {
	return &Function{Declaration: declaration, Closure: closure, id: newID()}
}

func (*Function) Type() value.Type { return value.CallableType }

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

// Arity returns the number of declared parameters.
func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Identity implements value.Identifiable: two Function values are equal
// iff they are the very same closure.
func (f *Function) Identity() uint64 { return f.id }

// Name returns the declared function name.
func (f *Function) Name() string { return f.Declaration.Name.Lexeme }

// Params returns the function's parameter tokens in declaration order.
func (f *Function) Params() []lexer.Token { return f.Declaration.Params }

// Body returns the function's statement body.
func (f *Function) Body() []parser.Stmt { return f.Declaration.Body }

// NativeFn is the Go implementation of a native callable. args has
// already been arity-checked by the interpreter before Fn is invoked.
type NativeFn func(args []value.Value) (value.Value, error)

// Native is a builtin callable supplied by the host, not user source —
// in Lux, exactly one: clock().
type Native struct {
	NameStr  string
	ArityVal int
	Fn       NativeFn
	id       uint64
}

// NewNative builds a Native callable with a fresh identity.
func NewNative(name string, arity int, fn NativeFn) *Native {
	return &Native{NameStr: name, ArityVal: arity, Fn: fn, id: newID()}
}

func (*Native) Type() value.Type { return value.CallableType }

func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.NameStr) }

// Arity returns the builtin's fixed parameter count.
func (n *Native) Arity() int { return n.ArityVal }

// Identity implements value.Identifiable.
func (n *Native) Identity() uint64 { return n.id }

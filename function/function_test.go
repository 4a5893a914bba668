package function

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lux-lang/lux/environment"
	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/parser"
	"github.com/lux-lang/lux/value"
)

func TestFunction_IdentityIsUniquePerInstance(t *testing.T) {
	decl := &parser.FunctionStmt{Name: lexer.Token{Lexeme: "f"}}
	env := environment.New()

	a := New(decl, env)
	b := New(decl, env)

	assert.NotEqual(t, a.Identity(), b.Identity())
	assert.Equal(t, a.Identity(), a.Identity())
}

func TestFunction_ArityMatchesDeclaredParams(t *testing.T) {
	decl := &parser.FunctionStmt{
		Name:   lexer.Token{Lexeme: "add"},
		Params: []lexer.Token{{Lexeme: "a"}, {Lexeme: "b"}},
	}
	fn := New(decl, environment.New())

	assert.Equal(t, 2, fn.Arity())
	assert.Equal(t, "<fn add>", fn.String())
	assert.Equal(t, value.CallableType, fn.Type())
}

func TestNative_WrapsNameArityAndFn(t *testing.T) {
	called := false
	n := NewNative("clock", 0, func(args []value.Value) (value.Value, error) {
		called = true
		return value.NewNumber(42), nil
	})

	assert.Equal(t, 0, n.Arity())
	assert.Equal(t, "<native fn clock>", n.String())
	assert.Equal(t, value.CallableType, n.Type())

	v, err := n.Fn(nil)
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, value.NewNumber(42), v)
}

func TestNative_IdentityDiffersAcrossInstances(t *testing.T) {
	a := NewNative("clock", 0, nil)
	b := NewNative("clock", 0, nil)
	assert.NotEqual(t, a.Identity(), b.Identity())
}

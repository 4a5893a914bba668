/*
Package environment implements Lux's lexically-nested name → value
mapping: a tree of Environments in which a child holds a reference to
its enclosing parent and never the reverse, so closures can pin a
subtree alive simply by holding a pointer to it.

Grounded on akashmaji946/go-mix's scope.Scope (parent-chain LookUp/Bind/
Assign), narrowed to the single values map Lux needs — go-mix's
Consts/LetVars/LetTypes maps support a let/const type system Lux does
not have.
*/
package environment

import (
	"fmt"

	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/value"
)

// Environment is one lexical scope's runtime realisation: a set of
// bindings plus a link to the enclosing scope (nil for the global
// environment).
type Environment struct {
	values    map[string]value.Value
	Enclosing *Environment
}

// New creates a root (global) Environment with no enclosing scope.
func New() *Environment {
	return &Environment{values: make(map[string]value.Value)}
}

// NewChild creates an Environment nested inside enclosing — the shape
// every block and function call uses to introduce a fresh scope.
func NewChild(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]value.Value), Enclosing: enclosing}
}

// Define binds name to val in this environment. Re-declaring a name
// already defined here simply overwrites it — Lux allows `var x = 1; var
// x = 2;` at the top level and in the REPL; the resolver only rejects
// duplicate declarations within a single local scope.
func (e *Environment) Define(name string, val value.Value) {
	e.values[name] = val
}

// Get reads name by walking up the enclosing chain, used only for
// globals (no resolver distance was recorded for the lookup).
func (e *Environment) Get(name lexer.Token) (value.Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Get(name)
	}
	return nil, fmt.Errorf("Undefined variable '%s'.", name.Lexeme)
}

// Assign updates name's binding in the nearest enclosing scope that
// declares it, used only for globals (no resolver distance).
func (e *Environment) Assign(name lexer.Token, val value.Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = val
		return nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Assign(name, val)
	}
	return fmt.Errorf("Undefined variable '%s'.", name.Lexeme)
}

// Ancestor walks distance hops up the enclosing chain. distance is
// always a value the resolver computed as reachable, so it never walks
// past the root.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.Enclosing
	}
	return env
}

// GetAt reads name from the environment distance hops up the chain —
// the path every resolved local/closure variable read takes.
func (e *Environment) GetAt(distance int, name string) value.Value {
	return e.Ancestor(distance).values[name]
}

// AssignAt writes name in the environment distance hops up the chain —
// the path every resolved local/closure assignment takes.
func (e *Environment) AssignAt(distance int, name string, val value.Value) {
	e.Ancestor(distance).values[name] = val
}

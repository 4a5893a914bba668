package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/parser"
)

func mustParse(t *testing.T, source string) []parser.Stmt {
	t.Helper()
	tokens, lexDiags := lexer.NewScanner(source).ScanTokens()
	require.Empty(t, lexDiags)
	stmts, parseDiags := parser.NewParser(tokens).Parse()
	require.Empty(t, parseDiags)
	return stmts
}

func TestResolve_LocalVariableGetsDistance(t *testing.T) {
	stmts := mustParse(t, `{ var a = 1; print a; }`)
	locals, diags := New().Resolve(stmts)
	require.Empty(t, diags)

	block := stmts[0].(*parser.BlockStmt)
	printStmt := block.Statements[1].(*parser.PrintStmt)
	varExpr := printStmt.Expression.(*parser.VariableExpr)

	distance, ok := locals[varExpr]
	require.True(t, ok)
	assert.Equal(t, 0, distance)
}

func TestResolve_GlobalVariableHasNoEntry(t *testing.T) {
	stmts := mustParse(t, `var a = 1; print a;`)
	locals, diags := New().Resolve(stmts)
	require.Empty(t, diags)

	printStmt := stmts[1].(*parser.PrintStmt)
	varExpr := printStmt.Expression.(*parser.VariableExpr)

	_, ok := locals[varExpr]
	assert.False(t, ok)
}

func TestResolve_ClosureCapturesOuterScopeDistance(t *testing.T) {
	// a in showA is one environment further out than its own call frame:
	// the function body scope (depth 0) doesn't declare `a`, the
	// enclosing block scope (depth 1) does.
	stmts := mustParse(t, `{ var a = "global"; fun showA() { print a; } showA(); }`)
	locals, diags := New().Resolve(stmts)
	require.Empty(t, diags)

	block := stmts[0].(*parser.BlockStmt)
	fn := block.Statements[1].(*parser.FunctionStmt)
	printStmt := fn.Body[0].(*parser.PrintStmt)
	varExpr := printStmt.Expression.(*parser.VariableExpr)

	distance, ok := locals[varExpr]
	require.True(t, ok)
	assert.Equal(t, 1, distance)
}

func TestResolve_SelfReferentialInitializerIsAnError(t *testing.T) {
	stmts := mustParse(t, `{ var a = a; }`)
	_, diags := New().Resolve(stmts)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Can't read local variable in its own initializer.")
}

func TestResolve_DuplicateLocalDeclarationIsAnError(t *testing.T) {
	stmts := mustParse(t, `{ var a = 1; var a = 2; }`)
	_, diags := New().Resolve(stmts)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Already a variable with this name in this scope.")
}

func TestResolve_DuplicateGlobalDeclarationIsAllowed(t *testing.T) {
	stmts := mustParse(t, `var a = 1; var a = 2;`)
	_, diags := New().Resolve(stmts)
	assert.Empty(t, diags)
}

func TestResolve_ReturnOutsideFunctionIsAnError(t *testing.T) {
	stmts := mustParse(t, `return 1;`)
	_, diags := New().Resolve(stmts)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Can't return from top-level code.")
}

func TestResolve_ReturnInsideFunctionIsFine(t *testing.T) {
	stmts := mustParse(t, `fun f() { return 1; }`)
	_, diags := New().Resolve(stmts)
	assert.Empty(t, diags)
}

// TestResolve_Idempotent covers the resolver-idempotence invariant:
// resolving the same AST twice (with two Resolver instances, since a
// single instance's scope stack is consumed by one pass) yields
// identical distances.
func TestResolve_Idempotent(t *testing.T) {
	stmts := mustParse(t, `fun outer() { var x = 1; fun inner() { print x; } inner(); }`)

	first, diags1 := New().Resolve(stmts)
	require.Empty(t, diags1)
	second, diags2 := New().Resolve(stmts)
	require.Empty(t, diags2)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolving twice produced different distances (-first +second):\n%s", diff)
	}
}

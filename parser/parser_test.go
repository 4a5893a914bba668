package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lux-lang/lux/lexer"
)

func mustParse(t *testing.T, source string) []Stmt {
	t.Helper()
	tokens, lexDiags := lexer.NewScanner(source).ScanTokens()
	require.Empty(t, lexDiags)
	stmts, parseDiags := NewParser(tokens).Parse()
	require.Empty(t, parseDiags)
	return stmts
}

func TestParse_ArithmeticPrecedence(t *testing.T) {
	stmts := mustParse(t, "print 1 + 2 * 3;")
	require.Len(t, stmts, 1)
	printStmt, ok := stmts[0].(*PrintStmt)
	require.True(t, ok)

	binary, ok := printStmt.Expression.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.PLUS, binary.Operator.Type)

	right, ok := binary.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.STAR, right.Operator.Type)
}

func TestParse_AssignmentRightAssociative(t *testing.T) {
	stmts := mustParse(t, "a = b = 3;")
	exprStmt := stmts[0].(*ExpressionStmt)
	outer, ok := exprStmt.Expression.(*AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "a", outer.Name.Lexeme)

	inner, ok := outer.Value.(*AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Name.Lexeme)
}

func TestParse_ForDesugarsToBlockWhileBlock(t *testing.T) {
	stmts := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Statements, 2)

	_, isVar := outer.Statements[0].(*VarStmt)
	assert.True(t, isVar)

	whileStmt, ok := outer.Statements[1].(*WhileStmt)
	require.True(t, ok)

	body, ok := whileStmt.Body.(*BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Statements, 2)

	_, isPrint := body.Statements[0].(*PrintStmt)
	assert.True(t, isPrint)
	_, isIncrement := body.Statements[1].(*ExpressionStmt)
	assert.True(t, isIncrement)
}

func TestParse_ForOmittedClausesDefaultToTrueCondition(t *testing.T) {
	stmts := mustParse(t, "for (;;) print 1;")
	whileStmt, ok := stmts[0].(*WhileStmt)
	require.True(t, ok)
	lit, ok := whileStmt.Cond.(*LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, true, lit.Value)
}

func TestParse_InvalidAssignmentTargetReportsButDoesNotAbortParse(t *testing.T) {
	tokens, _ := lexer.NewScanner("1 = 2; print 3;").ScanTokens()
	stmts, diags := NewParser(tokens).Parse()
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0].Message, "Invalid assignment target.")
	// parsing continues past the invalid-target statement without synchronising
	require.Len(t, stmts, 2)
}

func TestParse_MissingSemicolonSynchronizesToNextStatement(t *testing.T) {
	tokens, _ := lexer.NewScanner("var a = 1 print a;").ScanTokens()
	stmts, diags := NewParser(tokens).Parse()
	require.NotEmpty(t, diags)
	require.Len(t, stmts, 1)
	_, ok := stmts[0].(*PrintStmt)
	assert.True(t, ok)
}

func TestParse_MoreThan255ArgumentsIsNonFatal(t *testing.T) {
	source := "fn("
	for i := 0; i < 256; i++ {
		if i > 0 {
			source += ", "
		}
		source += "1"
	}
	source += ");"

	tokens, _ := lexer.NewScanner(source).ScanTokens()
	stmts, diags := NewParser(tokens).Parse()
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0].Message, "Can't have more than 255 arguments.")
	require.Len(t, stmts, 1)
}

func TestParse_FunctionDeclaration(t *testing.T) {
	stmts := mustParse(t, "fun add(a, b) { return a + b; }")
	fn, ok := stmts[0].(*FunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Lexeme)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
}

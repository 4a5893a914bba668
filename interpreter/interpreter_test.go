package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/parser"
	"github.com/lux-lang/lux/resolver"
)

// run scans, parses, resolves and interprets source against a fresh
// Interpreter, returning the captured stdout and any error from
// Interpret. Lex/parse/resolve diagnostics fail the test immediately —
// these tests exercise the interpreter, not the earlier stages.
func run(t *testing.T, source string) (string, error) {
	t.Helper()

	tokens, lexDiags := lexer.NewScanner(source).ScanTokens()
	require.Empty(t, lexDiags)

	statements, parseDiags := parser.NewParser(tokens).Parse()
	require.Empty(t, parseDiags)

	locals, resolveDiags := resolver.New().Resolve(statements)
	require.Empty(t, resolveDiags)

	var out bytes.Buffer
	in := New()
	in.SetWriter(&out)
	in.ResolveLocals(locals)

	err := in.Interpret(statements)
	return out.String(), err
}

func lines(output string) []string {
	return strings.Split(strings.TrimRight(output, "\n"), "\n")
}

func TestInterpret_ArithmeticAndPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7", strings.TrimRight(out, "\n"))
}

func TestInterpret_ClosuresShareMutableCapturedState(t *testing.T) {
	out, err := run(t, `
fun makeCounter() {
  var i = 0;
  fun count() { i = i + 1; print i; }
  return count;
}
var c = makeCounter();
c(); c(); c();
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, lines(out))
}

func TestInterpret_ShadowingResolvesToDeclarationSiteScope(t *testing.T) {
	out, err := run(t, `
var a = "global";
{
  fun showA() { print a; }
  showA();
  var a = "local";
  showA();
}
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"global", "global"}, lines(out))
}

func TestInterpret_LogicalOperatorsReturnOperandValue(t *testing.T) {
	out, err := run(t, `print "hi" or 2; print nil or "yes";`)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "yes"}, lines(out))
}

func TestInterpret_RuntimeTypeErrorOnNonNumericMinus(t *testing.T) {
	_, err := run(t, `print "a" - 1;`)
	require.Error(t, err)
	rtErr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Operands must be numbers.")
}

func TestInterpret_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	rtErr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Can only call functions and classes.")
}

func TestInterpret_ArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	require.Error(t, err)
	rtErr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Expected 2 arguments but got 1.")
}

func TestInterpret_DivisionByZeroYieldsInfNotError(t *testing.T) {
	out, err := run(t, `print 1 / 0;`)
	require.NoError(t, err)
	assert.Equal(t, "+Inf", strings.TrimRight(out, "\n"))
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar", strings.TrimRight(out, "\n"))
}

func TestInterpret_WhileLoop(t *testing.T) {
	out, err := run(t, `
var i = 0;
while (i < 3) { print i; i = i + 1; }
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, lines(out))
}

func TestInterpret_ForLoopMatchesDesugaredBlockWhileForm(t *testing.T) {
	desugared, errDesugared := run(t, `
{
  var i = 0;
  while (i < 3) { print i; i = i + 1; }
}
`)
	require.NoError(t, errDesugared)

	forLoop, errForLoop := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, errForLoop)

	assert.Equal(t, desugared, forLoop)
}

func TestInterpret_EqualityMatchesInequalityNegation(t *testing.T) {
	out, err := run(t, `print 1 == 1; print 1 != 1; print "a" == "b"; print "a" != "b";`)
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false", "false", "true"}, lines(out))
}

func TestInterpret_TruthinessDoubleNegation(t *testing.T) {
	out, err := run(t, `print !!0; print !!nil; print !!false; print !!"s";`)
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false", "false", "true"}, lines(out))
}

func TestInterpret_UndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print missing;`)
	require.Error(t, err)
	rtErr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Undefined variable 'missing'.")
}

func TestInterpret_ClockIsRegisteredAsZeroArityNative(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimRight(out, "\n"))
}

func TestInterpret_BlockScopeIsRestoredAfterRuntimeError(t *testing.T) {
	in := New()
	var out bytes.Buffer
	in.SetWriter(&out)

	tokens, _ := lexer.NewScanner(`var a = "outer"; { var a = "inner"; print a - 1; }`).ScanTokens()
	statements, _ := parser.NewParser(tokens).Parse()
	locals, _ := resolver.New().Resolve(statements)
	in.ResolveLocals(locals)

	err := in.Interpret(statements)
	require.Error(t, err)

	// the outer `a` binding must be untouched by the failed inner block
	v, getErr := in.Globals().Get(lexer.Token{Lexeme: "a"})
	require.NoError(t, getErr)
	assert.Equal(t, "outer", v.String())
}

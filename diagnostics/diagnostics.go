/*
Package diagnostics holds the error-reporting types shared by the
scanner, parser, resolver and interpreter, and the exit-code taxonomy
that the driver (cmd/lux, repl) translates them into.

None of the repositories in the reference pack reach for a structured
logging library for this kind of front-end diagnostic reporting — they
format directly with fmt/log — so this package does the same rather
than inventing a dependency the corpus never reaches for.
*/
package diagnostics

import "fmt"

// Stage identifies which phase of the pipeline produced a Diagnostic,
// which in turn determines the process exit code.
type Stage int

const (
	Lex Stage = iota
	Parse
	Resolve
	Runtime
)

// ExitCode returns the process exit code associated with this stage:
// 0 success; 64 CLI misuse; 65 scan/parse; 70 runtime; 75 resolver.
func (s Stage) ExitCode() int {
	switch s {
	case Lex, Parse:
		return 65
	case Resolve:
		return 75
	case Runtime:
		return 70
	default:
		return 0
	}
}

// Diagnostic is a single reported problem: a source line, an optional
// "where" fragment (the lexeme or "at end"), and a human-readable
// message.
type Diagnostic struct {
	Stage   Stage
	Line    int
	Where   string
	Message string
}

// New builds a lex/parse/resolve-style Diagnostic.
func New(stage Stage, line int, where, message string) Diagnostic {
	return Diagnostic{Stage: stage, Line: line, Where: where, Message: message}
}

// String renders the lex/parse/resolve diagnostic wire format:
//
//	line {n} Error at '{lexeme}': {message}
//
// or, when Where is empty (the EOF case), "at end" in place of the
// quoted lexeme.
func (d Diagnostic) String() string {
	where := fmt.Sprintf("'%s'", d.Where)
	if d.Where == "" {
		where = "end"
	}
	return fmt.Sprintf("line %d Error at %s: %s", d.Line, where, d.Message)
}

// RuntimeDiagnostic renders the runtime error wire format:
//
//	{token-info} {message}\n [line {n}]
func RuntimeDiagnostic(tokenInfo string, line int, message string) string {
	return fmt.Sprintf("%s %s\n [line %d]", tokenInfo, message, line)
}

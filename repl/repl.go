/*
Package repl implements Lux's interactive read-eval-print loop: read
one line, scan/parse/resolve/execute it, print any diagnostics, and
loop — a single Interpreter is threaded across lines so top-level
`var`/`fun` declarations persist for later lines.

Grounded closely on akashmaji946/go-mix's repl/repl.go: the Repl struct
carrying banner/version/author/prompt strings, chzyer/readline for line
editing and history, fatih/color for the same blue/green/yellow/red/cyan
palette, and a panic-recovery wrapper around each line's execution. The
REPL-termination rule differs from go-mix's (no ".exit" command; Lux
terminates the loop on an empty line) and diagnostics are rendered
through package diagnostics rather than go-mix's ad hoc
result.ToString().
*/
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/lux-lang/lux/diagnostics"
	"github.com/lux-lang/lux/interpreter"
	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/parser"
	"github.com/lux-lang/lux/resolver"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the cosmetic configuration of an interactive session.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
	NoColor bool
}

// New builds a Repl. NoColor disables the ANSI palette, mirroring the
// --no-color flag wired in cmd/lux.
func New(banner, version, author, line, license, prompt string, noColor bool) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt, NoColor: noColor}
}

func (r *Repl) printBanner(writer io.Writer) {
	if r.NoColor {
		fmt.Fprintf(writer, "%s\n%s\n%s\n", r.Line, r.Banner, r.Line)
		fmt.Fprintf(writer, "Version: %s | Author: %s | License: %s\n", r.Version, r.Author, r.License)
		fmt.Fprintf(writer, "%s\n", r.Line)
		fmt.Fprintln(writer, "Type Lux statements and press enter.")
		fmt.Fprintln(writer, "An empty line exits the REPL.")
		return
	}
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintf(writer, "Version: %s | Author: %s | License: %s\n", r.Version, r.Author, r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintln(writer, "Type Lux statements and press enter.")
	cyanColor.Fprintln(writer, "An empty line exits the REPL.")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the loop on the controlling terminal until an empty line
// or EOF, with history and line editing via readline.
func (r *Repl) Start(writer io.Writer) error {
	r.printBanner(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	return r.loop(writer, func() (string, bool) {
		line, err := rl.Readline()
		if err != nil { // EOF (Ctrl-D) or readline error
			return "", false
		}
		rl.SaveHistory(line)
		return line, true
	})
}

// StartOn runs the loop over an arbitrary byte stream (a TCP
// connection in cmd/lux's server mode) using a plain bufio.Scanner —
// readline's line editing assumes a local terminal and does not apply
// to a raw socket.
func (r *Repl) StartOn(conn io.ReadWriter) error {
	r.printBanner(conn)

	scanner := bufio.NewScanner(conn)
	return r.loop(conn, func() (string, bool) {
		fmt.Fprint(conn, r.Prompt)
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	})
}

// loop is the shared read-trim-dispatch core behind Start and StartOn.
// readLine returns ok=false on EOF or any read failure.
func (r *Repl) loop(writer io.Writer, readLine func() (string, bool)) error {
	in := interpreter.New()
	in.SetWriter(writer)

	for {
		line, ok := readLine()
		if !ok {
			fmt.Fprintln(writer, "Good bye!")
			return nil
		}

		trimmed := strings.Trim(line, " \t\r\n")
		if trimmed == "" {
			fmt.Fprintln(writer, "Good bye!")
			return nil
		}

		r.runLine(writer, trimmed, in)
	}
}

// runLine scans, parses, resolves and executes one line, recovering
// from any panic so a single bad line never kills the session.
func (r *Repl) runLine(writer io.Writer, line string, in *interpreter.Interpreter) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.errColor().Fprintf(writer, "[internal error] %v\n", recovered)
		}
	}()

	scanner := lexer.NewScanner(line)
	tokens, lexDiags := scanner.ScanTokens()
	if len(lexDiags) > 0 {
		r.printDiagnostics(writer, lexDiags)
		return
	}

	p := parser.NewParser(tokens)
	statements, parseDiags := p.Parse()
	if len(parseDiags) > 0 {
		r.printDiagnostics(writer, parseDiags)
		return
	}

	res := resolver.New()
	locals, resolveDiags := res.Resolve(statements)
	if len(resolveDiags) > 0 {
		r.printDiagnostics(writer, resolveDiags)
		return
	}
	in.ResolveLocals(locals)

	if err := in.Interpret(statements); err != nil {
		if rtErr, ok := err.(*interpreter.RuntimeError); ok {
			r.errColor().Fprintf(writer, "%s\n",
				diagnostics.RuntimeDiagnostic(rtErr.Token.Lexeme, rtErr.Token.Line, rtErr.Message))
			return
		}
		r.errColor().Fprintf(writer, "%v\n", err)
	}
}

func (r *Repl) printDiagnostics(writer io.Writer, diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		r.errColor().Fprintf(writer, "%s\n", d.String())
	}
}

func (r *Repl) errColor() *color.Color {
	if r.NoColor {
		return color.New()
	}
	return redColor
}

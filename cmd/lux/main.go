/*
Command lux is the Lux interpreter's entry point: no arguments starts
the REPL, one path argument runs a file, and `server <port>` runs a
multi-client REPL server, one Interpreter per connection.

Grounded on akashmaji946/go-mix's main/main.go for the mode dispatch
(REPL vs file vs server, the banner/version/author/prompt constants,
startServer/handleClient's one-goroutine-per-connection shape), rebuilt
on spf13/cobra the way opal-lang-opal's runtime/cli.CLIHarness wires a
root command with persistent flags.
*/
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lux-lang/lux/diagnostics"
	"github.com/lux-lang/lux/interpreter"
	"github.com/lux-lang/lux/lexer"
	"github.com/lux-lang/lux/parser"
	"github.com/lux-lang/lux/repl"
	"github.com/lux-lang/lux/resolver"
)

const (
	version = "0.1.0"
	author  = "lux-lang"
	license = "MIT"
	prompt  = "lux> "
	line    = "----------------------------------------------------------------"
	banner  = `
 ██▓     █    ██ ▒██   ██▒
▓██▒     ██  ▓██▒▒▒ █ █ ▒░
▒██░    ▓██  ▒██░░░  █   ░
▒██░    ▓▓█  ░██░ ░ █ █ ▒
░██████▒▒▒█████▓ ▒██▒ ▒██▒
░ ▒░▓  ░░▒▓▒ ▒ ▒  ▒▒ ░ ░▓ ░
`
)

// process exit codes, also mirrored by diagnostics.Stage.ExitCode
const (
	exitSuccess = 0
	exitUsage   = 64
	exitParse   = 65
	exitRuntime = 70
	exitResolve = 75
)

var noColor bool

func main() {
	root := &cobra.Command{
		Use:     "lux [script]",
		Short:   "Lux is a tree-walking interpreter for the Lux language.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			if len(args) == 0 {
				return repl.New(banner, version, author, line, license, prompt, noColor).Start(os.Stdout)
			}
			os.Exit(runFile(args[0]))
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.SetVersionTemplate(fmt.Sprintf("lux %s\n", version))

	root.AddCommand(serverCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server <port>",
		Short: "Run a TCP server handing each connection its own REPL session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startServer(args[0])
			return nil
		},
	}
}

// runFile executes a single file end to end and returns the process
// exit code assigned to whichever stage first failed.
func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lux: could not read file '%s': %v\n", path, err)
		return exitUsage
	}
	return run(string(source))
}

// run drives one program through scan → parse → resolve → interpret.
// Diagnostics go to stderr; `print` output goes to stdout via the
// interpreter itself.
func run(source string) int {
	scanner := lexer.NewScanner(source)
	tokens, lexDiags := scanner.ScanTokens()
	if len(lexDiags) > 0 {
		for _, d := range lexDiags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return exitParse
	}

	p := parser.NewParser(tokens)
	statements, parseDiags := p.Parse()
	if len(parseDiags) > 0 {
		for _, d := range parseDiags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return exitParse
	}

	res := resolver.New()
	locals, resolveDiags := res.Resolve(statements)
	if len(resolveDiags) > 0 {
		for _, d := range resolveDiags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return exitResolve
	}

	in := interpreter.New()
	in.ResolveLocals(locals)
	if err := in.Interpret(statements); err != nil {
		if rtErr, ok := err.(*interpreter.RuntimeError); ok {
			fmt.Fprintln(os.Stderr, diagnostics.RuntimeDiagnostic(rtErr.Token.Lexeme, rtErr.Token.Line, rtErr.Message))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitRuntime
	}
	return exitSuccess
}

// startServer listens on port and spawns one REPL (with its own
// Interpreter, hence its own globals) per accepted connection, the
// adapted form of go-mix's startServer/handleClient pair.
func startServer(port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lux: failed to listen on port %s: %v\n", port, err)
		os.Exit(exitUsage)
	}
	defer listener.Close()
	fmt.Printf("lux REPL server listening on :%s\n", port)

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "lux: accept error: %v\n", err)
			continue
		}
		go handleClient(conn)
	}
}

func handleClient(conn net.Conn) {
	defer conn.Close()
	fmt.Printf("client connected: %s\n", conn.RemoteAddr())
	_ = repl.New(banner, version, author, line, license, prompt, true).StartOn(conn)
	fmt.Printf("client disconnected: %s\n", conn.RemoteAddr())
}

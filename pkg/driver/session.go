package driver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/watzkuh/klox/pkg/ast"
	"github.com/watzkuh/klox/pkg/diag"
	"github.com/watzkuh/klox/pkg/interpreter"
	"github.com/watzkuh/klox/pkg/parser"
	"github.com/watzkuh/klox/pkg/scanner"
)

// Process exit codes, following sysexits.h.
const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitSyntax  = 65
	ExitNoInput = 66
	ExitRuntime = 70
)

// Session owns one interpreter and its diagnostics sink. Globals persist
// across Run calls.
type Session struct {
	config  *Config
	stdout  io.Writer
	sink    *diag.Sink
	interp  *interpreter.Interpreter
	history []string
}

// NewSession wires a session writing program output to stdout and
// diagnostics to stderr. A nil config means DefaultConfig().
func NewSession(cfg *Config, stdout, stderr io.Writer) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if stdout == nil {
		stdout = io.Discard
	}
	sink := diag.NewSink(stderr)
	return &Session{
		config: cfg,
		stdout: stdout,
		sink:   sink,
		interp: interpreter.New(stdout, sink),
	}
}

// Sink exposes the session's diagnostics.
func (s *Session) Sink() *diag.Sink {
	return s.sink
}

// Run scans, parses and interprets source. Nothing is executed when a scan
// or syntax error was reported.
func (s *Session) Run(source string) {
	statements, ok := s.parse(source)
	if !ok {
		return
	}
	if s.config.PrintAST {
		for _, stmt := range statements {
			fmt.Fprintln(s.stdout, ast.Print(stmt))
		}
	}
	_ = s.interp.Interpret(statements)
}

// Format parses source and writes it back in canonical layout without
// running it. It reports false when the source has errors.
func (s *Session) Format(source string) bool {
	statements, ok := s.parse(source)
	if !ok {
		return false
	}
	fmt.Fprint(s.stdout, ast.FormatProgram(statements))
	return true
}

func (s *Session) parse(source string) ([]ast.Statement, bool) {
	tokens := scanner.Scan(source, s.sink)
	statements := parser.Parse(tokens, s.sink)
	if s.sink.HadError() {
		return nil, false
	}
	return statements, true
}

// ExitCode maps the recorded diagnostics to a process exit code.
func (s *Session) ExitCode() int {
	switch {
	case s.sink.HadError():
		return ExitSyntax
	case s.sink.HadRuntimeError():
		return ExitRuntime
	default:
		return ExitOK
	}
}

// RunFile runs the script at path and returns the exit code.
func (s *Session) RunFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ExitNoInput, fmt.Errorf("read %s: %w", path, err)
	}
	s.Run(string(data))
	return s.ExitCode(), nil
}

// RunPrompt reads lines from in until EOF or :quit, running each one. Errors
// on a line are reported and the loop continues.
func (s *Session) RunPrompt(in io.Reader, out io.Writer) error {
	reader := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, s.config.Prompt)
		if !reader.Scan() {
			fmt.Fprintln(out)
			return reader.Err()
		}
		line := reader.Text()
		if quit := s.runLine(line, out); quit {
			return nil
		}
		s.sink.ResetError()
	}
}

func (s *Session) runLine(line string, out io.Writer) bool {
	switch strings.TrimSpace(line) {
	case ":quit":
		return true
	case ":env":
		s.printEnv(out)
		return false
	case ":history":
		if !s.config.History {
			fmt.Fprintln(out, "history is disabled (set history: true in "+ConfigFileName+")")
			return false
		}
		for i, entry := range s.history {
			fmt.Fprintf(out, "%4d  %s\n", i+1, entry)
		}
		return false
	}
	if s.config.History && strings.TrimSpace(line) != "" {
		s.history = append(s.history, line)
	}
	s.Run(line)
	return false
}

func (s *Session) printEnv(out io.Writer) {
	global := s.interp.GlobalEnvironment()
	values := global.Snapshot()
	for _, name := range global.Keys() {
		fmt.Fprintf(out, "%s = %s\n", name, values[name])
	}
}

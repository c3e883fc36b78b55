package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/watzkuh/klox/pkg/token"
)

// Kind classifies where a diagnostic came from.
type Kind string

const (
	KindScan    Kind = "scan"
	KindSyntax  Kind = "syntax"
	KindRuntime Kind = "runtime"
)

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Where   string
	Message string
}

// String renders the diagnostic the way it is shown to users.
func (d Diagnostic) String() string {
	if d.Kind == KindRuntime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Sink collects diagnostics for one program run and echoes them to a writer.
// It tracks whether a static (scan/syntax) error or a runtime error occurred.
type Sink struct {
	out         io.Writer
	highlight   *color.Color
	diagnostics []Diagnostic

	hadError        bool
	hadRuntimeError bool
}

// NewSink creates a sink writing to out. A nil writer discards output.
// Color is off until SetColor(true) is called.
func NewSink(out io.Writer) *Sink {
	if out == nil {
		out = io.Discard
	}
	highlight := color.New(color.FgRed, color.Bold)
	highlight.DisableColor()
	return &Sink{out: out, highlight: highlight}
}

// SetColor toggles ANSI highlighting of error headers.
func (s *Sink) SetColor(enabled bool) {
	if enabled {
		s.highlight.EnableColor()
		return
	}
	s.highlight.DisableColor()
}

// Report records a static error at line with the given location context.
func (s *Sink) Report(line int, where, message string) {
	s.record(Diagnostic{Kind: KindSyntax, Line: line, Where: where, Message: message})
}

// ScanError records a lexical error; scan errors carry no location context.
func (s *Sink) ScanError(line int, message string) {
	s.record(Diagnostic{Kind: KindScan, Line: line, Message: message})
}

// TokenError records a syntax error against tok.
func (s *Sink) TokenError(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = " at end"
	}
	s.Report(tok.Line, where, message)
}

// RuntimeError records an error raised while interpreting.
func (s *Sink) RuntimeError(line int, message string) {
	s.record(Diagnostic{Kind: KindRuntime, Line: line, Message: message})
}

func (s *Sink) record(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
	if d.Kind == KindRuntime {
		s.hadRuntimeError = true
		s.highlight.Fprint(s.out, d.Message)
		fmt.Fprintf(s.out, "\n[line %d]\n", d.Line)
		return
	}
	s.hadError = true
	s.highlight.Fprintf(s.out, "[line %d] Error%s:", d.Line, d.Where)
	fmt.Fprintf(s.out, " %s\n", d.Message)
}

// HadError reports whether a scan or syntax error was recorded since the last reset.
func (s *Sink) HadError() bool { return s.hadError }

// HadRuntimeError reports whether any runtime error was recorded.
func (s *Sink) HadRuntimeError() bool { return s.hadRuntimeError }

// ResetError clears the static error flag. The runtime flag is left alone.
func (s *Sink) ResetError() { s.hadError = false }

// Diagnostics returns a copy of everything recorded so far, in order.
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

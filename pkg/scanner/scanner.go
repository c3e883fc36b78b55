package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/watzkuh/klox/pkg/token"
)

// ErrorReporter receives lexical errors. Scanning continues after each report.
type ErrorReporter interface {
	ScanError(line int, message string)
}

// Scanner turns source text into tokens in a single left-to-right pass.
type Scanner struct {
	source   string
	reporter ErrorReporter
	tokens   []token.Token

	start   int
	current int
	line    int
}

// New creates a scanner over source. reporter may be nil.
func New(source string, reporter ErrorReporter) *Scanner {
	return &Scanner{source: source, reporter: reporter, line: 1}
}

// Scan is shorthand for New(source, reporter).ScanTokens().
func Scan(source string, reporter ErrorReporter) []token.Token {
	return New(source, reporter).ScanTokens()
}

// ScanTokens scans the whole source. The result always ends with exactly one EOF token.
func (s *Scanner) ScanTokens() []token.Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.either('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.either('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.either('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.either('=', token.GreaterEqual, token.Greater))
	case '/':
		switch s.peek() {
		case '/':
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		case '*':
			s.advance()
			s.blockComment()
		default:
			s.addToken(token.Slash)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.stringLiteral()
	default:
		switch {
		case isDigit(c):
			s.numberLiteral()
		case isAlpha(c):
			s.identifier()
		default:
			// Skip the whole rune so a multi-byte character is reported once.
			if c >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(s.source[s.start:])
				s.current = s.start + size
			}
			s.error("Unexpected character.")
		}
	}
}

// blockComment skips to the first "*/". Comments do not nest, and an
// unterminated comment runs to the end of the input.
func (s *Scanner) blockComment() {
	for !s.isAtEnd() {
		c := s.advance()
		if c == '\n' {
			s.line++
			continue
		}
		if c == '*' && s.peek() == '/' {
			s.advance()
			return
		}
	}
}

func (s *Scanner) stringLiteral() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.error("Unterminated string.")
		return
	}
	// closing quote
	s.advance()
	value := s.source[s.start+1 : s.current-1]
	s.addLiteral(token.String, value)
}

func (s *Scanner) numberLiteral() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	// Digit runs always parse; overly long ones saturate to +Inf.
	value, _ := strconv.ParseFloat(s.source[s.start:s.current], 64)
	s.addLiteral(token.Number, value)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.addToken(token.LookupIdent(s.source[s.start:s.current]))
}

func (s *Scanner) either(expected byte, matched, otherwise token.Type) token.Type {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) addToken(typ token.Type) {
	s.addLiteral(typ, nil)
}

func (s *Scanner) addLiteral(typ token.Type, literal any) {
	text := s.source[s.start:s.current]
	s.tokens = append(s.tokens, token.New(typ, text, literal, s.line))
}

func (s *Scanner) error(message string) {
	if s.reporter != nil {
		s.reporter.ScanError(s.line, message)
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

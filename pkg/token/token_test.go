package token

import "testing"

func TestLookupIdentKeywords(t *testing.T) {
	for text, want := range keywords {
		if got := LookupIdent(text); got != want {
			t.Fatalf("LookupIdent(%q) = %s, want %s", text, got, want)
		}
	}
}

func TestLookupIdentRequiresExactMatch(t *testing.T) {
	for _, text := range []string{"orchid", "Var", "iff", "_if", "printer", "nil_"} {
		if got := LookupIdent(text); got != Identifier {
			t.Fatalf("LookupIdent(%q) = %s, want IDENTIFIER", text, got)
		}
	}
}

func TestTypeString(t *testing.T) {
	if got := BangEqual.String(); got != "BANG_EQUAL" {
		t.Fatalf("BangEqual.String() = %q", got)
	}
	if got := EOF.String(); got != "EOF" {
		t.Fatalf("EOF.String() = %q", got)
	}
	if got := Type(999).String(); got != "unknown_token_999" {
		t.Fatalf("unexpected name for out-of-range type: %q", got)
	}
}

func TestTokenString(t *testing.T) {
	num := New(Number, "42", 42.0, 1)
	if got := num.String(); got != "NUMBER 42 42" {
		t.Fatalf("unexpected token string %q", got)
	}
	semi := New(Semicolon, ";", nil, 3)
	if got := semi.String(); got != "SEMICOLON ;" {
		t.Fatalf("unexpected token string %q", got)
	}
}

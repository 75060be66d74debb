package lexer

import "testing"

func TestLexKeywordsAndIdents(t *testing.T) {
	toks, err := Lex("fn main let mutable x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{FN, IDENT, LET, MUTABLE, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestLexOperators(t *testing.T) {
	toks, err := Lex("+ - * / % == != <= >= ++ -- += ->")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{PLUS, MINUS, STAR, SLASH, PERCENT, EQ, NE, LE, GE, PLUS_PLUS, MINUS_MINUS, PLUS_ASSIGN, ARROW, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestLexColonAssign(t *testing.T) {
	toks, err := Lex("i := 0 : T")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{IDENT, COLON_ASSIGN, INT, COLON, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestLexUnsignedIntegerSuffix(t *testing.T) {
	toks, err := Lex("10u 42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Lexeme != "10u" || toks[1].Lexeme != "42" {
		t.Fatalf("unexpected lexemes: %q %q", toks[0].Lexeme, toks[1].Lexeme)
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := Lex(`"a\nb"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != STRING || toks[0].Lexeme != "a\nb" {
		t.Fatalf("got %q", toks[0].Lexeme)
	}
}

func TestLexSkipsComments(t *testing.T) {
	toks, err := Lex("x // trailing comment\n/* block */ y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{IDENT, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
}

func TestLexUnterminatedStringIsAnError(t *testing.T) {
	if _, err := Lex(`"unterminated`); err == nil {
		t.Fatalf("expected an error for an unterminated string literal")
	}
}

func TestTokenRangeCoversByteOffsets(t *testing.T) {
	toks, err := Lex("fn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Begin != 0 || toks[0].End != 2 {
		t.Fatalf("got range [%d, %d), want [0, 2)", toks[0].Begin, toks[0].End)
	}
}

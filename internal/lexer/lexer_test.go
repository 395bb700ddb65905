package lexer

import (
	"testing"

	"github.com/mu-lang/mu/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeLetAssign(t *testing.T) {
	toks, err := Tokenize("t.mu", "let mut x = 0\nx = 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []token.Kind{
		token.KwLet, token.KwMut, token.Ident, token.Assign, token.Num,
		token.Ident, token.Assign, token.Num,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTokenizeRefDeref(t *testing.T) {
	toks, err := Tokenize("t.mu", "let mut y = mut ref x\n*y = 4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.KwLet, token.KwMut, token.Ident, token.Assign, token.KwMut, token.KwRef, token.Ident,
		token.Star, token.Ident, token.Assign, token.Num,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTokenizeFnDecl(t *testing.T) {
	toks, err := Tokenize("t.mu", "fn f(mut ref y: int) {\n  x = ref y\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.KwFn || toks[1].Kind != token.Ident || toks[2].Kind != token.LParen {
		t.Fatalf("unexpected prefix: %v", toks[:3])
	}
}

func TestPositionTracking(t *testing.T) {
	toks, err := Tokenize("t.mu", "let\nx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Pos.Line != 1 {
		t.Errorf("let line = %d, want 1", toks[0].Pos.Line)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("x line = %d, want 2", toks[1].Pos.Line)
	}
}

func TestIllegalCharacter(t *testing.T) {
	_, err := Tokenize("t.mu", "let x = @")
	if err == nil {
		t.Fatal("expected an error for illegal character")
	}
}

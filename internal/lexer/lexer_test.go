package lexer

import "testing"

func TestNextTokenKeywordsAndIdents(t *testing.T) {
	tok, err := NextToken("letfun x", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != LetFun || tok.Literal != "letfun" {
		t.Fatalf("got %+v", tok)
	}
	tok, err = NextToken("letfun x", tok.Offset+len(tok.Literal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != Ident || tok.Literal != "x" {
		t.Fatalf("got %+v", tok)
	}
}

func TestNextTokenLeadingMinusDigit(t *testing.T) {
	tok, err := NextToken("-3", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != Int || tok.Literal != "-3" {
		t.Fatalf("got %+v, want Int(-3)", tok)
	}
}

func TestNextTokenMinusThenDigitNoSpace(t *testing.T) {
	// "a-3" lexes as [Ident a] [Int -3]: the lexer has no expression
	// context, so a trailing "-3" after an identifier still binds as one
	// signed literal.
	tok, err := NextToken("a-3", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != Ident || tok.Literal != "a" {
		t.Fatalf("got %+v", tok)
	}
	next, err := NextToken("a-3", tok.Offset+len(tok.Literal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Type != Int || next.Literal != "-3" {
		t.Fatalf("got %+v, want Int(-3)", next)
	}
}

func TestNextTokenMultiCharBeforeSingleChar(t *testing.T) {
	cases := []struct {
		input string
		kind  TokenType
	}{
		{"->", Arrow},
		{"=>", FatArrow},
		{"==", DoubleEq},
		{"!=", Neq},
		{"<=", Leq},
		{">=", Geq},
		{`\/`, Or},
		{`/\`, And},
	}
	for _, c := range cases {
		tok, err := NextToken(c.input, 0)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.input, err)
		}
		if tok.Type != c.kind || tok.Literal != c.input {
			t.Errorf("%s: got %+v", c.input, tok)
		}
	}
}

func TestNextTokenBareAngleIsUnknown(t *testing.T) {
	if _, err := NextToken("<", 0); err == nil {
		t.Fatalf("expected unknown-token error for bare '<'")
	}
	if _, err := NextToken(">", 0); err == nil {
		t.Fatalf("expected unknown-token error for bare '>'")
	}
}

func TestNextTokenEof(t *testing.T) {
	tok, err := NextToken("   ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != Eof {
		t.Fatalf("got %+v, want Eof", tok)
	}
}

func TestNextTokenRestartable(t *testing.T) {
	input := "if x then 1 else 2"
	var toks []TokenType
	pos := 0
	for {
		tok, err := NextToken(input, pos)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type == Eof {
			break
		}
		toks = append(toks, tok.Type)
		pos = tok.Offset + len(tok.Literal)
	}
	want := []TokenType{If, Ident, Then, Int, Else, Int}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, toks[i], want[i])
		}
	}
}

func TestLocate(t *testing.T) {
	input := "abc\ndef"
	pos := Locate(input, 5)
	if pos.Line != 2 || pos.Column != 2 {
		t.Fatalf("got %+v, want line 2 column 2", pos)
	}
}

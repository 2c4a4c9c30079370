package token

import (
	"errors"
	"testing"

	werrors "github.com/wippyai/wasmc/errors"
)

type tk struct {
	kind Kind
	text string
}

func kinds(t *testing.T, src string) []tk {
	t.Helper()
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	var out []tk
	for _, tok := range tokens {
		if tok.Kind == EOF {
			break
		}
		out = append(out, tk{tok.Kind, tok.Text})
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tk
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\n\r ", nil},
		{
			"arithmetic",
			"(18-2)/2*4+a",
			[]tk{
				{Symbol, "("}, {Number, "18"}, {Symbol, "-"}, {Number, "2"}, {Symbol, ")"},
				{Symbol, "/"}, {Number, "2"}, {Symbol, "*"}, {Number, "4"}, {Symbol, "+"},
				{Identifier, "a"},
			},
		},
		{
			"two char operators",
			"a==b!=c<=d>=e<f>g=h",
			[]tk{
				{Identifier, "a"}, {Symbol, "=="}, {Identifier, "b"}, {Symbol, "!="},
				{Identifier, "c"}, {Symbol, "<="}, {Identifier, "d"}, {Symbol, ">="},
				{Identifier, "e"}, {Symbol, "<"}, {Identifier, "f"}, {Symbol, ">"},
				{Identifier, "g"}, {Symbol, "="}, {Identifier, "h"},
			},
		},
		{
			"keywords",
			"return if else while for",
			[]tk{{Return, "return"}, {If, "if"}, {Else, "else"}, {While, "while"}, {For, "for"}},
		},
		{
			"keyword prefix is identifier",
			"return1 iffy elsewhere for_ whilex",
			[]tk{
				{Identifier, "return1"}, {Identifier, "iffy"}, {Identifier, "elsewhere"},
				{Identifier, "for_"}, {Identifier, "whilex"},
			},
		},
		{
			"keyword followed by symbol",
			"return(x);",
			[]tk{{Return, "return"}, {Symbol, "("}, {Identifier, "x"}, {Symbol, ")"}, {Symbol, ";"}},
		},
		{
			"underscore identifiers",
			"_a b_2",
			[]tk{{Identifier, "_a"}, {Identifier, "b_2"}},
		},
		{
			"digits then letters",
			"12ab",
			[]tk{{Number, "12"}, {Identifier, "ab"}},
		},
		{
			"separators",
			"f(a,b){}",
			[]tk{
				{Identifier, "f"}, {Symbol, "("}, {Identifier, "a"}, {Symbol, ","},
				{Identifier, "b"}, {Symbol, ")"}, {Symbol, "{"}, {Symbol, "}"},
			},
		},
		{
			"line comment",
			"a // ignored = 1;\nb",
			[]tk{{Identifier, "a"}, {Identifier, "b"}},
		},
		{
			"block comment",
			"a /* x\ny */ / b",
			[]tk{{Identifier, "a"}, {Symbol, "/"}, {Identifier, "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(t, tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.expected), tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestNumberValues(t *testing.T) {
	tests := []struct {
		input string
		value int32
	}{
		{"0", 0},
		{"42", 42},
		{"007", 7},
		{"2147483647", 2147483647},
	}
	for _, tt := range tests {
		tok, err := NewLexer(tt.input).Next()
		if err != nil {
			t.Fatalf("Next(%q): %v", tt.input, err)
		}
		if tok.Kind != Number || tok.Value != tt.value {
			t.Errorf("Next(%q) = %v (%d), want number %d", tt.input, tok.Kind, tok.Value, tt.value)
		}
	}
}

func TestOverflow(t *testing.T) {
	_, err := Tokenize("main() { return 2147483648; }")
	if !errors.Is(err, &werrors.Error{Phase: werrors.PhaseLex, Kind: werrors.KindOverflow}) {
		t.Fatalf("expected overflow error, got %v", err)
	}
	var e *werrors.Error
	if !errors.As(err, &e) || e.Line != 1 || e.Column != 17 {
		t.Errorf("unexpected position: %v", err)
	}
}

func TestUnexpectedChar(t *testing.T) {
	tests := []struct {
		input string
		char  rune
		line  int
		col   int
	}{
		{"a @ b", '@', 1, 3},
		{"x\n  #", '#', 2, 3},
		{"!x", '!', 1, 1},
		{"é", 'é', 1, 1},
	}
	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		var e *werrors.Error
		if !errors.As(err, &e) {
			t.Fatalf("Tokenize(%q): expected *errors.Error, got %v", tt.input, err)
		}
		if !errors.Is(err, werrors.Lexical) || e.Kind != werrors.KindUnexpectedChar {
			t.Errorf("Tokenize(%q): got %v", tt.input, err)
		}
		if e.Value != tt.char || e.Line != tt.line || e.Column != tt.col {
			t.Errorf("Tokenize(%q): got %q at %d:%d, want %q at %d:%d",
				tt.input, e.Value, e.Line, e.Column, tt.char, tt.line, tt.col)
		}
	}
}

func TestUnterminatedComment(t *testing.T) {
	_, err := Tokenize("a /* never closed")
	if !errors.Is(err, werrors.Lexical) {
		t.Fatalf("expected lexical error, got %v", err)
	}
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("main() {\n  return 1;\n}")
	if err != nil {
		t.Fatal(err)
	}
	want := []Pos{
		{0, 1, 1}, {4, 1, 5}, {5, 1, 6}, {7, 1, 8},
		{11, 2, 3}, {18, 2, 10}, {19, 2, 11},
		{21, 3, 1}, {22, 3, 2},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%v): pos %+v, want %+v", i, tok, tok.Pos, want[i])
		}
	}
	if tokens[len(tokens)-1].Kind != EOF {
		t.Error("last token is not EOF")
	}
}

func TestNextIsLazy(t *testing.T) {
	// The error sits after the first token; Next must still yield it first.
	l := NewLexer("a $")
	tok, err := l.Next()
	if err != nil || tok.Text != "a" {
		t.Fatalf("first Next = %v, %v", tok, err)
	}
	if _, err := l.Next(); err == nil {
		t.Fatal("expected error on second Next")
	}
}

func TestEOFRepeats(t *testing.T) {
	l := NewLexer("x")
	_, _ = l.Next()
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil || tok.Kind != EOF {
			t.Fatalf("Next after end = %v, %v", tok, err)
		}
	}
}

func TestAll(t *testing.T) {
	var texts []string
	for tok, err := range NewLexer("a + 1").All() {
		if err != nil {
			t.Fatal(err)
		}
		texts = append(texts, tok.Text)
	}
	if len(texts) != 3 || texts[0] != "a" || texts[1] != "+" || texts[2] != "1" {
		t.Errorf("got %v", texts)
	}
}

func TestAllStopsAtError(t *testing.T) {
	var n int
	var gotErr error
	for _, err := range NewLexer("a b ? c").All() {
		if err != nil {
			gotErr = err
			continue
		}
		n++
	}
	if n != 2 || gotErr == nil {
		t.Errorf("got %d tokens and err %v", n, gotErr)
	}
}

func TestAllEarlyBreak(t *testing.T) {
	l := NewLexer("a b c")
	for range l.All() {
		break
	}
	tok, err := l.Next()
	if err != nil || tok.Text != "b" {
		t.Errorf("after break, Next = %v, %v", tok, err)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: Symbol, Text: ";"}, "';'"},
		{Token{Kind: Identifier, Text: "x"}, `identifier "x"`},
		{Token{Kind: Number, Text: "3"}, "number 3"},
		{Token{Kind: Return, Text: "return"}, "'return'"},
		{Token{Kind: EOF}, "end of input"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/wasmc/ast"
	werrors "github.com/wippyai/wasmc/errors"
	"github.com/wippyai/wasmc/parser"
)

// sexpr renders a node as a compact S-expression for structural comparison.
func sexpr(n ast.Node) string {
	switch n := n.(type) {
	case nil:
		return "_"
	case *ast.Number:
		return fmt.Sprint(n.Value)
	case *ast.Variable:
		return n.Name
	case *ast.Assign:
		return fmt.Sprintf("(= %s %s)", n.Target.Name, sexpr(n.Value))
	case *ast.BinaryOp:
		return fmt.Sprintf("(%s %s %s)", n.Op, sexpr(n.Left), sexpr(n.Right))
	case *ast.Block:
		parts := []string{"block"}
		for _, s := range n.Stmts {
			parts = append(parts, sexpr(s))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.If:
		if n.Else == nil {
			return fmt.Sprintf("(if %s %s)", sexpr(n.Cond), sexpr(n.Then))
		}
		return fmt.Sprintf("(if %s %s %s)", sexpr(n.Cond), sexpr(n.Then), sexpr(n.Else))
	case *ast.While:
		return fmt.Sprintf("(while %s %s)", sexpr(n.Cond), sexpr(n.Body))
	case *ast.For:
		return fmt.Sprintf("(for %s %s %s %s)", sexpr(n.Init), sexpr(n.Cond), sexpr(n.Inc), sexpr(n.Body))
	case *ast.Return:
		return fmt.Sprintf("(return %s)", sexpr(n.Value))
	case *ast.Call:
		parts := []string{"call", n.Name}
		for _, a := range n.Args {
			parts = append(parts, sexpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return fmt.Sprintf("<%T>", n)
}

func parseBody(t *testing.T, body string) string {
	t.Helper()
	m, err := parser.Parse("main() {" + body + "}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fn, ok := m.Function("main")
	if !ok {
		t.Fatal("main not found")
	}
	return sexpr(fn.Body)
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"number", "42;", "(block 42)"},
		{"precedence", "1+2*3;", "(block (+ 1 (* 2 3)))"},
		{"left assoc sub", "1-2-3;", "(block (- (- 1 2) 3))"},
		{"left assoc div", "8/4/2;", "(block (/ (/ 8 4) 2))"},
		{"parens", "(1+2)*3;", "(block (* (+ 1 2) 3))"},
		{"relational below additive", "a+1<b*2;", "(block (< (+ a 1) (* b 2)))"},
		{"equality below relational", "a<b==c>=d;", "(block (== (< a b) (>= c d)))"},
		{"not equal chain", "a!=b!=c;", "(block (!= (!= a b) c))"},
		{"le gt", "a<=b; a>b;", "(block (<= a b) (> a b))"},
		{"assign", "a=1;", "(block (= a 1))"},
		{"assign right assoc", "a=b=1;", "(block (= a (= b 1)))"},
		{"assign lowest", "a=b==1;", "(block (= a (== b 1)))"},
		{"unary minus", "-x;", "(block (- 0 x))"},
		{"unary plus", "+x;", "(block x)"},
		{"unary binds tight", "-2*3;", "(block (* (- 0 2) 3))"},
		{"call no args", "f();", "(block (call f))"},
		{"call args", "f(1, a+2, g(b));", "(block (call f 1 (+ a 2) (call g b)))"},
		{"call in expr", "x = f(1) * 2;", "(block (= x (* (call f 1) 2)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseBody(t, tt.body); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "(block)"},
		{"return", "return 1;", "(block (return 1))"},
		{"if", "if (n==0) return 1;", "(block (if (== n 0) (return 1)))"},
		{"if else", "if (n==0) return 1; else return 2;", "(block (if (== n 0) (return 1) (return 2)))"},
		{"dangling else", "if (a) if (b) x=1; else x=2;", "(block (if a (if b (= x 1) (= x 2))))"},
		{"while", "while (i<3) i=i+1;", "(block (while (< i 3) (= i (+ i 1))))"},
		{"while block", "while (i) { s=s+i; i=i-1; }", "(block (while i (block (= s (+ s i)) (= i (- i 1)))))"},
		{"for full", "for (i=0; i<10; i=i+1) s=s+i;", "(block (for (= i 0) (< i 10) (= i (+ i 1)) (= s (+ s i))))"},
		{"for empty", "for (;;) return 1;", "(block (for _ _ _ (return 1)))"},
		{"for no cond", "for (i=0;;i=i+1) {}", "(block (for (= i 0) _ (= i (+ i 1)) (block)))"},
		{"for only cond", "for (;i;) i=i-1;", "(block (for _ i _ (= i (- i 1))))"},
		{"nested blocks", "{ { 1; } 2; }", "(block (block (block 1) 2))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseBody(t, tt.body); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseFunctions(t *testing.T) {
	src := `
add(a, b) { return a + b; }
id(x) { return x; }
main() { return add(id(1), 2); }
`
	m, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	fns := m.Functions()
	if len(fns) != 3 {
		t.Fatalf("got %d functions, want 3", len(fns))
	}
	names := []string{fns[0].Name, fns[1].Name, fns[2].Name}
	if strings.Join(names, ",") != "add,id,main" {
		t.Errorf("function order = %v", names)
	}
	if len(fns[0].Params) != 2 || fns[0].Params[0].Name != "a" || fns[0].Params[1].Name != "b" {
		t.Errorf("add params = %+v", fns[0].Params)
	}
	if idx, arity, ok := m.Lookup("id"); !ok || idx != 1 || arity != 1 {
		t.Errorf("Lookup(id) = %d, %d, %v", idx, arity, ok)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		phase  werrors.Phase
		kind   werrors.Kind
		line   int
		column int
	}{
		{"invalid target", "main() { 1 = 2; }", werrors.PhaseParse, werrors.KindInvalidTarget, 1, 12},
		{"invalid target expr", "main() { a + b = 2; }", werrors.PhaseParse, werrors.KindInvalidTarget, 1, 16},
		{"missing semicolon", "main() { return 1 }", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 19},
		{"missing paren", "main() { if 1) return 1; }", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 13},
		{"unclosed block", "main() { return 1;", werrors.PhaseParse, werrors.KindUnexpectedEOF, 1, 19},
		{"missing body", "main()", werrors.PhaseParse, werrors.KindUnexpectedEOF, 1, 7},
		{"trailing comma param", "f(a,) {}", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 5},
		{"number param", "f(1) {}", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 3},
		{"top level statement", "return 1;", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 1},
		{"empty expression", "main() { ; }", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 10},
		{"double unary", "main() { --1; }", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 11},
		{"else without if", "main() { else 1; }", werrors.PhaseParse, werrors.KindUnexpectedToken, 1, 10},
		{"lexical", "main() { return 1 @ 2; }", werrors.PhaseLex, werrors.KindUnexpectedChar, 1, 19},
		{"overflow", "main() { return 99999999999; }", werrors.PhaseLex, werrors.KindOverflow, 1, 17},
		{"duplicate function", "f() {}\nf() {}", werrors.PhaseSemantic, werrors.KindDuplicateFunction, 2, 1},
		{"duplicate param", "f(a, a) {}", werrors.PhaseSemantic, werrors.KindDuplicateParam, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			var e *werrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T: %v", err, err)
			}
			if e.Phase != tt.phase || e.Kind != tt.kind {
				t.Errorf("got %s/%s, want %s/%s (%v)", e.Phase, e.Kind, tt.phase, tt.kind, err)
			}
			if e.Line != tt.line || e.Column != tt.column {
				t.Errorf("position %d:%d, want %d:%d (%v)", e.Line, e.Column, tt.line, tt.column, err)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := parser.Parse("main() { return 1 }")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, s := range []string{"expected ';'", "'}'", "1:19"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message %q does not contain %q", msg, s)
		}
	}
}

func TestParseCallsResolveLater(t *testing.T) {
	// Semantic checks like undefined or later-declared callees belong to codegen.
	m, err := parser.Parse("main() { return later(1) + missing(); } later(x) { return x; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Functions()) != 2 {
		t.Errorf("got %d functions", len(m.Functions()))
	}
}

func TestParseIDs(t *testing.T) {
	src := "main() { if (1) 1; while (0) 1; for (;0;) 1; if (1) { while (0) 1; } }"

	collect := func(m *ast.Module) []uint32 {
		var ids []uint32
		for _, fn := range m.Functions() {
			ast.Walk(fn.Body, func(n ast.Node) bool {
				switch n := n.(type) {
				case *ast.If:
					ids = append(ids, n.ID)
				case *ast.While:
					ids = append(ids, n.ID)
				case *ast.For:
					ids = append(ids, n.ID)
				}
				return true
			})
		}
		return ids
	}

	m, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	ids := collect(m)
	seen := make(map[uint32]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d in %v", id, ids)
		}
		seen[id] = true
	}
	if len(ids) != 5 {
		t.Errorf("got %d ids, want 5", len(ids))
	}

	// Fresh parsers restart numbering; a shared allocator keeps going.
	again, _ := parser.Parse(src)
	if fmt.Sprint(collect(again)) != fmt.Sprint(ids) {
		t.Error("fresh parse produced different ids")
	}

	shared := ast.NewIDAllocator()
	first, _ := parser.Parse(src, parser.WithIDAllocator(shared))
	second, _ := parser.Parse(src, parser.WithIDAllocator(shared))
	a, b := collect(first), collect(second)
	for _, x := range a {
		for _, y := range b {
			if x == y {
				t.Fatalf("shared allocator reused id %d", x)
			}
		}
	}
}

func TestParseComments(t *testing.T) {
	got := parseBody(t, "// leading\n a = 1; /* inline */ return a; // trailing")
	if got != "(block (= a 1) (return a))" {
		t.Errorf("got %s", got)
	}
}

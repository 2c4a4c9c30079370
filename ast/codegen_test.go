package ast_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/wippyai/wasmc/ast"
	werrors "github.com/wippyai/wasmc/errors"
)

// stubFuncs resolves a fixed set of functions.
type stubFuncs map[string][2]int

func (s stubFuncs) Lookup(name string) (uint32, int, bool) {
	f, ok := s[name]
	return uint32(f[0]), f[1], ok
}

func num(v int32) *ast.Number      { return &ast.Number{Value: v} }
func ref(name string) *ast.Variable { return &ast.Variable{Name: name} }

func assign(name string, v ast.Node) *ast.Assign {
	return &ast.Assign{Target: ref(name), Value: v}
}

func emit(t *testing.T, n ast.Node, slots ...string) []byte {
	t.Helper()
	params := make([]ast.Param, len(slots))
	for i, s := range slots {
		params[i] = ast.Param{Name: s}
	}
	e := ast.NewEmitter("f", ast.NewLocals(params, nil), stubFuncs{"g": {3, 2}})
	if err := n.WriteBinary(e); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	return e.Bytes()
}

func text(n ast.Node) string {
	w := ast.NewTextWriter()
	n.WriteText(w)
	return w.String()
}

func TestWriteBinary(t *testing.T) {
	ids := ast.NewIDAllocator()

	tests := []struct {
		name  string
		node  ast.Node
		slots []string
		want  []byte
	}{
		{"number", num(5), nil, []byte{0x41, 0x05}},
		{"negative number", num(-1), nil, []byte{0x41, 0x7f}},
		{"wide number", num(64), nil, []byte{0x41, 0xc0, 0x00}},
		{"variable", ref("b"), []string{"a", "b"}, []byte{0x20, 0x01}},
		{"assign", assign("a", num(3)), []string{"a"}, []byte{0x41, 0x03, 0x22, 0x00}},
		{
			"binary op",
			&ast.BinaryOp{Op: ast.Add, Left: num(1), Right: num(2)},
			nil,
			[]byte{0x41, 0x01, 0x41, 0x02, 0x6a},
		},
		{"empty block", &ast.Block{}, nil, []byte{0x41, 0x00}},
		{
			"block",
			&ast.Block{Stmts: []ast.Node{num(1), num(2)}},
			nil,
			[]byte{0x41, 0x01, 0x1a, 0x41, 0x02, 0x1a, 0x41, 0x00},
		},
		{
			"if without else",
			ast.NewIf(ids, ref("n"), num(1), nil),
			[]string{"n"},
			[]byte{0x20, 0x00, 0x04, 0x40, 0x41, 0x01, 0x1a, 0x0b, 0x41, 0x00},
		},
		{
			"if with else",
			ast.NewIf(ids, ref("n"), num(1), num(2)),
			[]string{"n"},
			[]byte{0x20, 0x00, 0x04, 0x40, 0x41, 0x01, 0x1a, 0x05, 0x41, 0x02, 0x1a, 0x0b, 0x41, 0x00},
		},
		{
			"while",
			ast.NewWhile(ids, ref("n"), num(7)),
			[]string{"n"},
			[]byte{
				0x02, 0x40, 0x03, 0x40,
				0x20, 0x00, 0x41, 0x00, 0x46, 0x0d, 0x01,
				0x41, 0x07, 0x1a,
				0x0c, 0x00, 0x0b, 0x0b, 0x41, 0x00,
			},
		},
		{
			"for",
			ast.NewFor(ids, assign("i", num(0)), ref("i"), assign("i", num(9)), num(7)),
			[]string{"i"},
			[]byte{
				0x41, 0x00, 0x22, 0x00, 0x1a,
				0x02, 0x40, 0x03, 0x40,
				0x20, 0x00, 0x41, 0x00, 0x46, 0x0d, 0x01,
				0x41, 0x07, 0x1a,
				0x41, 0x09, 0x22, 0x00, 0x1a,
				0x0c, 0x00, 0x0b, 0x0b, 0x41, 0x00,
			},
		},
		{
			"for without clauses",
			ast.NewFor(ids, nil, nil, nil, num(7)),
			nil,
			[]byte{0x02, 0x40, 0x03, 0x40, 0x41, 0x07, 0x1a, 0x0c, 0x00, 0x0b, 0x0b, 0x41, 0x00},
		},
		{"return", &ast.Return{Value: num(4)}, nil, []byte{0x41, 0x04, 0x0f}},
		{
			"call",
			&ast.Call{Name: "g", Args: []ast.Node{num(1), num(2)}},
			nil,
			[]byte{0x41, 0x01, 0x41, 0x02, 0x10, 0x03},
		},
		{"negate", ast.Negate(num(5)), nil, []byte{0x41, 0x00, 0x41, 0x05, 0x6b}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emit(t, tt.node, tt.slots...)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got  % x\nwant % x", got, tt.want)
			}
		})
	}
}

func TestBinaryOpcodes(t *testing.T) {
	tests := []struct {
		op       ast.Op
		symbol   string
		opcode   byte
		mnemonic string
	}{
		{ast.Add, "+", 0x6a, "i32.add"},
		{ast.Sub, "-", 0x6b, "i32.sub"},
		{ast.Mul, "*", 0x6c, "i32.mul"},
		{ast.Div, "/", 0x6d, "i32.div_s"},
		{ast.Eq, "==", 0x46, "i32.eq"},
		{ast.Ne, "!=", 0x47, "i32.ne"},
		{ast.Gt, ">", 0x4a, "i32.gt_s"},
		{ast.Ge, ">=", 0x4e, "i32.ge_s"},
		{ast.Lt, "<", 0x48, "i32.lt_s"},
		{ast.Le, "<=", 0x4c, "i32.le_s"},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			if tt.op.Opcode() != tt.opcode {
				t.Errorf("opcode = 0x%02x, want 0x%02x", tt.op.Opcode(), tt.opcode)
			}
			if tt.op.Mnemonic() != tt.mnemonic {
				t.Errorf("mnemonic = %q, want %q", tt.op.Mnemonic(), tt.mnemonic)
			}
			op, ok := ast.OpForSymbol(tt.symbol)
			if !ok || op != tt.op {
				t.Errorf("OpForSymbol(%q) = %v, %v", tt.symbol, op, ok)
			}
			if tt.op.String() != tt.symbol {
				t.Errorf("String() = %q", tt.op.String())
			}
		})
	}
	if _, ok := ast.OpForSymbol("%"); ok {
		t.Error("unexpected operator for %")
	}
}

func TestWriteBinaryErrors(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		kind werrors.Kind
	}{
		{"undefined variable", ref("missing"), werrors.KindUndefinedVariable},
		{"undefined assign target", assign("missing", num(1)), werrors.KindUndefinedVariable},
		{"undefined function", &ast.Call{Name: "nope"}, werrors.KindUndefinedFunction},
		{"arity", &ast.Call{Name: "g", Args: []ast.Node{num(1)}}, werrors.KindArityMismatch},
		{
			"nested",
			&ast.Block{Stmts: []ast.Node{&ast.Return{Value: &ast.BinaryOp{Op: ast.Mul, Left: num(1), Right: ref("x")}}}},
			werrors.KindUndefinedVariable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ast.NewEmitter("f", ast.NewLocals(nil, nil), stubFuncs{"g": {0, 2}})
			err := tt.node.WriteBinary(e)
			if !errors.Is(err, &werrors.Error{Phase: werrors.PhaseSemantic, Kind: tt.kind}) {
				t.Fatalf("got %v, want %s", err, tt.kind)
			}
			var ce *werrors.Error
			if errors.As(err, &ce) && ce.Function != "f" {
				t.Errorf("function = %q, want f", ce.Function)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	ids := ast.NewIDAllocator()

	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"number", num(-3), "i32.const -3\n"},
		{"variable", ref("x"), "local.get $x\n"},
		{"assign", assign("x", num(1)), "i32.const 1\nlocal.tee $x\n"},
		{
			"compare",
			&ast.BinaryOp{Op: ast.Le, Left: ref("a"), Right: ref("b")},
			"local.get $a\nlocal.get $b\ni32.le_s\n",
		},
		{"block", &ast.Block{Stmts: []ast.Node{num(1)}}, "i32.const 1\ndrop\ni32.const 0\n"},
		{"call", &ast.Call{Name: "g", Args: []ast.Node{num(1)}}, "i32.const 1\ncall $g\n"},
		{"return", &ast.Return{Value: num(2)}, "i32.const 2\nreturn\n"},
		{
			"if",
			ast.NewIf(ids, ref("c"), num(1), num(2)),
			strings.Join([]string{
				"local.get $c",
				"(if $if1",
				"  (then",
				"    i32.const 1",
				"    drop",
				"  )",
				"  (else",
				"    i32.const 2",
				"    drop",
				"  )",
				")",
				"i32.const 0",
				"",
			}, "\n"),
		},
		{
			"while",
			ast.NewWhile(ids, ref("c"), num(1)),
			strings.Join([]string{
				"(block $block2",
				"  (loop $loop2",
				"    local.get $c",
				"    i32.const 0",
				"    i32.eq",
				"    br_if $block2",
				"    i32.const 1",
				"    drop",
				"    br $loop2",
				"  )",
				")",
				"i32.const 0",
				"",
			}, "\n"),
		},
		{
			"for without cond",
			ast.NewFor(ids, assign("i", num(0)), nil, nil, num(1)),
			strings.Join([]string{
				"i32.const 0",
				"local.tee $i",
				"drop",
				"(block $block3",
				"  (loop $loop3",
				"    i32.const 1",
				"    drop",
				"    br $loop3",
				"  )",
				")",
				"i32.const 0",
				"",
			}, "\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text(tt.node); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestChildren(t *testing.T) {
	ids := ast.NewIDAllocator()
	start, cond, step, body := num(1), num(2), num(3), num(4)

	f := ast.NewFor(ids, start, cond, step, body)
	got := f.Children()
	if len(got) != 4 || got[0] != ast.Node(start) || got[1] != ast.Node(cond) || got[2] != ast.Node(step) || got[3] != ast.Node(body) {
		t.Errorf("For children = %v", got)
	}

	partial := ast.NewFor(ids, nil, cond, nil, body)
	if n := len(partial.Children()); n != 2 {
		t.Errorf("For without init/inc has %d children, want 2", n)
	}

	noElse := ast.NewIf(ids, cond, body, nil)
	if n := len(noElse.Children()); n != 2 {
		t.Errorf("If without else has %d children, want 2", n)
	}

	if len(num(1).Children()) != 0 || len(ref("x").Children()) != 0 {
		t.Error("leaves should have no children")
	}
}

func TestAsVariable(t *testing.T) {
	if v, ok := ast.AsVariable(ref("x")); !ok || v.Name != "x" {
		t.Errorf("AsVariable(Variable) = %v, %v", v, ok)
	}
	if _, ok := ast.AsVariable(num(1)); ok {
		t.Error("AsVariable(Number) should fail")
	}
}

func TestWalkPreOrder(t *testing.T) {
	tree := &ast.Block{Stmts: []ast.Node{
		assign("a", &ast.BinaryOp{Op: ast.Add, Left: num(1), Right: ref("b")}),
		&ast.Return{Value: ref("a")},
	}}

	var visited []string
	ast.Walk(tree, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Variable:
			visited = append(visited, n.Name)
		case *ast.Number:
			visited = append(visited, "#")
		}
		return true
	})
	if got := strings.Join(visited, ","); got != "a,#,b,a" {
		t.Errorf("visit order = %s", got)
	}

	var count int
	ast.Walk(tree, func(n ast.Node) bool {
		count++
		_, isAssign := n.(*ast.Assign)
		return !isAssign
	})
	// block, assign (skipped subtree), return, variable
	if count != 4 {
		t.Errorf("visited %d nodes with pruning, want 4", count)
	}
}

package ast

import (
	"fmt"

	"github.com/wippyai/wasmc/wasm"
)

// Node is implemented by every expression and statement variant.
type Node interface {
	// WriteText appends the node's instructions in text form.
	WriteText(w *TextWriter)
	// WriteBinary appends the node's instruction bytes.
	WriteBinary(e *Emitter) error
	// Children returns the direct children in source order.
	Children() []Node

	node()
}

// AsVariable reports whether n is a Variable.
func AsVariable(n Node) (*Variable, bool) {
	v, ok := n.(*Variable)
	return v, ok
}

// Op is a binary operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Eq
	Ne
	Gt
	Ge
	Lt
	Le
)

var opInfo = [...]struct {
	symbol string
	opcode byte
}{
	Add: {"+", wasm.OpI32Add},
	Sub: {"-", wasm.OpI32Sub},
	Mul: {"*", wasm.OpI32Mul},
	Div: {"/", wasm.OpI32DivS},
	Eq:  {"==", wasm.OpI32Eq},
	Ne:  {"!=", wasm.OpI32Ne},
	Gt:  {">", wasm.OpI32GtS},
	Ge:  {">=", wasm.OpI32GeS},
	Lt:  {"<", wasm.OpI32LtS},
	Le:  {"<=", wasm.OpI32LeS},
}

// OpForSymbol returns the operator spelled s.
func OpForSymbol(s string) (Op, bool) {
	for op, info := range opInfo {
		if info.symbol == s {
			return Op(op), true
		}
	}
	return 0, false
}

// Opcode returns the i32 instruction implementing the operator.
func (o Op) Opcode() byte {
	return opInfo[o].opcode
}

// Mnemonic returns the text-format instruction name.
func (o Op) Mnemonic() string {
	return wasm.Mnemonics[o.Opcode()]
}

func (o Op) String() string {
	if int(o) < len(opInfo) {
		return opInfo[o].symbol
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Number is an i32 literal.
type Number struct {
	Value int32
}

// Variable reads a local slot by name.
type Variable struct {
	Name string
}

// Assign stores Value into Target and leaves the value on the stack.
type Assign struct {
	Target *Variable
	Value  Node
}

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	Left  Node
	Right Node
	Op    Op
}

// Block runs statements in order, discarding each result.
type Block struct {
	Stmts []Node
}

// If evaluates Cond and runs Then when it is non-zero, otherwise Else.
// Else is nil when absent.
type If struct {
	Cond Node
	Then Node
	Else Node
	ID   uint32
}

// While runs Body as long as Cond is non-zero.
type While struct {
	Cond Node
	Body Node
	ID   uint32
}

// For runs Init once, then Body and Inc while Cond is non-zero.
// Init, Cond and Inc are nil when omitted; a nil Cond never exits.
type For struct {
	Init Node
	Cond Node
	Inc  Node
	Body Node
	ID   uint32
}

// Return leaves the function with Value.
type Return struct {
	Value Node
}

// Call invokes a function of the module by name.
type Call struct {
	Name string
	Args []Node
}

// NewIf returns an If with a fresh ID from ids.
func NewIf(ids *IDAllocator, cond, then, els Node) *If {
	return &If{ID: ids.Next(), Cond: cond, Then: then, Else: els}
}

// NewWhile returns a While with a fresh ID from ids.
func NewWhile(ids *IDAllocator, cond, body Node) *While {
	return &While{ID: ids.Next(), Cond: cond, Body: body}
}

// NewFor returns a For with a fresh ID from ids.
func NewFor(ids *IDAllocator, init, cond, inc, body Node) *For {
	return &For{ID: ids.Next(), Init: init, Cond: cond, Inc: inc, Body: body}
}

// Negate lowers unary minus to 0 - x.
func Negate(x Node) *BinaryOp {
	return &BinaryOp{Op: Sub, Left: &Number{Value: 0}, Right: x}
}

func (*Number) node()   {}
func (*Variable) node() {}
func (*Assign) node()   {}
func (*BinaryOp) node() {}
func (*Block) node()    {}
func (*If) node()       {}
func (*While) node()    {}
func (*For) node()      {}
func (*Return) node()   {}
func (*Call) node()     {}

func (*Number) Children() []Node   { return nil }
func (*Variable) Children() []Node { return nil }

func (n *Assign) Children() []Node   { return []Node{n.Target, n.Value} }
func (n *BinaryOp) Children() []Node { return []Node{n.Left, n.Right} }
func (n *Block) Children() []Node    { return n.Stmts }
func (n *Return) Children() []Node   { return []Node{n.Value} }
func (n *Call) Children() []Node     { return n.Args }
func (n *While) Children() []Node    { return []Node{n.Cond, n.Body} }

func (n *If) Children() []Node {
	return nonNil(n.Cond, n.Then, n.Else)
}

func (n *For) Children() []Node {
	return nonNil(n.Init, n.Cond, n.Inc, n.Body)
}

func nonNil(nodes ...Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Walk calls fn for n and its descendants in pre-order. Returning false
// from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

package ast

import (
	"github.com/wippyai/wasmc/wasm"
)

// Relative branch depths inside the block/loop pair of a loop construct.
const (
	depthLoop  = 0
	depthBlock = 1
)

func (n *Number) WriteText(w *TextWriter) {
	w.Linef("i32.const %d", n.Value)
}

func (n *Number) WriteBinary(e *Emitter) error {
	e.Const(n.Value)
	return nil
}

func (n *Variable) WriteText(w *TextWriter) {
	w.Linef("local.get $%s", n.Name)
}

func (n *Variable) WriteBinary(e *Emitter) error {
	idx, err := e.Local(n.Name)
	if err != nil {
		return err
	}
	e.Op(wasm.OpLocalGet)
	e.U32(idx)
	return nil
}

func (n *Assign) WriteText(w *TextWriter) {
	n.Value.WriteText(w)
	w.Linef("local.tee $%s", n.Target.Name)
}

func (n *Assign) WriteBinary(e *Emitter) error {
	if err := n.Value.WriteBinary(e); err != nil {
		return err
	}
	idx, err := e.Local(n.Target.Name)
	if err != nil {
		return err
	}
	e.Op(wasm.OpLocalTee)
	e.U32(idx)
	return nil
}

func (n *BinaryOp) WriteText(w *TextWriter) {
	n.Left.WriteText(w)
	n.Right.WriteText(w)
	w.Line(n.Op.Mnemonic())
}

func (n *BinaryOp) WriteBinary(e *Emitter) error {
	if err := n.Left.WriteBinary(e); err != nil {
		return err
	}
	if err := n.Right.WriteBinary(e); err != nil {
		return err
	}
	e.Op(n.Op.Opcode())
	return nil
}

func (n *Block) WriteText(w *TextWriter) {
	for _, s := range n.Stmts {
		writeDropped(w, s)
	}
	w.Line("i32.const 0")
}

func (n *Block) WriteBinary(e *Emitter) error {
	for _, s := range n.Stmts {
		if err := emitDropped(e, s); err != nil {
			return err
		}
	}
	e.Const(0)
	return nil
}

func (n *If) WriteText(w *TextWriter) {
	n.Cond.WriteText(w)
	w.Open("if $if%d", n.ID)
	w.Open("then")
	writeDropped(w, n.Then)
	w.Close()
	if n.Else != nil {
		w.Open("else")
		writeDropped(w, n.Else)
		w.Close()
	}
	w.Close()
	w.Line("i32.const 0")
}

func (n *If) WriteBinary(e *Emitter) error {
	if err := n.Cond.WriteBinary(e); err != nil {
		return err
	}
	e.Op(wasm.OpIf, wasm.BlockTypeVoid)
	if err := emitDropped(e, n.Then); err != nil {
		return err
	}
	if n.Else != nil {
		e.Op(wasm.OpElse)
		if err := emitDropped(e, n.Else); err != nil {
			return err
		}
	}
	e.Op(wasm.OpEnd)
	e.Const(0)
	return nil
}

func (n *While) WriteText(w *TextWriter) {
	writeLoop(w, n.ID, n.Cond, n.Body, nil)
}

func (n *While) WriteBinary(e *Emitter) error {
	return emitLoop(e, n.Cond, n.Body, nil)
}

func (n *For) WriteText(w *TextWriter) {
	if n.Init != nil {
		writeDropped(w, n.Init)
	}
	writeLoop(w, n.ID, n.Cond, n.Body, n.Inc)
}

func (n *For) WriteBinary(e *Emitter) error {
	if n.Init != nil {
		if err := emitDropped(e, n.Init); err != nil {
			return err
		}
	}
	return emitLoop(e, n.Cond, n.Body, n.Inc)
}

func (n *Return) WriteText(w *TextWriter) {
	n.Value.WriteText(w)
	w.Line("return")
}

func (n *Return) WriteBinary(e *Emitter) error {
	if err := n.Value.WriteBinary(e); err != nil {
		return err
	}
	e.Op(wasm.OpReturn)
	return nil
}

func (n *Call) WriteText(w *TextWriter) {
	for _, a := range n.Args {
		a.WriteText(w)
	}
	w.Linef("call $%s", n.Name)
}

func (n *Call) WriteBinary(e *Emitter) error {
	idx, err := e.Func(n.Name, len(n.Args))
	if err != nil {
		return err
	}
	for _, a := range n.Args {
		if err := a.WriteBinary(e); err != nil {
			return err
		}
	}
	e.Op(wasm.OpCall)
	e.U32(idx)
	return nil
}

func writeDropped(w *TextWriter, n Node) {
	n.WriteText(w)
	w.Line("drop")
}

func emitDropped(e *Emitter, n Node) error {
	if err := n.WriteBinary(e); err != nil {
		return err
	}
	e.Op(wasm.OpDrop)
	return nil
}

// writeLoop writes the block/loop pair shared by While and For. A nil cond
// leaves out the exit test.
func writeLoop(w *TextWriter, id uint32, cond, body, inc Node) {
	w.Open("block $block%d", id)
	w.Open("loop $loop%d", id)
	if cond != nil {
		cond.WriteText(w)
		w.Line("i32.const 0")
		w.Line("i32.eq")
		w.Linef("br_if $block%d", id)
	}
	writeDropped(w, body)
	if inc != nil {
		writeDropped(w, inc)
	}
	w.Linef("br $loop%d", id)
	w.Close()
	w.Close()
	w.Line("i32.const 0")
}

func emitLoop(e *Emitter, cond, body, inc Node) error {
	e.Op(wasm.OpBlock, wasm.BlockTypeVoid)
	e.Op(wasm.OpLoop, wasm.BlockTypeVoid)
	if cond != nil {
		if err := cond.WriteBinary(e); err != nil {
			return err
		}
		e.Const(0)
		e.Op(wasm.OpI32Eq, wasm.OpBrIf)
		e.U32(depthBlock)
	}
	if err := emitDropped(e, body); err != nil {
		return err
	}
	if inc != nil {
		if err := emitDropped(e, inc); err != nil {
			return err
		}
	}
	e.Op(wasm.OpBr)
	e.U32(depthLoop)
	e.Op(wasm.OpEnd, wasm.OpEnd)
	e.Const(0)
	return nil
}

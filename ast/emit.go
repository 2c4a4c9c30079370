package ast

import (
	"github.com/wippyai/wasmc/errors"
	"github.com/wippyai/wasmc/wasm"
)

// FuncResolver maps a function name to its index and parameter count.
type FuncResolver interface {
	Lookup(name string) (index uint32, arity int, ok bool)
}

// Emitter accumulates the instruction bytes of one function body and
// resolves names against its frozen locals and the module's functions.
type Emitter struct {
	funcs  FuncResolver
	locals *Locals
	fn     string
	code   []byte
}

// NewEmitter returns an emitter for the body of function fn.
func NewEmitter(fn string, locals *Locals, funcs FuncResolver) *Emitter {
	return &Emitter{fn: fn, locals: locals, funcs: funcs}
}

// Op appends raw opcode or immediate bytes.
func (e *Emitter) Op(b ...byte) {
	e.code = append(e.code, b...)
}

// U32 appends an unsigned LEB128 immediate.
func (e *Emitter) U32(v uint32) {
	e.code = wasm.AppendLEB128u(e.code, v)
}

// I32 appends a signed LEB128 immediate.
func (e *Emitter) I32(v int32) {
	e.code = wasm.AppendLEB128s(e.code, v)
}

// Const appends i32.const v.
func (e *Emitter) Const(v int32) {
	e.Op(wasm.OpI32Const)
	e.I32(v)
}

// Local resolves a variable to its slot index.
func (e *Emitter) Local(name string) (uint32, error) {
	if e.locals != nil {
		if idx, ok := e.locals.Index(name); ok {
			return idx, nil
		}
	}
	return 0, errors.UndefinedVariable(e.fn, name)
}

// Func resolves a call target, checking the argument count.
func (e *Emitter) Func(name string, argc int) (uint32, error) {
	if e.funcs == nil {
		return 0, errors.UndefinedFunction(e.fn, name)
	}
	idx, arity, ok := e.funcs.Lookup(name)
	if !ok {
		return 0, errors.UndefinedFunction(e.fn, name)
	}
	if arity != argc {
		return 0, errors.ArityMismatch(e.fn, name, arity, argc)
	}
	return idx, nil
}

// Bytes returns the code emitted so far.
func (e *Emitter) Bytes() []byte {
	return e.code
}

// Len returns the number of bytes emitted.
func (e *Emitter) Len() int {
	return len(e.code)
}

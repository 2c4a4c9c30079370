package ast

import (
	"github.com/wippyai/wasmc/errors"
	"github.com/wippyai/wasmc/wasm"
)

// Param is a function parameter.
type Param struct {
	Name string
	Type wasm.ValType
}

// Function is a named function with its frozen slot table.
type Function struct {
	Body   *Block
	locals *Locals
	Name   string
	Params []Param
}

// NewFunction builds a function and freezes its locals. Parameters must
// have distinct names.
func NewFunction(name string, params []Param, body *Block) (*Function, error) {
	params = append([]Param(nil), params...)
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if seen[p.Name] {
			return nil, errors.DuplicateParam(name, p.Name)
		}
		seen[p.Name] = true
		if p.Type == 0 {
			params[i].Type = wasm.ValI32
		}
	}
	if body == nil {
		body = &Block{}
	}
	return &Function{
		Name:   name,
		Params: params,
		Body:   body,
		locals: NewLocals(params, DiscoverLocals(params, body)),
	}, nil
}

// Locals returns the function's slot table.
func (f *Function) Locals() *Locals {
	return f.locals
}

// Signature returns the function type: one i32 per parameter and an i32 result.
func (f *Function) Signature() wasm.FuncType {
	params := make([]wasm.ValType, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return wasm.FuncType{Params: params, Results: []wasm.ValType{wasm.ValI32}}
}

// WriteText writes the func S-expression.
func (f *Function) WriteText(w *TextWriter) {
	head := "func $" + f.Name
	for _, p := range f.Params {
		head += " (param $" + p.Name + " " + p.Type.String() + ")"
	}
	head += " (result i32)"
	w.Open("%s", head)
	for _, name := range f.locals.Declared() {
		w.Linef("(local $%s i32)", name)
	}
	f.Body.WriteText(w)
	w.Close()
}

// Compile lowers the body. The Block's trailing zero is the implicit result
// when control reaches the end of the function.
func (f *Function) Compile(funcs FuncResolver) (wasm.FuncBody, error) {
	e := NewEmitter(f.Name, f.locals, funcs)
	if err := f.Body.WriteBinary(e); err != nil {
		return wasm.FuncBody{}, err
	}
	e.Op(wasm.OpEnd)

	var locals []wasm.LocalEntry
	if n := len(f.locals.Declared()); n > 0 {
		locals = []wasm.LocalEntry{{Count: uint32(n), ValType: wasm.ValI32}}
	}
	return wasm.FuncBody{Locals: locals, Code: e.Bytes()}, nil
}
